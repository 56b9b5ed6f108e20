// Command tokenjohn levanta el servidor OAuth2 y expone las tareas de
// operación: migraciones, alta de clients y hash de secrets.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/tokenjohn/internal/config"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
)

// version se pisa en build con -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	envFile    string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "tokenjohn",
		Short:         "Servidor de emisión e introspección de tokens OAuth2",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", envOr("TOKENJOHN_CONFIG", ""), "Archivo YAML de configuración (env TOKENJOHN_CONFIG)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Archivo .env a cargar antes de leer la config (vacío lo desactiva)")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newClientCmd(opts),
		newHashSecretCmd(),
	)
	return root
}

// load carga .env (si existe), la config y deja el logger inicializado.
func (o *rootOptions) load() (*config.Config, error) {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", o.envFile, err)
		}
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.App.Version == "" {
		cfg.App.Version = version
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
		TimeFormat:  cfg.Log.TimeFormat,
	})
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
