package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
	"github.com/dropDatabas3/tokenjohn/internal/security/password"
	"github.com/dropDatabas3/tokenjohn/internal/store"
	"github.com/dropDatabas3/tokenjohn/internal/validation"

	_ "github.com/dropDatabas3/tokenjohn/internal/store/adapters/memory"
)

// generatedSecretBytes es la entropía de los secrets generados (32 chars base64url).
const generatedSecretBytes = 24

func newClientCmd(opts *rootOptions) *cobra.Command {
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Administración de clients OAuth2",
	}

	var identifier, secret, clientType, scheme string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Da de alta un client (sin --secret se genera uno)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validation.ValidClientIdentifier(identifier) {
				return fmt.Errorf("--identifier %q no es válido", identifier)
			}
			if !validation.ValidResponseType(clientType) {
				return fmt.Errorf("--type debe ser confidential|public (got %q)", clientType)
			}

			generated := secret == ""
			if generated {
				s, err := password.GenerateSecret(generatedSecretBytes)
				if err != nil {
					return err
				}
				secret = s
			}
			if ok, reasons := password.DefaultSecretPolicy.Validate(secret); !ok {
				return fmt.Errorf("secret rechazado: %s", strings.Join(reasons, ", "))
			}
			hash, err := password.Hash(scheme, secret)
			if err != nil {
				return err
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			dal, err := store.Open(ctx, cfg.Storage.Driver, store.AdapterConfig{
				DSN:            cfg.Storage.DSN,
				MaxConns:       2,
				MinConns:       1,
				AcquireTimeout: cfg.Storage.Postgres.AcquireTimeout,
			})
			if err != nil {
				return err
			}
			defer dal.Close()

			c, err := dal.Clients().Create(ctx, repository.CreateClientInput{
				Identifier:   identifier,
				SecretHash:   hash,
				ResponseType: clientType,
			})
			if repository.IsConflict(err) {
				return fmt.Errorf("client %q ya existe", identifier)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "client_id=%s type=%s id=%d\n", c.Identifier, c.ResponseType, c.ID)
			if generated {
				// solo se muestra una vez; en la base queda el hash
				fmt.Fprintf(out, "client_secret=%s\n", secret)
			}
			return nil
		},
	}
	createCmd.Flags().StringVar(&identifier, "identifier", "", "Identifier del client (usuario en HTTP Basic)")
	createCmd.Flags().StringVar(&secret, "secret", "", "Secret del client (vacío genera uno)")
	createCmd.Flags().StringVar(&clientType, "type", repository.ClientTypeConfidential, "confidential|public")
	createCmd.Flags().StringVar(&scheme, "scheme", "bcrypt", "Esquema de hash: bcrypt|argon2id")
	_ = createCmd.MarkFlagRequired("identifier")

	clientCmd.AddCommand(createCmd)
	return clientCmd
}

func newHashSecretCmd() *cobra.Command {
	var scheme string
	cmd := &cobra.Command{
		Use:   "hash-secret [secret]",
		Short: "Imprime el hash de un secret (sin argumento lo lee de stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var plain string
			if len(args) == 1 {
				plain = args[0]
			} else {
				sc := bufio.NewScanner(cmd.InOrStdin())
				if sc.Scan() {
					plain = sc.Text()
				}
				if err := sc.Err(); err != nil {
					return err
				}
			}
			plain = strings.TrimRight(plain, "\r\n")

			hash, err := password.Hash(scheme, plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&scheme, "scheme", "bcrypt", "Esquema de hash: bcrypt|argon2id")
	return cmd
}
