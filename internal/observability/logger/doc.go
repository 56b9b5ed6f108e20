// Package logger wraps a process-wide zap logger with request scoping.
//
// Init se llama una vez en main con la sección log de la config:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// Los middlewares inyectan un logger con request_id/method/path y las capas
// de abajo lo recuperan con From(ctx):
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.token"))
//	log.Warn("client not confidential", logger.ClientID(id))
package logger
