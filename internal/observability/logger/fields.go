package logger

import (
	"time"

	"go.uber.org/zap"
)

// ---- HTTP ----

func RequestID(v string) zap.Field       { return zap.String("request_id", v) }
func Method(v string) zap.Field          { return zap.String("method", v) }
func Path(v string) zap.Field            { return zap.String("path", v) }
func Status(v int) zap.Field             { return zap.Int("status", v) }
func Bytes(v int) zap.Field              { return zap.Int("bytes", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }
func DurationMs(v int64) zap.Field       { return zap.Int64("duration_ms", v) }
func ClientIP(v string) zap.Field        { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field       { return zap.String("user_agent", v) }

// ---- OAuth ----

// ClientID es el identifier público del cliente (nunca el secret).
func ClientID(v string) zap.Field { return zap.String("client_id", v) }

// GrantType es el grant_type pedido en /oauth/token.
func GrantType(v string) zap.Field { return zap.String("grant_type", v) }

// TokenKind distingue "access" de "refresh".
func TokenKind(v string) zap.Field { return zap.String("token_kind", v) }

// Scope loguea el scope tal cual fue pedido.
func Scope(v string) zap.Field { return zap.String("scope", v) }

// TokenFP es el fingerprint del token, nunca el valor.
func TokenFP(v string) zap.Field { return zap.String("token_fp", v) }

// ---- Sistema ----

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }
func Key(v string) zap.Field       { return zap.String("key", v) }

// ---- Genéricos ----

func String(key, v string) zap.Field      { return zap.String(key, v) }
func Int(key string, v int) zap.Field     { return zap.Int(key, v) }
func Int64(key string, v int64) zap.Field { return zap.Int64(key, v) }
func Bool(key string, v bool) zap.Field   { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field     { return zap.Any(key, v) }
