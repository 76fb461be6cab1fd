package logger

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/alumni-tracking-api/pkg/config"
	"github.com/noah-isme/alumni-tracking-api/pkg/middleware/requestid"
)

const serviceName = "alumni-tracking-api"

// New builds the process logger. Production logs JSON with sampling; other
// environments default to coloured console output.
func New(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	}
	if cfg.Log.Format != "" {
		zapCfg.Encoding = cfg.Log.Format
		if cfg.Log.Format == "json" {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		}
	}

	if cfg.Log.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Log.Level, err)
		}
		zapCfg.Level = level
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build(zap.Fields(
		zap.String("service", serviceName),
		zap.String("env", cfg.Env),
	))
}

// RequestOptions tunes GinMiddleware.
type RequestOptions struct {
	// SkipPaths are not logged when the request succeeds.
	SkipPaths []string
	// Fields adds caller-specific fields such as the authenticated user.
	Fields func(*gin.Context) []zap.Field
}

// GinMiddleware writes one access line per request at a level matching the status.
func GinMiddleware(l *zap.Logger, opts RequestOptions) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if _, ok := skip[c.Request.URL.Path]; ok && status < 400 {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id := requestid.Value(c); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if opts.Fields != nil {
			fields = append(fields, opts.Fields(c)...)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			l.Error("request", fields...)
		case status >= 400:
			l.Warn("request", fields...)
		default:
			l.Info("request", fields...)
		}
	}
}
