// Package runsmithfx wires the SDK into go.uber.org/fx applications:
// configuration, logger, collector client, and recorder in one module.
package runsmithfx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/runsmith/runsmith-go/client"
	"github.com/runsmith/runsmith-go/config"
	"github.com/runsmith/runsmith-go/internal/logging"
	"github.com/runsmith/runsmith-go/trace"
)

// Module provides *config.Config, *zap.Logger, *client.Client, and
// *trace.Recorder. With tracing disabled the client is nil and the recorder
// is a zero-overhead no-op.
var Module = fx.Module("runsmith",
	fx.Provide(
		config.Load,
		newLogger,
		newClient,
		newRecorder,
	),
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging.Level, cfg.Logging.Development)
}

func newClient(cfg *config.Config, log *zap.Logger) (*client.Client, error) {
	if !cfg.Tracing {
		return nil, nil
	}
	return client.New(cfg, client.WithLogger(log))
}

func newRecorder(cfg *config.Config, c *client.Client, log *zap.Logger) *trace.Recorder {
	if c == nil {
		return trace.NewRecorder(nil)
	}
	return trace.NewRecorder(c,
		trace.WithRecorderLogger(log),
		trace.WithProject(cfg.Project))
}
