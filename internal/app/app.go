package app

import (
	"time"

	"audio-transcriber/internal/config"
	"audio-transcriber/internal/observability/logging"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds process-wide state for the transcriber.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config
}

// New constructs a new Application from the provided configuration.
func New(cfg *config.Config) *Application {
	a := &Application{
		Cfg: cfg,
	}
	a.setupLogger()

	appLogger := a.Logger.With().
		Str("component", "application").
		Str("method", "New").
		Logger()

	appLogger.Info().Msg("Audio transcriber application created")
	return a
}

// setupLogger configures zerolog for the process.
func (a *Application) setupLogger() {
	format := "json"
	if a.Cfg.Log.Pretty {
		format = "console"
	}
	logging.Init(logging.Config{
		Level:      a.Cfg.Log.Level,
		Format:     format,
		TimeFormat: time.RFC3339,
	})

	log.Logger = log.Logger.With().
		Str("service", "audio-transcriber").
		Logger()

	a.Logger = log.Logger.With().
		Str("component", "application").
		Logger()

	a.Logger.Info().
		Str("logLevel", zerolog.GlobalLevel().String()).
		Msg("Logger setup completed")
}

// Start performs any startup work required before processing audio.
func (a *Application) Start() error {
	startLogger := a.Logger.With().
		Str("method", "Start").
		Logger()

	a.StartupTime = time.Now().UTC()
	startLogger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Audio transcriber starting")

	return nil
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	shutdownLogger := a.Logger.With().
		Str("method", "Shutdown").
		Logger()

	shutdownLogger.Info().Msg("Audio transcriber shutting down")
}
