package app

import (
	"context"

	"github.com/datallboy/toolfetch/internal/auth"
	"github.com/datallboy/toolfetch/internal/domain"
	"github.com/datallboy/toolfetch/internal/infra/config"
	"github.com/datallboy/toolfetch/internal/infra/logger"
	"github.com/datallboy/toolfetch/internal/platform"
)

type Downloads interface {
	// This allows the API to drive the engine without importing it
	StartDownload(source domain.Source, url string) error
	Cancel(url string) error
	Active() []string
	DecideNavigation(source domain.Source, url string) bool
}

type StatusView interface {
	Last() string
	SetStatus(text string)
	Downloads() []domain.DownloadStatus
}

type EventLog interface {
	ListEvents(ctx context.Context, url string) ([]domain.LoggedEvent, error)
}

// Context holds the shared services of one toolfetch process.
// It is built once at startup and passed to every component that needs it.
type Context struct {
	Config  *config.Config
	Logger  *logger.Logger
	Tokens  *auth.TokenStore
	Helpers platform.Helpers

	// High-level interfaces for the API layer
	Downloads Downloads
	Status    StatusView
	Events    EventLog
}

// NewContext initializes the base environment from config. Services are
// attached by the caller once constructed.
func NewContext(cfg *config.Config, log *logger.Logger) *Context {
	tokens := auth.NewTokenStore()
	if cfg.Auth.Token != "" {
		tokens.Set(cfg.Auth.Token)
	}

	return &Context{
		Config: cfg,
		Logger: log,
		Tokens: tokens,
		Helpers: platform.Helpers{
			ScriptDir:  cfg.Helper.ScriptDir,
			Aria2cPath: cfg.Helper.Aria2cPath,
		},
	}
}
