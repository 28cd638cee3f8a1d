// Package backend selects and builds the expense data source from
// configuration: the remote API for real use or the in-memory store for
// offline development and tests.
package backend

import (
	"fmt"

	"gider/internal/api"
	"gider/internal/config"
	"gider/internal/log"
	"gider/internal/memory"
	"gider/internal/ports"
)

// Type names a backend implementation.
type Type string

const (
	RemoteBackend Type = "remote"
	MemoryBackend Type = "memory"
)

func (t Type) String() string { return string(t) }

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case RemoteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result carries the built backend and its cleanup.
type Result struct {
	Backend ports.Backend
	Cleanup CleanupFunc
}

// Factory builds backends from application config.
type Factory struct {
	logger *log.Logger
	tokens api.TokenSource
}

func NewFactory(logger *log.Logger, tokens api.TokenSource) *Factory {
	return &Factory{
		logger: logger.WithComponent(log.ComponentBackend),
		tokens: tokens,
	}
}

func (f *Factory) Create(cfg *config.Config) (*Result, error) {
	t := Type(cfg.DataBackend)
	switch t {
	case RemoteBackend:
		return f.createRemote(cfg)
	case MemoryBackend:
		return f.createMemory()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}

func (f *Factory) createRemote(cfg *config.Config) (*Result, error) {
	client, err := api.New(api.Config{
		BaseURL:               cfg.APIBaseURL,
		AuthorizeCategoryList: cfg.AuthorizeCategoryList,
	}, f.tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API client: %w", err)
	}

	f.logger.Info("remote backend ready", "base_url", cfg.APIBaseURL)
	return &Result{
		Backend: client,
		Cleanup: func() error { return nil },
	}, nil
}

func (f *Factory) createMemory() (*Result, error) {
	f.logger.Info("memory backend ready")
	return &Result{
		Backend: memory.NewFromFiles("data"),
		Cleanup: func() error { return nil },
	}, nil
}
