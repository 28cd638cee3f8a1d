package backend

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gider/internal/config"
	"gider/internal/log"
)

type noToken struct{}

func (noToken) Get(context.Context) (string, error) { return "t", nil }

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func TestTypeValidity(t *testing.T) {
	if !RemoteBackend.IsValid() || !MemoryBackend.IsValid() {
		t.Fatalf("known types must be valid")
	}
	if Type("sheets").IsValid() {
		t.Fatalf("unknown type must be invalid")
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	f := NewFactory(testLogger(), noToken{})
	res, err := f.Create(&config.Config{DataBackend: "memory"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Backend == nil {
		t.Fatalf("expected backend instance")
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	cats, err := res.Backend.ListCategories(context.Background())
	if err != nil || len(cats) == 0 {
		t.Fatalf("expected seeded categories, got %d (err=%v)", len(cats), err)
	}
}

func TestCreateRemoteBackend(t *testing.T) {
	f := NewFactory(testLogger(), noToken{})
	res, err := f.Create(&config.Config{
		DataBackend: "remote",
		APIBaseURL:  "https://api.example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Backend == nil {
		t.Fatalf("expected backend instance")
	}
}

func TestCreateRemoteRequiresBaseURL(t *testing.T) {
	f := NewFactory(testLogger(), noToken{})
	if _, err := f.Create(&config.Config{DataBackend: "remote"}); err == nil {
		t.Fatalf("expected error without base URL")
	}
}

func TestCreateUnknownBackend(t *testing.T) {
	f := NewFactory(testLogger(), noToken{})
	if _, err := f.Create(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
