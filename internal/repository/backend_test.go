package repository

import (
	"context"
	"testing"

	"github.com/mamadbah2/smallerp/internal/config"
)

func TestOpenMemory(t *testing.T) {
	backend, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = backend.Close(context.Background()) }()

	snap, err := backend.Store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Products) != 3 || backend.Archive == nil {
		t.Fatalf("unexpected memory backend: %d products", len(snap.Products))
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "postgres"}}, nil); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
