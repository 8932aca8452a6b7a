package store

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/gatogato999/ordstore/internal/logging"
)

// manifest is the TOML layout for declaring keyspaces at startup:
//
//	[[keyspace]]
//	name = "users"
//
//	[[keyspace]]
//	name = "sessions"
type manifest struct {
	Keyspaces []struct {
		Name string `toml:"name"`
	} `toml:"keyspace"`
}

// bootstrap creates every keyspace declared in the manifest file.
// Keyspaces that already exist are left alone.
func (m *manager) bootstrap(ctx context.Context, path string) error {
	logger := logging.FromContext(ctx)
	var mf manifest
	if _, err := toml.DecodeFile(path, &mf); err != nil {
		return fmt.Errorf("unable decode manifest %s: %w", path, err)
	}
	for _, ks := range mf.Keyspaces {
		if err := m.CreateKeyspace(ctx, ks.Name); err != nil {
			return fmt.Errorf("unable create keyspace %q: %w", ks.Name, err)
		}
	}
	logger.Infof("bootstrap: %d keyspaces declared in %s", len(mf.Keyspaces), path)
	return nil
}
