package config

import (
	"github.com/gatogato999/ordstore/internal/database"
	"github.com/gatogato999/ordstore/internal/mutate"
	"github.com/gatogato999/ordstore/internal/notify"
	"github.com/gatogato999/ordstore/internal/query"
	"github.com/gatogato999/ordstore/internal/setup"
	"github.com/gatogato999/ordstore/internal/store"
)

var (
	_ setup.DatabaseConfigProvider = (*Config)(nil)
	_ setup.NotifierConfigProvider = (*Config)(nil)
	_ setup.StoreConfigProvider    = (*Config)(nil)
)

type Config struct {
	SrvAddr   string `envconfig:"ORDSTORE_ADDR" default:":8787"`
	DebugAddr string `envconfig:"ORDSTORE_DEBUG_ADDR" default:"0.0.0.0:8080"`
	Store     store.Config
	Mutate    mutate.Config
	Query     query.Config
	Database  database.Config
	Notify    notify.Config
}

func (c Config) StoreConfig() *store.Config {
	return &c.Store
}

func (c Config) NotifyConfig() *notify.Config {
	return &c.Notify
}

func (c Config) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c Config) MutateConfig() *mutate.Config {
	return &c.Mutate
}

func (c Config) QueryConfig() *query.Config {
	return &c.Query
}
