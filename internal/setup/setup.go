package setup

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/gatogato999/ordstore/internal/database"
	"github.com/gatogato999/ordstore/internal/logging"
	"github.com/gatogato999/ordstore/internal/notify"
	"github.com/gatogato999/ordstore/internal/srvenv"
	"github.com/gatogato999/ordstore/internal/store"
)

type NotifierConfigProvider interface {
	NotifyConfig() *notify.Config
}

type StoreConfigProvider interface {
	StoreConfig() *store.Config
}

type DatabaseConfigProvider interface {
	DatabaseConfig() *database.Config
}

func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	var db *database.DB
	if dbConfigProvider, ok := config.(DatabaseConfigProvider); ok {
		logger.Info("configuring db")
		dbFromEnv, err := database.NewFromEnv(ctx, dbConfigProvider.DatabaseConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %v", err)
		}
		db = dbFromEnv
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDatabase(db))
	}

	if notifyConfigProvider, ok := config.(NotifierConfigProvider); ok {
		logger.Info("configuring notifier")
		provideFn, err := ProvideNotifierFor(notifyConfigProvider)
		if err != nil {
			return nil, fmt.Errorf("unable create notifier provide function: %v", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithNotifier(provideFn))
	}

	if storeConfigProvider, ok := config.(StoreConfigProvider); ok {
		logger.Info("configuring store")
		provideFn, err := ProvideStoreFor(storeConfigProvider, db)
		if err != nil {
			return nil, fmt.Errorf("unable create store provide function: %v", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithStore(provideFn))
	}

	return srvenv.New(serverEnvOpts...), nil
}

func ProvideNotifierFor(provider NotifierConfigProvider) (notify.ProvideFn, error) {
	cfg := provider.NotifyConfig()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("dont process notifier env: %w", err)
	}
	return func(shutdownCh chan<- error) (notify.Manager, error) {
		return notify.New(
			shutdownCh,
			notify.WithMaxConcurrentRequest(cfg.MaxConcurrentRequest),
			notify.WithNotifyInterval(cfg.Interval),
			notify.WithRequestTimeout(cfg.RequestTimeout),
			notify.WithTargets(cfg.Targets),
		)
	}, nil
}

func ProvideStoreFor(provider StoreConfigProvider, db *database.DB) (store.ProvideFn, error) {
	cfg := provider.StoreConfig()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("dont process store env: %w", err)
	}
	return func(notifier notify.Manager, shutdownCh chan<- error) (store.Manager, error) {
		return store.New(
			db,
			notifier,
			shutdownCh,
			store.WithMaxKeysStored(cfg.MaxKeysStored),
			store.WithMaxStorageTime(cfg.MaxStorageTime),
			store.WithFlushSize(cfg.FlushSize),
			store.WithFlushTime(cfg.FlushTime),
			store.WithRebuildTime(cfg.RebuildTime),
			store.WithMaxConcurrentLoad(cfg.MaxConcurrentLoad),
			store.WithBootstrapFile(cfg.BootstrapFile),
		)
	}, nil
}
