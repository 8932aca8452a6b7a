package srvenv

import (
	"context"

	"github.com/gatogato999/ordstore/internal/database"
	"github.com/gatogato999/ordstore/internal/notify"
	"github.com/gatogato999/ordstore/internal/store"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

type SrvEnv struct {
	database *database.DB
	store    store.ProvideFn
	notifier notify.ProvideFn
}

func (s *SrvEnv) ProvideNotifier() notify.ProvideFn {
	return s.notifier
}

func (s *SrvEnv) ProvideStore() store.ProvideFn {
	return s.store
}

func (s *SrvEnv) Database() *database.DB {
	return s.database
}

func WithNotifier(fn notify.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.notifier = fn
		return s
	}
}

func WithStore(fn store.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.store = fn
		return s
	}
}

func WithDatabase(db *database.DB) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.database = db
		return s
	}
}

func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.database != nil {
		return s.database.Close(ctx)
	}
	return nil
}
