package root

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"questboard/internal/config"
	"questboard/internal/engine"
	"questboard/internal/storage"
	"questboard/internal/storage/postgres"
)

type sessionOptions struct {
	configPath *string
}

func openGateway(ctx context.Context, cfg *config.Config, logw io.Writer) (storage.Gateway, error) {
	switch cfg.Store {
	case config.DriverMemory:
		return storage.NewMemoryStore(), nil
	case config.DriverPostgres:
		pg, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.NewLogger(logw))
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		db, err := storage.OpenSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// openService loads config, opens the configured gateway and loads the owner's
// session. The returned cleanup closes the gateway.
func openService(ctx context.Context, cmd *cobra.Command, opts *sessionOptions) (*engine.Service, func(), error) {
	cfg, err := config.Load(*opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	cal, err := cfg.Calendar()
	if err != nil {
		return nil, nil, err
	}
	locale, err := cfg.LocaleTag()
	if err != nil {
		return nil, nil, err
	}

	gw, err := openGateway(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = gw.Close()
	}

	svcOpts := []engine.Option{
		engine.WithCalendar(cal),
		engine.WithLocale(locale),
		engine.WithLogger(cfg.NewLogger(cmd.ErrOrStderr())),
	}
	if cfg.Seed != 0 {
		svcOpts = append(svcOpts, engine.WithSeed(cfg.Seed))
	}
	svc := engine.NewService(gw, cfg.Owner, svcOpts...)

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := svc.Load(loadCtx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	return svc, cleanup, nil
}
