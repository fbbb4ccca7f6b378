package cli

import (
	"context"
	"fmt"
	"time"

	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/store"
	"barbersbuddies/seeder/internal/app/seeder/config"
	"barbersbuddies/seeder/internal/app/seeder/generator"
	"barbersbuddies/seeder/internal/app/seeder/repository"
	"barbersbuddies/seeder/internal/app/seeder/util"
)

// StoreRunner connects to the real databases on each command.
type StoreRunner struct {
	cfg *config.Config
}

func NewStoreRunner(cfg *config.Config) *StoreRunner {
	return &StoreRunner{cfg: cfg}
}

func (r *StoreRunner) seedRepository(ctx context.Context) (*repository.SeedRepository, func(), error) {
	client, err := store.Connect(ctx, r.cfg.MongoDB.URI, 3)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client.Disconnect(disconnectCtx)
	}
	return repository.NewSeedRepository(client.Database(r.cfg.MongoDB.Database)), closeFn, nil
}

func (r *StoreRunner) Seed(ctx context.Context, opts SeedOptions) error {
	hash, err := util.DemoPasswordHash(r.cfg.Password)
	if err != nil {
		return err
	}

	data := generator.Generate(generator.Options{
		Users:        opts.Users,
		Shops:        opts.Shops,
		Bookings:     opts.Bookings,
		PasswordHash: hash,
		Seed:         opts.Seed,
	})

	repo, closeFn, err := r.seedRepository(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	counts, err := repo.Insert(ctx, data)
	if err != nil {
		return err
	}

	event := logger.Info().Str("database", r.cfg.MongoDB.Database).Int64("seed", opts.Seed)
	for name, n := range counts {
		event = event.Int(name, n)
	}
	event.Msg("Demo data seeded")
	return nil
}

func (r *StoreRunner) Clean(ctx context.Context, audit bool) error {
	repo, closeFn, err := r.seedRepository(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	dropped, err := repo.Clean(ctx)
	if err != nil {
		return err
	}
	logger.Info().Strs("collections", dropped).Msg("Seeded collections dropped")

	if !audit {
		return nil
	}

	pool, err := repository.ConnectAudit(ctx, r.cfg.Database.ConnString())
	if err != nil {
		return fmt.Errorf("failed to connect to audit database: %w", err)
	}
	defer pool.Close()

	truncated, err := repository.NewAuditCleaner(pool).Truncate(ctx)
	if err != nil {
		return err
	}
	if truncated {
		logger.Info().Msg("Reminder audits truncated")
	} else {
		logger.Info().Msg("No reminder audit table found")
	}
	return nil
}
