package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/store-locator/internal/config"
	"github.com/pkordes/store-locator/internal/repo"
	"github.com/pkordes/store-locator/internal/repo/memory"
	mongorepo "github.com/pkordes/store-locator/internal/repo/mongo"
	"github.com/pkordes/store-locator/migrations"
)

// backend holds the repositories of the selected storage engine.
type backend struct {
	stores  repo.StoreRepo
	tags    repo.TagRepo
	reviews repo.ReviewRepo
	geo     repo.GeoRepo
	hearts  repo.HeartRepo

	// close releases connections. It is never nil.
	close func()
}

// openBackend connects to the storage engine named by cfg.Backend.
func openBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (backend, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return openPostgres(ctx, cfg, log)
	case config.BackendMongo:
		return openMongo(ctx, cfg, log)
	case config.BackendMemory:
		log.Warn("using in-memory backend, data is lost on restart")
		s := memory.New()
		return backend{stores: s, tags: s, reviews: s, geo: s, hearts: s, close: func() {}}, nil
	default:
		return backend{}, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func openPostgres(ctx context.Context, cfg config.Config, log *slog.Logger) (backend, error) {
	// pgxpool.New does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return backend{}, fmt.Errorf("create database pool: %w", err)
	}

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return backend{}, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("database connection established", "backend", cfg.Backend)

	if cfg.MigrateOnStart {
		db := stdlib.OpenDBFromPool(pool)
		n, err := migrations.Up(ctx, db)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return backend{}, err
		}
		log.Info("migrations applied", "count", n)
	}

	return backend{
		stores:  repo.NewStoreRepo(pool),
		tags:    repo.NewTagRepo(pool),
		reviews: repo.NewReviewRepo(pool),
		geo:     repo.NewGeoRepo(pool),
		hearts:  repo.NewHeartRepo(pool),
		close:   pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg config.Config, log *slog.Logger) (backend, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return backend{}, fmt.Errorf("connect to mongo: %w", err)
	}
	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		disconnect()
		return backend{}, fmt.Errorf("ping mongo: %w", err)
	}
	log.Info("database connection established", "backend", cfg.Backend, "database", cfg.MongoDatabase)

	db := client.Database(cfg.MongoDatabase)
	c := mongorepo.DefaultCollections()

	// Slug uniqueness and the geo and text queries depend on these indexes,
	// so they are ensured on every start. EnsureIndexes is idempotent.
	if err := mongorepo.EnsureIndexes(ctx, db, c); err != nil {
		disconnect()
		return backend{}, err
	}
	log.Info("indexes ensured")

	return backend{
		stores:  mongorepo.NewStoreRepository(db, c),
		tags:    mongorepo.NewTagRepository(db, c),
		reviews: mongorepo.NewReviewRepository(db, c),
		geo:     mongorepo.NewGeoRepository(db, c),
		hearts:  mongorepo.NewHeartRepository(db, c),
		close:   disconnect,
	}, nil
}
