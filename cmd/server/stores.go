package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fintrack/expense-api/internal/api/handler"
	"github.com/fintrack/expense-api/internal/core/ports"
	"github.com/fintrack/expense-api/internal/infrastructure/db/memory"
	mongostore "github.com/fintrack/expense-api/internal/infrastructure/db/mongo"
	redisstore "github.com/fintrack/expense-api/internal/infrastructure/db/redis"
	sqlitestore "github.com/fintrack/expense-api/internal/infrastructure/db/sqlite"
	"github.com/fintrack/expense-api/internal/pkg/config"
)

// In-process idempotency keys live as long as the Redis ones.
const memoryIdempotencyTTL = 24 * time.Hour

// stores bundles the selected Record Store backend, the idempotency store
// and the readiness checks that go with them.
type stores struct {
	users        ports.UserRepository
	transactions ports.TransactionRepository
	idempotency  ports.IdempotencyStore
	checks       map[string]handler.HealthCheck
	closers      []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{checks: map[string]handler.HealthCheck{}}

	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = client.Disconnect(context.Background()) })

		users := mongostore.NewUserRepository(db)
		txs := mongostore.NewTransactionRepository(db)
		if err := mongostore.EnsureIndexes(ctx, users, txs); err != nil {
			st.close()
			return nil, err
		}
		st.users, st.transactions = users, txs
		st.checks["mongodb"] = func(ctx context.Context) error { return pingMongo(ctx, client) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo record store")

	case config.BackendSQLite:
		db, err := sqlitestore.Open(ctx, sqlitestore.Config{Path: cfg.SQLite.Path})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = db.Close() })
		st.users = sqlitestore.NewUserRepository(db)
		st.transactions = sqlitestore.NewTransactionRepository(db)
		st.checks["sqlite"] = func(ctx context.Context) error { return pingSQL(ctx, db) }
		log.Info().Str("path", cfg.SQLite.Path).Msg("using sqlite record store")

	case config.BackendMemory:
		st.users = memory.NewUserRepository()
		st.transactions = memory.NewTransactionRepository()
		log.Warn().Msg("using in-memory record store, data is lost on restart")

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.Redis.Addr == "" {
		st.idempotency = memory.NewIdempotencyStore(memoryIdempotencyTTL)
		return st, nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		st.close()
		return nil, err
	}
	st.closers = append(st.closers, func() { _ = rdb.Close() })
	idem := redisstore.NewIdempotencyStore(rdb)
	st.idempotency = idem
	st.checks["redis"] = idem.Ping
	log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis idempotency store")
	return st, nil
}

func pingMongo(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, nil)
}

func pingSQL(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}
