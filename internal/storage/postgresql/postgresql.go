package postgresql

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v4/pgxpool"

	"peel_storage/internal/storage"
)

// Handle lazily opens one store's persistent namespace: a pgx pool plus the
// store's DDL (tables and secondary indexes), applied on first use.
//
// Ensure is safe for concurrent first callers: N concurrent calls trigger
// exactly one open. The result, success or failure, is memoized for the
// process lifetime; there is no fallback and no reopen.
type Handle struct {
	dsn    string
	schema string

	once sync.Once
	pool *pgxpool.Pool
	err  error
}

func NewHandle(dsn, schema string) *Handle {
	return &Handle{dsn: dsn, schema: schema}
}

// Ensure returns the live pool, connecting and bootstrapping the schema on
// the first call. Every call after a failed open returns the same
// storage.ErrUnavailable.
func (h *Handle) Ensure(ctx context.Context) (*pgxpool.Pool, error) {
	h.once.Do(func() {
		const op = "storage.postgresql.Handle.Ensure"

		pool, err := pgxpool.Connect(ctx, h.dsn)
		if err != nil {
			h.err = fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
			return
		}

		if h.schema != "" {
			if _, err := pool.Exec(ctx, h.schema); err != nil {
				pool.Close()
				h.err = fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
				return
			}
		}

		h.pool = pool
	})

	return h.pool, h.err
}

func (h *Handle) Close() {
	if h.pool != nil {
		h.pool.Close()
	}
}
