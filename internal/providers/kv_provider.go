package providers

import (
	"context"
	"fmt"
	"time"
	"ytwatch/internal/store"
	"ytwatch/internal/structures"
)

// NewKVProvider opens the configured store driver. The returned cleanup
// closes it.
func NewKVProvider(conf *structures.Config, logger Logger) (store.KV, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		kv  store.KV
		err error
	)
	switch conf.Store.Driver {
	case "memory", "":
		kv = store.NewMemory()
	case "redis":
		kv, err = store.NewRedis(ctx, conf.Store.DSN)
	case "sqlite":
		kv, err = store.NewSQLite(ctx, conf.Store.DSN)
	case "postgres":
		kv, err = store.NewPostgres(ctx, conf.Store.DSN)
	default:
		err = fmt.Errorf("unknown store driver %q", conf.Store.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	logger.Infof(TypeApp, "Store initialized: driver=%s", conf.Store.Driver)
	cleanup := func() {
		if err := kv.Close(); err != nil {
			logger.Errorf(TypeApp, "Store close error: %s", err)
		}
	}
	return kv, cleanup, nil
}
