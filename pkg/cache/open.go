package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend   string
	Dir       string // file backend
	RedisAddr string // redis backend
}

// Open creates the configured backend, instrumented. An empty backend
// means none.
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case "", BackendNone:
		c = NewNullCache()
	case BackendFile:
		c, err = NewFileCache(opts.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want none, file or redis)", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(c), nil
}
