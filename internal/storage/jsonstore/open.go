package jsonstore

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	DriverFile     = "file"
	DriverPebble   = "pebble"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type OpenArgs struct {
	Driver        string
	DataDir       string
	DatabaseDSN   string
	MigrationsDir string
	RedisAddr     string
}

// Open создает Store поверх бэкенда, выбранного по args.Driver.
func Open(ctx context.Context, args OpenArgs, l *logrus.Logger) (*Store, error) {
	var backend Backend

	switch args.Driver {
	case DriverFile, "":
		fb, err := NewFileBackend(args.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		backend = fb
	case DriverPebble:
		pb, err := NewPebbleBackend(args.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open pebble storage: %w", err)
		}
		backend = pb
	case DriverPostgres:
		pool, err := ConnectPostgres(ctx, args.MigrationsDir, args.DatabaseDSN, l)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		backend = NewPostgresBackend(pool)
	case DriverRedis:
		rb, err := NewRedisBackend(ctx, args.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		backend = rb
	case DriverMemory:
		backend = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown storage driver `%s`", args.Driver)
	}

	l.WithField("driver", args.Driver).Info("storage opened")
	return New(backend, l), nil
}
