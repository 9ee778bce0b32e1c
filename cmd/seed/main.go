// Команда seed заполняет хранилище демонстрационным каталогом ресторанов.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-eats/internal/logger"
	"github.com/fsdevblog/groph-eats/internal/repository/docrepo"
	"github.com/fsdevblog/groph-eats/internal/seed"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
)

type seedConfig struct {
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"file"`
	DataDir       string `env:"DATA_DIR" envDefault:"data"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	RedisAddr     string `env:"REDIS_ADDR"`
}

func main() {
	l := logger.New(os.Stdout)
	if err := run(l); err != nil {
		l.WithError(err).Error("seed failed")
		os.Exit(1)
	}
}

func run(l *logrus.Logger) error {
	_ = godotenv.Load()

	var conf seedConfig
	if err := env.Parse(&conf); err != nil {
		return fmt.Errorf("parse env: %s", err.Error())
	}

	var args seed.Args
	flag.StringVar(&conf.StorageDriver, "s", conf.StorageDriver, "storage driver")
	flag.StringVar(&conf.DataDir, "d", conf.DataDir, "data directory")
	flag.StringVar(&conf.DatabaseDSN, "p", conf.DatabaseDSN, "postgres DSN")
	flag.StringVar(&conf.RedisAddr, "r", conf.RedisAddr, "redis address")
	flag.IntVar(&args.Restaurants, "n", seed.DefaultRestaurants, "restaurants count")
	flag.Uint64Var(&args.Seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Float64Var(&args.Latitude, "lat", seed.DefaultLatitude, "center latitude")
	flag.Float64Var(&args.Longitude, "lng", seed.DefaultLongitude, "center longitude")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, openErr := jsonstore.Open(ctx, jsonstore.OpenArgs{
		Driver:        conf.StorageDriver,
		DataDir:       conf.DataDir,
		DatabaseDSN:   conf.DatabaseDSN,
		MigrationsDir: conf.MigrationsDir,
		RedisAddr:     conf.RedisAddr,
	}, l)
	if openErr != nil {
		return openErr
	}
	defer func() {
		if err := store.Close(); err != nil {
			l.WithError(err).Error("close storage")
		}
	}()

	restaurants, menus := seed.Generate(args)

	if err := docrepo.NewRestaurantRepository(ctx, store).ReplaceAll(ctx, restaurants); err != nil {
		return fmt.Errorf("save restaurants: %s", err.Error())
	}
	if err := docrepo.NewMenuRepository(ctx, store).ReplaceAll(ctx, menus); err != nil {
		return fmt.Errorf("save menus: %s", err.Error())
	}

	l.WithFields(logrus.Fields{
		"restaurants": len(restaurants),
		"driver":      conf.StorageDriver,
		"seed":        args.Seed,
	}).Info("catalog seeded")
	return nil
}
