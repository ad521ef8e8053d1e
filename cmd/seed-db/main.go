// Command seed-db applies the schema and loads the product seed file.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/vzdolci/catalog/internal/storage/postgres"
)

func main() {
	var (
		databaseURL  string
		productsFile string
		concurrency  int
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.IntVar(&concurrency, "concurrency", 4, "number of products upserted in parallel")
	flag.Parse()

	lg, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		lg.Fatal("Database URL is required: set --database-url or DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, databaseURL, productsFile, concurrency); err != nil {
		lg.Error("Seed failed", zap.Error(err))
		cancel()
		os.Exit(1)
	}
	lg.Info("Seed completed")
}

func run(ctx context.Context, lg *zap.Logger, databaseURL, productsFile string, concurrency int) error {
	lg.Info("Connecting to database")
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	f, err := os.Open(productsFile)
	if err != nil {
		return errors.Wrap(err, "open products file")
	}
	defer func() { _ = f.Close() }()

	items, err := readSeed(f)
	if err != nil {
		return err
	}
	lg.Info("Upserting products", zap.String("path", productsFile), zap.Int("count", len(items)))

	s := &seeder{
		products:    postgres.NewProductRepository(pool),
		lg:          lg,
		concurrency: concurrency,
	}
	res, err := s.seed(ctx, items)
	if err != nil {
		return errors.Wrap(err, "seed products")
	}
	lg.Info("Products seeded", zap.Int("inserted", res.inserted), zap.Int("updated", res.updated))
	return nil
}
