// Command seed fills a development bookstore API with sample data through
// its public endpoints.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"

	"bookadmin/internal/config"
	"bookadmin/internal/entity"
	"bookadmin/internal/platform/bookstore"

	"go.uber.org/zap"
)

func main() {
	count := flag.Int("n", 20, "number of books to create")
	username := flag.String("user", os.Getenv("SEED_USER"), "API username")
	password := flag.String("password", os.Getenv("SEED_PASSWORD"), "API password")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := bookstore.NewClient(bookstore.Config{
		BaseURL:    cfg.APIURL,
		AuthHeader: cfg.AuthHeader,
		Timeout:    cfg.APITimeout,
		RPS:        cfg.APIRPS,
		MaxRetries: cfg.APIMaxRetries,
	})

	token, err := client.Login(ctx, entity.Credentials{Username: *username, Password: *password})
	if err != nil {
		logger.Fatal("login failed", zap.String("api", client.BaseURL()), zap.Error(err))
	}

	s := &seeder{api: client, token: token, log: logger, rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	stats, err := s.run(ctx, *count)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seeding complete",
		zap.Int("authors", stats.authors),
		zap.Int("publishers", stats.publishers),
		zap.Int("books", stats.books),
		zap.Int("sales", stats.sales))
}
