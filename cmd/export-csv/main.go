package main

import (
	"context"
	"encoding/csv"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"

	"reviewhub/internal/bootstrap"
	"reviewhub/internal/reviews"
	"reviewhub/pkg/utils"
)

var csvHeader = []string{"id", "email", "rating", "text", "created_at"}

func main() {
	out := flag.String("out", "data/reviews.csv", "output CSV path for reviews")
	flag.Parse()

	cfg, err := utils.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := utils.NewLogger(os.Stderr, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open review store: %v", err)
	}
	defer backend.Close()

	n, err := exportReviews(ctx, backend.Store, *out)
	if err != nil {
		log.Fatalf("export reviews failed: %v", err)
	}
	log.Printf("✅ exported %d reviews to %s", n, *out)
}

func exportReviews(ctx context.Context, store reviews.Store, outPath string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return writeReviews(ctx, store, f)
}

// writeReviews writes the store's list order, newest first.
func writeReviews(ctx context.Context, store reviews.Store, dst io.Writer) (int, error) {
	items, err := store.List(ctx)
	if err != nil {
		return 0, err
	}

	w := csv.NewWriter(dst)
	if err := w.Write(csvHeader); err != nil {
		return 0, err
	}
	for _, r := range items {
		if err := w.Write([]string{
			strconv.FormatInt(r.ID, 10),
			r.Email,
			strconv.Itoa(r.Rating),
			r.Text,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return 0, err
		}
	}

	w.Flush()
	return len(items), w.Error()
}
