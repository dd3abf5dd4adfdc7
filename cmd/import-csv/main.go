package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"reviewhub/internal/bootstrap"
	"reviewhub/internal/reviews"
	"reviewhub/pkg/models"
	"reviewhub/pkg/utils"
)

func main() {
	in := flag.String("in", "data/reviews.csv", "input CSV path for reviews")
	flag.Parse()

	cfg, err := utils.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := utils.NewLogger(os.Stderr, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	backend, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open review store: %v", err)
	}
	defer backend.Close()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("open %s: %v", *in, err)
	}
	defer f.Close()

	n, err := importReviews(ctx, backend.Store, f)
	if err != nil {
		log.Fatalf("import reviews failed after %d rows: %v", n, err)
	}
	log.Printf("✅ imported %d reviews from %s", n, *in)
}

// importReviews creates one review per row. ids and timestamps in the
// file are ignored; the store assigns new ones.
func importReviews(ctx context.Context, store reviews.Store, src io.Reader) (int, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, err
	}
	if _, ok := header["email"]; !ok {
		return 0, errors.New("missing email column")
	}

	imported := 0
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, err
		}
		line++
		if len(row) == 0 {
			continue
		}

		in, err := parseRow(header, row)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if in.Email == "" {
			continue
		}
		if _, err := store.Create(ctx, in); err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		imported++
	}

	return imported, nil
}

func parseRow(header map[string]int, row []string) (models.NewReview, error) {
	rating := 0
	if raw := valueAt(header, row, "rating"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return models.NewReview{}, fmt.Errorf("parse rating %q: %w", raw, err)
		}
		rating = n
	}
	return models.NewReview{
		Email:  valueAt(header, row, "email"),
		Rating: rating,
		Text:   rawValueAt(header, row, "text"),
	}, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	return strings.TrimSpace(rawValueAt(header, row, key))
}

// rawValueAt keeps the cell as written; review bodies round-trip exactly.
func rawValueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
