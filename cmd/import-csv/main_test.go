package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reviewhub/pkg/models"
)

type recordingStore struct {
	created []models.NewReview
	failAt  int
}

func (s *recordingStore) Create(_ context.Context, in models.NewReview) (*models.Review, error) {
	if s.failAt > 0 && len(s.created)+1 == s.failAt {
		return nil, errors.New("insert failed")
	}
	s.created = append(s.created, in)
	return &models.Review{ID: int64(len(s.created)), Email: in.Email, Rating: in.Rating, Text: in.Text, CreatedAt: time.Now()}, nil
}

func (s *recordingStore) List(context.Context) ([]models.Review, error) {
	return nil, nil
}

func TestImportReviews(t *testing.T) {
	src := strings.NewReader("ID,Email,Rating,Text,Created_At\n" +
		"9,a@b.com,3,ok,2026-01-02T03:04:05Z\n" +
		"8,,5,no email,\n" +
		"7, c@d.com ,5,\"great, truly\",\n")

	store := &recordingStore{}
	n, err := importReviews(context.Background(), store, src)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported, got %d", n)
	}
	want := []models.NewReview{
		{Email: "a@b.com", Rating: 3, Text: "ok"},
		{Email: "c@d.com", Rating: 5, Text: "great, truly"},
	}
	for i, w := range want {
		if store.created[i] != w {
			t.Fatalf("row %d: got %+v want %+v", i, store.created[i], w)
		}
	}
}

func TestImportReviewsBadRating(t *testing.T) {
	src := strings.NewReader("email,rating,text\na@b.com,five,ok\n")
	_, err := importReviews(context.Background(), &recordingStore{}, src)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line-numbered parse error, got %v", err)
	}
}

func TestImportReviewsStopsOnStoreError(t *testing.T) {
	src := strings.NewReader("email,rating,text\na@b.com,1,x\nb@c.com,2,y\nc@d.com,3,z\n")
	store := &recordingStore{failAt: 2}
	n, err := importReviews(context.Background(), store, src)
	if err == nil {
		t.Fatal("expected store error")
	}
	if n != 1 {
		t.Fatalf("expected 1 row imported before failure, got %d", n)
	}
}

func TestImportReviewsMissingEmailColumn(t *testing.T) {
	if _, err := importReviews(context.Background(), &recordingStore{}, strings.NewReader("rating,text\n1,x\n")); err == nil {
		t.Fatal("expected error for missing email column")
	}
}

func TestImportReviewsEmptyFile(t *testing.T) {
	n, err := importReviews(context.Background(), &recordingStore{}, strings.NewReader(""))
	if err != nil || n != 0 {
		t.Fatalf("expected empty import, got %d %v", n, err)
	}
}

func TestImportReviewsKeepsTextVerbatim(t *testing.T) {
	src := strings.NewReader("email,rating,text\na@b.com,4,\"  padded body\n second line  \"\n")
	store := &recordingStore{}
	if _, err := importReviews(context.Background(), store, src); err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 row, got %d", len(store.created))
	}
	if got := store.created[0].Text; got != "  padded body\n second line  " {
		t.Fatalf("text changed on import: %q", got)
	}
}
