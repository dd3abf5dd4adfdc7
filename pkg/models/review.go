package models

import (
	"strings"
	"time"
)

const MaxRating = 5

type Review struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Rating    int       `json:"rating" db:"rating"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewReview is the client-supplied part of a review. id and created_at
// are assigned by the store.
type NewReview struct {
	Email  string `json:"email" db:"email"`
	Rating int    `json:"rating" db:"rating"`
	Text   string `json:"text" db:"text"`
}

// Stars renders a rating as a fixed five-glyph indicator, filled first.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > MaxRating {
		rating = MaxRating
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", MaxRating-rating)
}

func (r Review) Stars() string {
	return Stars(r.Rating)
}
