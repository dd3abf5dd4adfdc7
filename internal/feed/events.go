package feed

import (
	"time"

	"reviewhub/pkg/models"
)

const ReviewCreated = "review.created"

type Event struct {
	Type   string        `json:"type"` // "review.created"
	Review models.Review `json:"review"`
	At     time.Time     `json:"at"`
}
