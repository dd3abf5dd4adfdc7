package reviews

import (
	"context"

	"reviewhub/pkg/models"
)

// Store is the review table: insert-and-return plus a newest-first listing.
type Store interface {
	Create(ctx context.Context, in models.NewReview) (*models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
}

// Publishing wraps a Store so every successful Create is also handed to
// events. List passes through.
func Publishing(store Store, events Publisher) Store {
	if events == nil {
		return store
	}
	return &publishingStore{Store: store, events: events}
}

type publishingStore struct {
	Store
	events Publisher
}

func (s *publishingStore) Create(ctx context.Context, in models.NewReview) (*models.Review, error) {
	review, err := s.Store.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.events.PublishCreated(*review)
	return review, nil
}
