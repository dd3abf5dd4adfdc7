package grpcserver

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"reviewhub/internal/reviews"
	"reviewhub/pkg/models"
)

type Server struct {
	Store  reviews.Store
	Events reviews.Publisher
	Logger *slog.Logger
}

func NewServer(store reviews.Store, events reviews.Publisher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Store: store, Events: events, Logger: logger}
}

func (s *Server) CreateReview(ctx context.Context, req *CreateReviewRequest) (*CreateReviewResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}

	review, err := s.Store.Create(ctx, models.NewReview{
		Email:  req.Email,
		Rating: req.Rating,
		Text:   req.Text,
	})
	if err != nil {
		s.Logger.Error("grpc: submit review failed", "err", err)
		return nil, status.Error(codes.Internal, "Failed to submit review")
	}

	if s.Events != nil {
		s.Events.PublishCreated(*review)
	}
	return &CreateReviewResponse{Review: *review}, nil
}

func (s *Server) ListReviews(ctx context.Context, _ *ListReviewsRequest) (*ListReviewsResponse, error) {
	items, err := s.Store.List(ctx)
	if err != nil {
		s.Logger.Error("grpc: fetch reviews failed", "err", err)
		return nil, status.Error(codes.Internal, "Failed to fetch reviews")
	}
	return &ListReviewsResponse{Reviews: items}, nil
}
