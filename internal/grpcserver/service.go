package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"reviewhub/pkg/models"
)

const ServiceName = "reviewhub.ReviewService"

const (
	createReviewMethod = "/" + ServiceName + "/CreateReview"
	listReviewsMethod  = "/" + ServiceName + "/ListReviews"
)

type CreateReviewRequest struct {
	Email  string `json:"email"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

type CreateReviewResponse struct {
	Review models.Review `json:"review"`
}

type ListReviewsRequest struct{}

type ListReviewsResponse struct {
	Reviews []models.Review `json:"reviews"`
}

type ReviewServiceServer interface {
	CreateReview(context.Context, *CreateReviewRequest) (*CreateReviewResponse, error)
	ListReviews(context.Context, *ListReviewsRequest) (*ListReviewsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReviewServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateReview", Handler: createReviewHandler},
		{MethodName: "ListReviews", Handler: listReviewsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "reviewhub/review.json",
}

func Register(s grpc.ServiceRegistrar, srv ReviewServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func createReviewHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateReviewRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReviewServiceServer).CreateReview(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: createReviewMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReviewServiceServer).CreateReview(ctx, req.(*CreateReviewRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listReviewsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListReviewsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReviewServiceServer).ListReviews(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listReviewsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReviewServiceServer).ListReviews(ctx, req.(*ListReviewsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls ReviewService over an existing connection. It satisfies
// reviews.Store, so callers can swap it for any other backend.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Create(ctx context.Context, in models.NewReview) (*models.Review, error) {
	out := new(CreateReviewResponse)
	req := &CreateReviewRequest{Email: in.Email, Rating: in.Rating, Text: in.Text}
	if err := c.cc.Invoke(ctx, createReviewMethod, req, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return &out.Review, nil
}

func (c *Client) List(ctx context.Context) ([]models.Review, error) {
	out := new(ListReviewsResponse)
	if err := c.cc.Invoke(ctx, listReviewsMethod, &ListReviewsRequest{}, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	if out.Reviews == nil {
		out.Reviews = []models.Review{}
	}
	return out.Reviews, nil
}
