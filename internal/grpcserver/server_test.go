package grpcserver

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"reviewhub/internal/reviews"
	"reviewhub/pkg/database"
	"reviewhub/pkg/models"
)

func newTestClient(t *testing.T) (*Client, *reviews.Repo) {
	t.Helper()

	db, err := database.Open(database.Config{
		Driver: database.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "reviews.db"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	repo := reviews.NewRepo(db)

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	Register(s, NewServer(repo, nil, slog.New(slog.NewTextHandler(io.Discard, nil))))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn), repo
}

func TestCreateAndListOverGRPC(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	if _, err := client.Create(ctx, models.NewReview{Email: "old@b.com", Rating: 2, Text: "fine"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	created, err := client.Create(ctx, models.NewReview{Email: "a@b.com", Rating: 3, Text: "ok"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.CreatedAt.IsZero() || created.Email != "a@b.com" {
		t.Fatalf("unexpected review: %+v", created)
	}

	items, err := client.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != created.ID {
		t.Fatalf("expected newest first, got %+v", items)
	}
}

func TestListEmptyOverGRPC(t *testing.T) {
	client, _ := newTestClient(t)

	items, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestStoreFailureIsInternal(t *testing.T) {
	client, repo := newTestClient(t)
	_ = repo.DB.Close()

	_, err := client.Create(context.Background(), models.NewReview{Email: "a@b.com", Rating: 1})
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
	if st, _ := status.FromError(err); st.Message() != "Failed to submit review" {
		t.Fatalf("expected generic message, got %q", st.Message())
	}

	_, err = client.List(context.Background())
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}
