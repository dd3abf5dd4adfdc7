package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"reviewhub/internal/client"
	"reviewhub/internal/feed"
	"reviewhub/internal/grpcserver"
	"reviewhub/internal/reviews"
	"reviewhub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

func main() {
	global := pflag.NewFlagSet("reviewctl", pflag.ExitOnError)
	global.SetInterspersed(false)
	baseURL := global.String("api", envOr("REVIEWHUB_API", defaultBaseURL), "API base URL")
	grpcAddr := global.String("grpc", "", "gRPC address; when set, submit and list go over gRPC")
	timeout := global.Duration("timeout", 15*time.Second, "request timeout")
	global.Usage = printUsage
	_ = global.Parse(os.Args[1:])

	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch args[0] {
	case "submit":
		err = withStore(*baseURL, *grpcAddr, *timeout, func(store reviews.Store) error {
			return handleSubmit(ctx, store, os.Stdout, args[1:])
		})
	case "list":
		err = withStore(*baseURL, *grpcAddr, *timeout, func(store reviews.Store) error {
			return handleList(ctx, store, os.Stdout)
		})
	case "watch":
		err = handleWatch(ctx, *baseURL, os.Stdout)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", args[0], err)
	}
}

func withStore(baseURL, grpcAddr string, timeout time.Duration, fn func(reviews.Store) error) error {
	if grpcAddr == "" {
		return fn(client.New(baseURL, timeout))
	}
	cc, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial grpc %s: %w", grpcAddr, err)
	}
	defer cc.Close()
	return fn(grpcserver.NewClient(cc))
}

func handleSubmit(ctx context.Context, store reviews.Store, out io.Writer, args []string) error {
	fs := pflag.NewFlagSet("submit", pflag.ContinueOnError)
	email := fs.String("email", "", "reviewer email")
	rating := fs.Int("rating", 1, "rating from 1 to 5")
	text := fs.String("text", "", "review text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("--email is required")
	}

	review, err := store.Create(ctx, models.NewReview{Email: *email, Rating: *rating, Text: *text})
	if err != nil {
		return err
	}
	return printJSON(out, review)
}

func handleList(ctx context.Context, store reviews.Store, out io.Writer) error {
	items, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No reviews yet.")
		return nil
	}
	for _, r := range items {
		printReview(out, r)
	}
	return nil
}

func printReview(out io.Writer, r models.Review) {
	fmt.Fprintf(out, "#%d %s %s  %s\n", r.ID, r.Stars(), r.Email, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	if r.Text != "" {
		fmt.Fprintf(out, "    %s\n", r.Text)
	}
}

func handleWatch(ctx context.Context, baseURL string, out io.Writer) error {
	endpoint, err := websocketURL(baseURL, "/ws")
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[watch] connected to %s", endpoint)

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		printEvent(out, msg)
	}
}

func printEvent(out io.Writer, msg []byte) {
	var ev feed.Event
	if err := json.Unmarshal(msg, &ev); err != nil || ev.Type != feed.ReviewCreated {
		fmt.Fprintln(out, string(msg))
		return
	}
	printReview(out, ev.Review)
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base url %q", baseURL)
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Println("reviewctl [--api URL] [--grpc ADDR] <command> [flags]")
	fmt.Println("commands:")
	fmt.Println("  submit --email E --rating N --text T")
	fmt.Println("  list")
	fmt.Println("  watch")
}
