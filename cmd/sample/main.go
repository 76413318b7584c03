// Command sample demonstrates the reqparse module with a small user API.
//
// Run:
//
//	go run ./cmd/sample
//
// Print the contract document:
//
//	go run ./cmd/sample -contracts
//
// Then explore:
//
//	GET  http://localhost:8080/contracts.json        — contract document (JSON)
//	GET  http://localhost:8080/contracts.yaml        — contract document (YAML)
//	GET  http://localhost:8080/health                — carrier-only handler
//	GET  http://localhost:8080/greet?name=Alice      — query bindings with a default
//	POST http://localhost:8080/users                 — body + query bindings
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"reqparse"
)

// User is the request body for user creation.
type User struct {
	Name  string `json:"name" required:"true" minLength:"1"`
	Age   int    `json:"age" required:"true" minimum:"0"`
	Email string `json:"email" pattern:"^[^@]+@[^@]+$"`
}

// GreetParams declares the greet handler's query bindings.
type GreetParams struct {
	Name string `query:"name"`
	Age  int    `query:"age" default:"18"`
}

// CreateUserParams mixes a body binding with an optional query binding.
type CreateUserParams struct {
	User   User
	Format string `query:"format" default:"json"`
}

func main() {
	contractsFlag := flag.Bool("contracts", false, "Print the contract document to stdout and exit")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	app := reqparse.New(
		reqparse.WithTitle("Sample API"),
		reqparse.WithVersion("1.0.0"),
	)
	app.Use(
		reqparse.Recovery(),
		reqparse.RequestID(),
		reqparse.Logger(logger),
		reqparse.RateLimit(reqparse.RateLimitConfig{Rate: 50, Burst: 100}),
	)

	reqparse.Handle(app, "GET /health", func(_ context.Context, _ *reqparse.Request, _ *reqparse.Void) (any, error) {
		return nil, nil
	})

	reqparse.Handle(app, "GET /greet", func(_ context.Context, _ *reqparse.Request, p *GreetParams) (any, error) {
		return map[string]any{"name": p.Name, "age": p.Age}, nil
	})

	reqparse.Handle(app, "POST /users", func(_ context.Context, _ *reqparse.Request, p *CreateUserParams) (any, error) {
		if p.Format == "text" {
			return fmt.Sprintf("%s (%d)", p.User.Name, p.User.Age), nil
		}
		return p.User, nil
	})

	app.ServeContracts("/contracts.json")
	app.ServeContractsYAML("/contracts.yaml")

	if *contractsFlag {
		if err := app.WriteContracts(os.Stdout); err != nil {
			slog.Error("write contracts", "err", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("listening", "addr", ":8080")
	if err := app.ListenAndServe(ctx, ":8080"); err != nil && err != http.ErrServerClosed {
		slog.Error("server", "err", err)
		os.Exit(1)
	}
}
