package reqparse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sync"
	"time"
)

// App hosts wrapped handlers over net/http. It holds the mux, middleware,
// and the contract documents of every registered handler, and implements
// http.Handler.
type App struct {
	mux        *http.ServeMux
	middleware []Middleware
	contracts  []ContractDoc

	title   string
	version string

	errorHandler ErrorHandler

	mu sync.Mutex
}

// Option configures an App.
type Option func(*App)

// WithTitle sets the API title, reported in the contract document.
func WithTitle(title string) Option {
	return func(a *App) { a.title = title }
}

// WithVersion sets the API version, reported in the contract document.
func WithVersion(version string) Option {
	return func(a *App) { a.version = version }
}

// ErrorHandler writes handler errors — the ones the dispatcher does not
// catch — to the client.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// WithErrorHandler sets a custom error handler for the app.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) { a.errorHandler = h }
}

// New creates an App with the given options.
func New(opts ...Option) *App {
	a := &App{mux: http.NewServeMux()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Use adds middleware to the app. Middleware is applied in the order added.
func (a *App) Use(mw ...Middleware) {
	a.middleware = append(a.middleware, mw...)
}

// Handle registers a typed handler at a "METHOD /pattern" route. The params
// declaration is analyzed once, here; an invalid declaration is a
// programming error and panics, so registration fails loudly at startup
// rather than per request.
func Handle[P any](a *App, pattern string, h HandlerFunc[P]) {
	contract, err := Analyze(reflect.TypeFor[P]())
	if err != nil {
		panic(fmt.Sprintf("reqparse: %s: %v", pattern, err))
	}

	wrapped := dispatcher(contract, h)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.mux.Handle(pattern, a.httpHandler(wrapped))
	a.contracts = append(a.contracts, contractDoc(pattern, contract))
}

// httpHandler adapts a Wrapped dispatcher to net/http.
func (a *App) httpHandler(wrapped Wrapped) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := FromHTTP(r)
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		resp, err := wrapped(r.Context(), req)
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		writeResponse(w, resp)
	})
}

func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if a.errorHandler != nil {
		a.errorHandler(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// writeResponse writes a Response carrier to the wire. An empty mimetype
// falls back to plain text.
func writeResponse(w http.ResponseWriter, resp *Response) {
	mimetype := resp.MimeType
	if mimetype == "" {
		mimetype = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", mimetype)

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	w.Write(resp.Body)
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := http.Handler(a.mux)
	for i := len(a.middleware) - 1; i >= 0; i-- {
		handler = a.middleware[i](handler)
	}
	handler.ServeHTTP(w, r)
}

// ListenAndServe starts an HTTP server on the given address. It blocks
// until the context is cancelled, then shuts down gracefully.
func (a *App) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
