package reqparse_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqparse"
	"reqparse/reqtest"
)

func TestRequestID_generated(t *testing.T) {
	t.Parallel()

	app := reqparse.New()
	app.Use(reqparse.RequestID())
	reqparse.Handle(app, "GET /ok", func(_ context.Context, _ *reqparse.Request, _ *reqparse.Void) (any, error) {
		return "done", nil
	})

	c := reqtest.NewClient(t, app)
	resp := reqtest.Get[string](t, c, "/ok", nil)

	assert.Len(t, resp.Headers.Get("X-Request-ID"), 32)
}

func TestRequestID_propagated(t *testing.T) {
	t.Parallel()

	var seen string
	app := reqparse.New()
	app.Use(reqparse.RequestID())

	app.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = reqparse.GetRequestID(r)
			next.ServeHTTP(w, r)
		})
	})
	reqparse.Handle(app, "GET /ok", func(_ context.Context, _ *reqparse.Request, _ *reqparse.Void) (any, error) {
		return "done", nil
	})

	srv := reqtest.NewClient(t, app)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.Server.URL+"/ok", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, "abc123", resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "abc123", seen)
}
