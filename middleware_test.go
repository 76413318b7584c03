package reqparse_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"reqparse"
	"reqparse/reqtest"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	app := reqparse.New()
	app.Use(reqparse.Recovery())
	reqparse.Handle(app, "GET /panic", func(_ context.Context, _ *reqparse.Request, _ *reqparse.Void) (any, error) {
		panic("kaboom")
	})

	c := reqtest.NewClient(t, app)
	resp := reqtest.Get[string](t, c, "/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, resp.Status)
}

func TestMiddleware_order(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) reqparse.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	app := reqparse.New()
	app.Use(tag("outer"), tag("inner"))
	reqparse.Handle(app, "GET /ok", func(_ context.Context, _ *reqparse.Request, _ *reqparse.Void) (any, error) {
		return "done", nil
	})

	c := reqtest.NewClient(t, app)
	resp := reqtest.Get[string](t, c, "/ok", nil)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []string{"outer", "inner"}, order)
}
