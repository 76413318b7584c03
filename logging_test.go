package reqparse_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"reqparse"
	"reqparse/reqtest"
)

func TestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	app := reqparse.New()
	app.Use(reqparse.RequestID(), reqparse.Logger(logger))
	reqparse.Handle(app, "GET /greet", func(_ context.Context, _ *reqparse.Request, p *greetParams) (any, error) {
		return map[string]any{"name": p.Name}, nil
	})

	c := reqtest.NewClient(t, app)

	reqtest.Get[map[string]any](t, c, "/greet", map[string]string{"name": "Alice"})
	out := buf.String()
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/greet")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "request_id=")

	buf.Reset()
	reqtest.Get[map[string]any](t, c, "/greet", nil)
	assert.Contains(t, buf.String(), "status=400")
}
