package reqparse

import (
	"encoding/json"
	"net/http"
)

// successBody is the response body for handlers that return no result.
const successBody = "Operation successful"

// Response is the outbound response carrier. The core only constructs
// responses, it never reads one back.
type Response struct {
	Body       []byte
	StatusCode int

	// MimeType is the response content type. Empty means plain text; the
	// net/http adapter fills in "text/plain; charset=utf-8".
	MimeType string
}

// NewResponse builds a response from its parts.
func NewResponse(status int, body []byte, mimetype string) *Response {
	return &Response{Body: body, StatusCode: status, MimeType: mimetype}
}

// TextResponse builds a plain-text response.
func TextResponse(status int, text string) *Response {
	return &Response{Body: []byte(text), StatusCode: status}
}

// JSONResponse builds an application/json response from any serializable
// value.
func JSONResponse(status int, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Response{Body: body, StatusCode: status, MimeType: "application/json"}, nil
}

// normalizeResult maps a handler result to a response, one rule per variant
// of the result union:
//
//   - *Response — passed through unchanged
//   - map[string]any — serialized to JSON, status 200
//   - string, []byte — the body verbatim, status 200
//   - nil — the literal success body, status 200
//   - anything else — treated as a schema-typed value and serialized to
//     JSON, status 200
func normalizeResult(result any) (*Response, error) {
	switch v := result.(type) {
	case *Response:
		return v, nil
	case map[string]any:
		return JSONResponse(http.StatusOK, v)
	case string:
		return TextResponse(http.StatusOK, v), nil
	case []byte:
		return &Response{Body: v, StatusCode: http.StatusOK}, nil
	case nil:
		return TextResponse(http.StatusOK, successBody), nil
	default:
		return JSONResponse(http.StatusOK, v)
	}
}
