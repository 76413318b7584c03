package reqparse

import (
	"io"
	"net/http"
	"net/url"
)

// Request is the inbound request carrier: everything a contract needs to
// extract and validate inputs, decoupled from any particular transport.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header

	// Query holds the request's query values, one value per key.
	Query map[string]string

	// Body is the raw request payload. Empty is valid — a body contract
	// treats it as an empty JSON object.
	Body []byte
}

// NewRequest builds a Request from its parts. Any of header, query, and body
// may be nil.
func NewRequest(method, rawURL string, header http.Header, query map[string]string, body []byte) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if query == nil {
		query = make(map[string]string)
	}
	return &Request{
		Method: method,
		URL:    u,
		Header: header,
		Query:  query,
		Body:   body,
	}, nil
}

// FromHTTP adapts an *http.Request into a Request carrier. The body is read
// in full; multi-valued query keys keep their first value.
func FromHTTP(r *http.Request) (*Request, error) {
	query := make(map[string]string)
	for key, vals := range r.URL.Query() {
		if len(vals) > 0 {
			query[key] = vals[0]
		}
	}

	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}

	return &Request{
		Method: r.Method,
		URL:    r.URL,
		Header: r.Header,
		Query:  query,
		Body:   body,
	}, nil
}
