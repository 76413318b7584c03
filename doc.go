// Package reqparse is a request-validation adapter. A handler declares its
// expected inputs as a params struct — at most one structured body field and
// any number of scalar query fields — and the package derives a validation
// contract from that declaration once, at registration time. Per request it
// validates the query map and raw body bytes against the contract, turns
// failures into a structured 400 response, and otherwise invokes the handler
// with typed arguments and normalizes its result into a response.
//
// The core handler signature is transport-agnostic:
//
//	type HandlerFunc[P any] func(ctx context.Context, req *Request, params *P) (any, error)
//
// Params structs mix a body field (any struct type) with scalar query fields:
//
//	type SearchParams struct {
//	    Filter FilterBody          // request body, validated as JSON
//	    Name   string `query:"name"`             // required query value
//	    Limit  int    `query:"limit" default:"10"` // optional, coerced from "10"
//	}
//
// Wrap analyzes the declaration and returns a dispatcher:
//
//	h, err := reqparse.Wrap(func(ctx context.Context, req *reqparse.Request, p *SearchParams) (any, error) {
//	    return map[string]any{"name": p.Name, "limit": p.Limit}, nil
//	})
//
// App hosts wrapped handlers over net/http with the usual middleware chain:
//
//	app := reqparse.New(reqparse.WithTitle("Search API"))
//	reqparse.Handle(app, "GET /search", search)
//	app.ServeContracts("/contracts.json")
package reqparse
