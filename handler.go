package reqparse

import "context"

// Void is used as the params type when a handler takes nothing beyond the
// request carrier.
type Void struct{}

// HandlerFunc is the core typed handler signature. P declares the handler's
// expected inputs beyond the request itself; the package derives a parsing
// contract from it at wrap time. The result may be a *Response, a
// map[string]any, a string, a []byte, nil, or any JSON-serializable value —
// see Wrap for how each is normalized.
//
// A handler that suspends (awaits downstream work) simply blocks on ctx the
// way any Go call does; synchronous and suspending handlers share the same
// dispatch path.
type HandlerFunc[P any] func(ctx context.Context, req *Request, params *P) (any, error)

// Wrapped is a handler with parsing, validation, and result normalization
// baked in. Errors returned by the underlying handler pass through to the
// caller untouched.
type Wrapped func(ctx context.Context, req *Request) (*Response, error)
