package reqparse

import (
	"context"
	"reflect"
)

// Wrap analyzes the handler's params declaration and returns a dispatcher
// that, per request, validates inputs against the derived contract,
// short-circuits validation failures into a 400 response without invoking
// the handler, and otherwise invokes the handler and normalizes its result.
//
// Analysis happens exactly once, at wrap time; an invalid declaration
// returns an error wrapping ErrInvalidHandler and the handler is never
// registered. Errors returned by the handler itself are not caught — they
// pass through to the hosting infrastructure.
func Wrap[P any](h HandlerFunc[P]) (Wrapped, error) {
	contract, err := Analyze(reflect.TypeFor[P]())
	if err != nil {
		return nil, err
	}
	return dispatcher(contract, h), nil
}

// MustWrap is Wrap for registration sites where an invalid declaration is a
// programming error; it panics instead of returning it.
func MustWrap[P any](h HandlerFunc[P]) Wrapped {
	w, err := Wrap(h)
	if err != nil {
		panic("reqparse: " + err.Error())
	}
	return w
}

// dispatcher builds the per-request closure over an analyzed contract.
func dispatcher[P any](contract *Contract, h HandlerFunc[P]) Wrapped {
	return func(ctx context.Context, req *Request) (*Response, error) {
		args, diag := contract.Parse(req)
		if diag != nil {
			return diag.Response(), nil
		}

		params := new(P)
		if err := contract.apply(args, params); err != nil {
			return nil, err
		}

		result, err := h(ctx, req, params)
		if err != nil {
			return nil, err
		}

		return normalizeResult(result)
	}
}
