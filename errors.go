package reqparse

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrInvalidHandler is wrapped by every analysis failure: a params
// declaration that is not a struct, more than one body field, colliding
// binding names, or a scalar field of an unsupported type. It is raised at
// wrap time only, never per request.
var ErrInvalidHandler = errors.New("invalid handler declaration")

// Machine-readable error kinds carried by field errors.
const (
	KindMissing         = "missing"
	KindJSONInvalid     = "json_invalid"
	KindStringType      = "string_type"
	KindIntType         = "int_type"
	KindFloatType       = "float_type"
	KindBoolType        = "bool_type"
	KindObjectType      = "model_type"
	KindListType        = "list_type"
	KindIntParsing      = "int_parsing"
	KindFloatParsing    = "float_parsing"
	KindBoolParsing     = "bool_parsing"
	KindDurationParsing = "duration_parsing"
	KindTooShort        = "string_too_short"
	KindTooLong         = "string_too_long"
	KindPattern         = "string_pattern_mismatch"
	KindTooSmall        = "greater_than_equal"
	KindTooLarge        = "less_than_equal"
	KindEnum            = "enum"
	KindTooFewItems     = "too_short"
	KindTooManyItems    = "too_long"
)

// FieldError describes a single input validation failure.
type FieldError struct {
	// Loc is the path to the offending field: string keys for object
	// members, int segments for list indices.
	Loc     []any
	Message string
	Kind    string
	Input   any
}

// Diagnostic is an ordered sequence of field errors collected during one
// parse. A nil Diagnostic means the parse succeeded.
type Diagnostic []FieldError

// diagnosticEntry is the wire form of one field error.
type diagnosticEntry struct {
	Param  string `json:"param"`
	Reason string `json:"reason"`
	Type   string `json:"type"`
	Input  any    `json:"input"`
}

// Response formats the diagnostic as a 400 response whose body is a JSON
// object with a single "errors" key. Integer path segments render bracketed,
// other segments dot-joined: items[2].name.
func (d Diagnostic) Response() *Response {
	entries := make([]diagnosticEntry, len(d))
	for i, fe := range d {
		entries[i] = diagnosticEntry{
			Param:  formatLoc(fe.Loc),
			Reason: fe.Message,
			Type:   fe.Kind,
			Input:  fe.Input,
		}
	}

	body, err := json.Marshal(map[string][]diagnosticEntry{"errors": entries})
	if err != nil {
		body = []byte(`{"errors":[]}`) // best-effort: never panic mid-request
	}

	return &Response{
		Body:       body,
		StatusCode: http.StatusBadRequest,
		MimeType:   "application/json",
	}
}

// formatLoc renders a location path: int segments wrapped in brackets,
// string segments dot-joined.
func formatLoc(loc []any) string {
	var b strings.Builder
	for i, seg := range loc {
		switch v := seg.(type) {
		case int:
			b.WriteString("[" + strconv.Itoa(v) + "]")
		case string:
			if i > 0 {
				b.WriteString(".")
			}
			b.WriteString(v)
		}
	}
	return b.String()
}
