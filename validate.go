package reqparse

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ValidateJSON validates raw payload bytes against the schema and, on
// success, decodes them into target. An empty payload is treated as an
// empty object, so required fields still report as missing.
func (s *Schema) ValidateJSON(data []byte, target any) Diagnostic {
	if len(data) == 0 {
		data = []byte("{}")
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Diagnostic{{
			Message: "Invalid JSON: " + err.Error(),
			Kind:    KindJSONInvalid,
			Input:   string(data),
		}}
	}

	var errs Diagnostic
	s.validateValue(v, nil, &errs)
	if errs != nil {
		return errs
	}

	if err := json.Unmarshal(data, target); err != nil {
		return Diagnostic{{
			Message: "Invalid JSON: " + err.Error(),
			Kind:    KindJSONInvalid,
			Input:   string(data),
		}}
	}
	return nil
}

// ValidateValue validates an already-decoded JSON value against the schema.
func (s *Schema) ValidateValue(v any) Diagnostic {
	var errs Diagnostic
	s.validateValue(v, nil, &errs)
	return errs
}

func (s *Schema) validateValue(v any, loc []any, errs *Diagnostic) {
	obj, ok := v.(map[string]any)
	if !ok {
		*errs = append(*errs, FieldError{
			Loc:     loc,
			Message: "Input should be a valid object",
			Kind:    KindObjectType,
			Input:   v,
		})
		return
	}

	for _, f := range s.Fields {
		raw, present := obj[f.Name]
		if !present {
			if f.Required {
				*errs = append(*errs, FieldError{
					Loc:     pathWith(loc, f.Name),
					Message: "Field required",
					Kind:    KindMissing,
				})
			}
			continue
		}
		f.check(raw, pathWith(loc, f.Name), errs)
	}
}

// check validates one value against the field spec, appending errors at loc.
func (f Field) check(v any, loc []any, errs *Diagnostic) {
	fail := func(message, kind string) {
		*errs = append(*errs, FieldError{Loc: loc, Message: message, Kind: kind, Input: v})
	}

	switch f.Tag {
	case TagString:
		str, ok := v.(string)
		if !ok {
			fail("Input should be a valid string", KindStringType)
			return
		}
		f.checkString(str, loc, errs)

	case TagInteger:
		n, ok := v.(float64)
		if !ok || n != math.Trunc(n) {
			fail("Input should be a valid integer", KindIntType)
			return
		}
		if !fitsType(f.typ, n) {
			fail("Input should be a valid integer, value out of range", KindIntParsing)
			return
		}
		f.checkRange(n, loc, errs, v)

	case TagNumber:
		n, ok := v.(float64)
		if !ok {
			fail("Input should be a valid number", KindFloatType)
			return
		}
		if !fitsType(f.typ, n) {
			fail("Input should be a valid number, value out of range", KindFloatParsing)
			return
		}
		f.checkRange(n, loc, errs, v)

	case TagBoolean:
		if _, ok := v.(bool); !ok {
			fail("Input should be a valid boolean", KindBoolType)
		}

	case TagObject:
		if f.Object != nil {
			f.Object.validateValue(v, loc, errs)
			return
		}
		obj, ok := v.(map[string]any)
		if !ok {
			fail("Input should be a valid object", KindObjectType)
			return
		}
		if f.Elem != nil {
			for _, k := range slices.Sorted(maps.Keys(obj)) {
				f.Elem.check(obj[k], pathWith(loc, k), errs)
			}
		}

	case TagArray:
		arr, ok := v.([]any)
		if !ok {
			fail("Input should be a valid list", KindListType)
			return
		}
		if f.minItems != nil && len(arr) < *f.minItems {
			fail(fmt.Sprintf("List should have at least %d items", *f.minItems), KindTooFewItems)
		}
		if f.maxItems != nil && len(arr) > *f.maxItems {
			fail(fmt.Sprintf("List should have at most %d items", *f.maxItems), KindTooManyItems)
		}
		if f.Elem != nil {
			for i, el := range arr {
				f.Elem.check(el, pathWith(loc, i), errs)
			}
		}

	case TagAny:
	}
}

func (f Field) checkString(str string, loc []any, errs *Diagnostic) {
	fail := func(message, kind string) {
		*errs = append(*errs, FieldError{Loc: loc, Message: message, Kind: kind, Input: str})
	}

	if f.minLength != nil && len(str) < *f.minLength {
		fail(fmt.Sprintf("String should have at least %d characters", *f.minLength), KindTooShort)
	}
	if f.maxLength != nil && len(str) > *f.maxLength {
		fail(fmt.Sprintf("String should have at most %d characters", *f.maxLength), KindTooLong)
	}
	if f.pattern != nil && !f.pattern.MatchString(str) {
		fail(fmt.Sprintf("String should match pattern %q", f.pattern.String()), KindPattern)
	}
	if len(f.enum) > 0 {
		found := false
		for _, allowed := range f.enum {
			if allowed == str {
				found = true
				break
			}
		}
		if !found {
			fail(fmt.Sprintf("Input should be one of [%s]", strings.Join(f.enum, ", ")), KindEnum)
		}
	}
}

func (f Field) checkRange(n float64, loc []any, errs *Diagnostic, input any) {
	if f.minimum != nil && n < *f.minimum {
		*errs = append(*errs, FieldError{
			Loc:     loc,
			Message: fmt.Sprintf("Input should be greater than or equal to %v", *f.minimum),
			Kind:    KindTooSmall,
			Input:   input,
		})
	}
	if f.maximum != nil && n > *f.maximum {
		*errs = append(*errs, FieldError{
			Loc:     loc,
			Message: fmt.Sprintf("Input should be less than or equal to %v", *f.maximum),
			Kind:    KindTooLarge,
			Input:   input,
		})
	}
}

// validateQuery checks a string-keyed query map against the contract's
// scalar bindings. Only keys present in the input appear in the returned
// arguments; declared defaults are applied later, when the arguments are
// bound into the params struct.
func validateQuery(bindings []Binding, query map[string]string) (Args, Diagnostic) {
	args := make(Args)
	var errs Diagnostic

	for _, b := range bindings {
		raw, present := query[b.Name]
		if !present {
			if !b.HasDefault && !b.Optional {
				errs = append(errs, FieldError{
					Loc:     []any{b.Name},
					Message: "Field required",
					Kind:    KindMissing,
				})
			}
			continue
		}

		v, fe := coerceScalar(b.Tag, raw)
		if fe == nil && !fitsType(b.typ, v) {
			fe = rangeError(b.Tag, raw)
		}
		if fe != nil {
			fe.Loc = []any{b.Name}
			errs = append(errs, *fe)
			continue
		}
		args[b.Name] = v
	}

	if errs != nil {
		return nil, errs
	}
	return args, nil
}

// coerceScalar converts a loosely-typed query string to the binding's
// target type: numeric-looking strings become numbers, "true"/"false"
// become booleans, and unconstrained bindings keep the raw string.
func coerceScalar(tag TypeTag, raw string) (any, *FieldError) {
	switch tag {
	case TagInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &FieldError{
				Message: "Input should be a valid integer, unable to parse string as an integer",
				Kind:    KindIntParsing,
				Input:   raw,
			}
		}
		return n, nil

	case TagNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &FieldError{
				Message: "Input should be a valid number, unable to parse string as a number",
				Kind:    KindFloatParsing,
				Input:   raw,
			}
		}
		return n, nil

	case TagBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &FieldError{
				Message: "Input should be a valid boolean, unable to interpret input",
				Kind:    KindBoolParsing,
				Input:   raw,
			}
		}
		return b, nil

	case TagDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, &FieldError{
				Message: "Input should be a valid duration string",
				Kind:    KindDurationParsing,
				Input:   raw,
			}
		}
		return d, nil

	default:
		return raw, nil
	}
}

// fitsType reports whether a coerced numeric value can be held by the
// declared Go type. Narrow integers, unsigned integers, and float32 all
// reject values outside their range; non-numeric types always fit.
func fitsType(typ reflect.Type, v any) bool {
	if typ == nil {
		return true
	}

	rv := reflect.New(typ).Elem()

	//exhaustive:ignore
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch n := v.(type) {
		case int64:
			return !rv.OverflowInt(n)
		case time.Duration:
			return !rv.OverflowInt(int64(n))
		case float64:
			if n < math.MinInt64 || n >= math.MaxInt64 {
				return false
			}
			return !rv.OverflowInt(int64(n))
		}
		return true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch n := v.(type) {
		case int64:
			return n >= 0 && !rv.OverflowUint(uint64(n))
		case float64:
			if n < 0 || n >= math.MaxUint64 {
				return false
			}
			return !rv.OverflowUint(uint64(n))
		}
		return true

	case reflect.Float32, reflect.Float64:
		switch n := v.(type) {
		case float64:
			return !rv.OverflowFloat(n)
		case int64:
			return !rv.OverflowFloat(float64(n))
		}
		return true

	default:
		return true
	}
}

func rangeError(tag TypeTag, input any) *FieldError {
	if tag == TagNumber {
		return &FieldError{
			Message: "Input should be a valid number, value out of range",
			Kind:    KindFloatParsing,
			Input:   input,
		}
	}
	return &FieldError{
		Message: "Input should be a valid integer, value out of range",
		Kind:    KindIntParsing,
		Input:   input,
	}
}

// pathWith copies loc and appends seg, so sibling paths never alias.
func pathWith(loc []any, seg any) []any {
	p := make([]any, len(loc), len(loc)+1)
	copy(p, loc)
	return append(p, seg)
}
