package reqparse

import (
	"fmt"
	"reflect"
	"time"
	"unicode"
	"unicode/utf8"
)

// Args maps binding names to validated values for a single request. Only
// names the request actually supplied appear (plus the body binding when
// one is declared); declared defaults are filled in later, when the
// arguments are bound into the params struct.
type Args map[string]any

// Binding describes one scalar query parameter derived from a params field.
type Binding struct {
	Name       string
	Tag        TypeTag
	HasDefault bool
	Default    any

	// Optional marks pointer fields without a default: absent from the
	// request, they stay nil instead of reporting as missing.
	Optional bool

	// typ is the unwrapped target type, used to range-check coerced values
	// during validation so narrow fields reject out-of-range input with a
	// diagnostic instead of failing at bind time.
	typ reflect.Type

	index int
}

// BodyBinding ties the single structured body field to its schema.
type BodyBinding struct {
	Name   string
	Schema *Schema

	index int
}

// Contract is the immutable parse plan derived once from a params struct:
// at most one body binding plus zero or more query bindings in declaration
// order. It is never mutated after analysis and is safe to share across
// concurrent requests.
type Contract struct {
	Body  *BodyBinding
	Query []Binding

	params reflect.Type
}

// Analyze derives a contract from a params struct type. The request carrier
// is the handler's first argument by construction, so analysis only rules
// on the declaration itself. It fails, wrapping ErrInvalidHandler, when the
// type is not a struct, when more than one field is a body candidate (any
// struct-typed field), when two bindings share a name — including a query
// binding colliding with the body binding — or when a scalar field has a
// type that cannot be bound from a query string.
func Analyze(t reflect.Type) (*Contract, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: params type %s is not a struct", ErrInvalidHandler, t)
	}

	c := &Contract{params: t}
	seen := make(map[string]bool)

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := bindingName(f)
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate binding name %q", ErrInvalidHandler, name)
		}
		seen[name] = true

		if isBodyType(f.Type) {
			if c.Body != nil {
				return nil, fmt.Errorf("%w: at most one body parameter is allowed, found %q and %q",
					ErrInvalidHandler, c.Body.Name, name)
			}
			c.Body = &BodyBinding{Name: name, Schema: NewSchema(f.Type), index: i}
			continue
		}

		tag, ok := scalarTag(f.Type)
		if !ok {
			return nil, fmt.Errorf("%w: field %s has unsupported type %s", ErrInvalidHandler, f.Name, f.Type)
		}

		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		b := Binding{
			Name:     name,
			Tag:      tag,
			Optional: f.Type.Kind() == reflect.Pointer,
			typ:      ft,
			index:    i,
		}
		if def, ok := f.Tag.Lookup("default"); ok {
			v, fe := coerceScalar(tag, def)
			if fe != nil || !fitsType(ft, v) {
				return nil, fmt.Errorf("%w: field %s has invalid default %q", ErrInvalidHandler, f.Name, def)
			}
			b.HasDefault = true
			b.Default = v
		}

		c.Query = append(c.Query, b)
	}

	return c, nil
}

// Parse applies the contract to a request, producing either the bound
// arguments or a diagnostic. Query and body validation run independently
// and all errors are collected before deciding the outcome; in a combined
// diagnostic query errors come first, then body errors. The ordering is
// deterministic but carries no meaning.
func (c *Contract) Parse(req *Request) (Args, Diagnostic) {
	var (
		queryArgs Args
		errs      Diagnostic
	)

	if len(c.Query) > 0 {
		var queryErrs Diagnostic
		queryArgs, queryErrs = validateQuery(c.Query, req.Query)
		errs = append(errs, queryErrs...)
	}

	var body any
	if c.Body != nil {
		target := reflect.New(c.Body.Schema.Type()).Interface()
		if bodyErrs := c.Body.Schema.ValidateJSON(req.Body, target); bodyErrs != nil {
			errs = append(errs, bodyErrs...)
		} else {
			body = target
		}
	}

	if errs != nil {
		return nil, errs
	}

	args := queryArgs
	if args == nil {
		args = make(Args)
	}
	if c.Body != nil {
		args[c.Body.Name] = body
	}
	return args, nil
}

// apply materializes bound arguments into a params struct value, filling
// declared defaults for bindings the request did not supply.
func (c *Contract) apply(args Args, target any) error {
	v := reflect.ValueOf(target).Elem()

	for _, b := range c.Query {
		val, ok := args[b.Name]
		if !ok {
			if !b.HasDefault {
				continue
			}
			val = b.Default
		}
		if err := setScalar(v.Field(b.index), val); err != nil {
			return fmt.Errorf("bind %s: %w", b.Name, err)
		}
	}

	if c.Body != nil {
		if val, ok := args[c.Body.Name]; ok {
			bv := reflect.ValueOf(val)
			field := v.Field(c.Body.index)
			if field.Kind() == reflect.Pointer {
				field.Set(bv)
			} else {
				field.Set(bv.Elem())
			}
		}
	}

	return nil
}

// isBodyType reports whether a field type is a body candidate: any struct
// type except time.Time, optionally behind a pointer.
func isBodyType(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && t != reflect.TypeFor[time.Time]()
}

// scalarTag maps a scalar field type to its binding type tag.
func scalarTag(t reflect.Type) (TypeTag, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == reflect.TypeFor[time.Duration]() {
		return TagDuration, true
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		return TagString, true
	case reflect.Bool:
		return TagBoolean, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TagInteger, true
	case reflect.Float32, reflect.Float64:
		return TagNumber, true
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return TagAny, true
		}
		return "", false
	default:
		return "", false
	}
}

// bindingName returns the binding name for a params field: the query tag
// when present, otherwise the lower-camel field name.
func bindingName(f reflect.StructField) string {
	if name := f.Tag.Get("query"); name != "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(f.Name)
	return string(unicode.ToLower(r)) + f.Name[size:]
}

// setScalar sets a params struct field from a coerced query value or a
// declared default.
func setScalar(field reflect.Value, val any) error {
	if field.Kind() == reflect.Pointer {
		field.Set(reflect.New(field.Type().Elem()))
		field = field.Elem()
	}

	//exhaustive:ignore
	switch field.Kind() {
	case reflect.String:
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("cannot assign %T to %s", val, field.Type())
		}
		field.SetString(s)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := asInt64(val)
		if !ok || field.OverflowInt(n) {
			return fmt.Errorf("cannot assign %T to %s", val, field.Type())
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := asInt64(val)
		if !ok || n < 0 || field.OverflowUint(uint64(n)) {
			return fmt.Errorf("cannot assign %T to %s", val, field.Type())
		}
		field.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		f, ok := val.(float64)
		if !ok {
			if n, intOK := asInt64(val); intOK {
				f, ok = float64(n), true
			}
		}
		if !ok || field.OverflowFloat(f) {
			return fmt.Errorf("cannot assign %T to %s", val, field.Type())
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, ok := val.(bool)
		if !ok {
			return fmt.Errorf("cannot assign %T to %s", val, field.Type())
		}
		field.SetBool(b)

	case reflect.Interface:
		field.Set(reflect.ValueOf(val))

	default:
		return fmt.Errorf("unsupported type: %s", field.Type())
	}

	return nil
}

func asInt64(val any) (int64, bool) {
	switch n := val.(type) {
	case int64:
		return n, true
	case time.Duration:
		return int64(n), true
	default:
		return 0, false
	}
}
