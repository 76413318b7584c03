package reqparse

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TypeTag identifies the shape of value a binding or schema field accepts.
type TypeTag string

const (
	TagString   TypeTag = "string"
	TagInteger  TypeTag = "integer"
	TagNumber   TypeTag = "number"
	TagBoolean  TypeTag = "boolean"
	TagObject   TypeTag = "object"
	TagArray    TypeTag = "array"
	TagDuration TypeTag = "duration"
	TagAny      TypeTag = "any"
)

// Field is one named, typed member of a schema, with optional constraint
// tags carried over from the struct declaration.
type Field struct {
	Name     string
	Tag      TypeTag
	Required bool

	// Object holds the nested schema when Tag is TagObject. Nil for
	// free-form maps, which accept any members.
	Object *Schema

	// Elem describes array elements when Tag is TagArray, or map values
	// when Tag is TagObject and the field is a string-keyed map.
	Elem *Field

	// typ is the declared Go type, used to reject numbers the target
	// cannot hold before the typed decode runs.
	typ reflect.Type

	minLength, maxLength *int
	pattern              *regexp.Regexp
	minimum, maximum     *float64
	enum                 []string
	minItems, maxItems   *int
}

// Schema is a reusable validator for one struct type: an ordered set of
// field specs derived once from the type's declaration. Safe for concurrent
// use.
type Schema struct {
	Fields []Field

	typ reflect.Type
}

// NewSchema builds a schema from a struct type. Pointer types are
// unwrapped. Field names follow json tags; fields tagged `required:"true"`
// must appear in validated input. Constraint tags (minLength, maxLength,
// pattern, minimum, maximum, enum, minItems, maxItems) become validation
// rules.
func NewSchema(t reflect.Type) *Schema {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	s := &Schema{typ: t}
	if t.Kind() != reflect.Struct {
		return s
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := jsonFieldName(f)
		if name == "-" {
			continue
		}

		spec := fieldSpec(f.Type)
		spec.Name = name
		spec.Required = f.Tag.Get("required") == "true"
		applyConstraintTags(&spec, f.Tag)

		s.Fields = append(s.Fields, spec)
	}

	return s
}

// Type returns the struct type the schema validates into.
func (s *Schema) Type() reflect.Type { return s.typ }

// fieldSpec derives a field spec from a Go type.
func fieldSpec(t reflect.Type) Field {
	if t.Kind() == reflect.Pointer {
		return fieldSpec(t.Elem())
	}

	if t == reflect.TypeFor[time.Time]() {
		return Field{Tag: TagString, typ: t}
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		return Field{Tag: TagString, typ: t}
	case reflect.Bool:
		return Field{Tag: TagBoolean, typ: t}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Field{Tag: TagInteger, typ: t}
	case reflect.Float32, reflect.Float64:
		return Field{Tag: TagNumber, typ: t}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return Field{Tag: TagString, typ: t}
		}
		elem := fieldSpec(t.Elem())
		return Field{Tag: TagArray, Elem: &elem, typ: t}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Field{Tag: TagObject, typ: t}
		}
		elem := fieldSpec(t.Elem())
		return Field{Tag: TagObject, Elem: &elem, typ: t}
	case reflect.Struct:
		return Field{Tag: TagObject, Object: NewSchema(t), typ: t}
	default:
		return Field{Tag: TagAny, typ: t}
	}
}

func applyConstraintTags(spec *Field, tag reflect.StructTag) {
	spec.minLength = intTag(tag, "minLength")
	spec.maxLength = intTag(tag, "maxLength")
	spec.minimum = floatTag(tag, "minimum")
	spec.maximum = floatTag(tag, "maximum")
	spec.minItems = intTag(tag, "minItems")
	spec.maxItems = intTag(tag, "maxItems")

	if v := tag.Get("pattern"); v != "" {
		if re, err := regexp.Compile(v); err == nil {
			spec.pattern = re
		}
	}
	if v := tag.Get("enum"); v != "" {
		spec.enum = strings.Split(v, ",")
	}
}

func intTag(tag reflect.StructTag, name string) *int {
	v := tag.Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func floatTag(tag reflect.StructTag, name string) *float64 {
	v := tag.Get(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// jsonFieldName returns the JSON field name for a struct field.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
