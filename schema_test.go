package reqparse_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqparse"
)

type orderItem struct {
	Name  string `json:"name" required:"true"`
	Count int    `json:"count" minimum:"1"`
}

type orderBody struct {
	Customer string      `json:"customer" required:"true" minLength:"2"`
	Coupon   string      `json:"coupon" pattern:"^[A-Z]{4}$"`
	Kind     string      `json:"kind" enum:"pickup,delivery"`
	Total    float64     `json:"total" minimum:"0" maximum:"10000"`
	Items    []orderItem `json:"items" required:"true" minItems:"1"`
	Note     string      `json:"-"`
}

func TestNewSchema_fields(t *testing.T) {
	t.Parallel()

	s := reqparse.NewSchema(reflect.TypeFor[orderBody]())
	require.Len(t, s.Fields, 5)

	byName := make(map[string]reqparse.Field)
	for _, f := range s.Fields {
		byName[f.Name] = f
	}

	assert.Equal(t, reqparse.TagString, byName["customer"].Tag)
	assert.True(t, byName["customer"].Required)
	assert.Equal(t, reqparse.TagNumber, byName["total"].Tag)
	assert.False(t, byName["total"].Required)

	items := byName["items"]
	assert.Equal(t, reqparse.TagArray, items.Tag)
	require.NotNil(t, items.Elem)
	assert.Equal(t, reqparse.TagObject, items.Elem.Tag)
	require.NotNil(t, items.Elem.Object)
	assert.Len(t, items.Elem.Object.Fields, 2)

	_, hidden := byName["Note"]
	assert.False(t, hidden)
}

func TestSchema_validate_json(t *testing.T) {
	t.Parallel()

	s := reqparse.NewSchema(reflect.TypeFor[orderBody]())

	t.Run("valid payload decodes", func(t *testing.T) {
		t.Parallel()

		payload := []byte(`{"customer":"Alice","kind":"pickup","total":9.5,"items":[{"name":"tea","count":2}]}`)
		var out orderBody
		diag := s.ValidateJSON(payload, &out)
		require.Nil(t, diag)
		assert.Equal(t, "Alice", out.Customer)
		require.Len(t, out.Items, 1)
		assert.Equal(t, 2, out.Items[0].Count)
	})

	t.Run("empty payload reports required fields", func(t *testing.T) {
		t.Parallel()

		var out orderBody
		diag := s.ValidateJSON(nil, &out)
		require.Len(t, diag, 2)
		assert.Equal(t, []any{"customer"}, diag[0].Loc)
		assert.Equal(t, "missing", diag[0].Kind)
		assert.Equal(t, []any{"items"}, diag[1].Loc)
	})

	t.Run("non-object payload", func(t *testing.T) {
		t.Parallel()

		var out orderBody
		diag := s.ValidateJSON([]byte(`[1,2]`), &out)
		require.Len(t, diag, 1)
		assert.Equal(t, "model_type", diag[0].Kind)
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()

		var out orderBody
		diag := s.ValidateJSON([]byte(`{`), &out)
		require.Len(t, diag, 1)
		assert.Equal(t, "json_invalid", diag[0].Kind)
	})

	t.Run("type mismatches", func(t *testing.T) {
		t.Parallel()

		payload := []byte(`{"customer":12,"total":"high","items":"none"}`)
		var out orderBody
		diag := s.ValidateJSON(payload, &out)
		require.Len(t, diag, 3)

		kinds := map[string]string{}
		for _, fe := range diag {
			kinds[fe.Loc[0].(string)] = fe.Kind
		}
		assert.Equal(t, "string_type", kinds["customer"])
		assert.Equal(t, "float_type", kinds["total"])
		assert.Equal(t, "list_type", kinds["items"])
	})

	t.Run("nested errors carry indexed paths", func(t *testing.T) {
		t.Parallel()

		payload := []byte(`{"customer":"Alice","items":[{"name":"tea"},{"count":0}]}`)
		var out orderBody
		diag := s.ValidateJSON(payload, &out)
		require.Len(t, diag, 2)

		assert.Equal(t, []any{"items", 1, "name"}, diag[0].Loc)
		assert.Equal(t, "missing", diag[0].Kind)
		assert.Equal(t, []any{"items", 1, "count"}, diag[1].Loc)
		assert.Equal(t, "greater_than_equal", diag[1].Kind)
	})

	t.Run("constraint violations", func(t *testing.T) {
		t.Parallel()

		tests := map[string]struct {
			payload string
			loc     []any
			kind    string
		}{
			"too short": {
				payload: `{"customer":"A","items":[{"name":"x"}]}`,
				loc:     []any{"customer"},
				kind:    "string_too_short",
			},
			"pattern mismatch": {
				payload: `{"customer":"Alice","coupon":"abc","items":[{"name":"x"}]}`,
				loc:     []any{"coupon"},
				kind:    "string_pattern_mismatch",
			},
			"enum violation": {
				payload: `{"customer":"Alice","kind":"teleport","items":[{"name":"x"}]}`,
				loc:     []any{"kind"},
				kind:    "enum",
			},
			"above maximum": {
				payload: `{"customer":"Alice","total":10001,"items":[{"name":"x"}]}`,
				loc:     []any{"total"},
				kind:    "less_than_equal",
			},
			"too few items": {
				payload: `{"customer":"Alice","items":[]}`,
				loc:     []any{"items"},
				kind:    "too_short",
			},
			"non-integral count": {
				payload: `{"customer":"Alice","items":[{"name":"x","count":1.5}]}`,
				loc:     []any{"items", 0, "count"},
				kind:    "int_type",
			},
		}

		for name, tc := range tests {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				var out orderBody
				diag := s.ValidateJSON([]byte(tc.payload), &out)
				require.Len(t, diag, 1)
				assert.Equal(t, tc.loc, diag[0].Loc)
				assert.Equal(t, tc.kind, diag[0].Kind)
			})
		}
	})
}

func TestSchema_narrow_and_map_fields(t *testing.T) {
	t.Parallel()

	type jobBody struct {
		Level   int8           `json:"level"`
		Ratio   float32        `json:"ratio"`
		Timeout time.Duration  `json:"timeout"`
		Counts  map[string]int `json:"counts"`
	}

	s := reqparse.NewSchema(reflect.TypeFor[jobBody]())

	t.Run("values within range decode", func(t *testing.T) {
		t.Parallel()

		payload := []byte(`{"level":12,"ratio":0.5,"timeout":5000000000,"counts":{"a":2}}`)
		var out jobBody
		diag := s.ValidateJSON(payload, &out)
		require.Nil(t, diag)
		assert.Equal(t, int8(12), out.Level)
		assert.Equal(t, 5*time.Second, out.Timeout)
		assert.Equal(t, map[string]int{"a": 2}, out.Counts)
	})

	t.Run("integer overflowing target reports out of range", func(t *testing.T) {
		t.Parallel()

		var out jobBody
		diag := s.ValidateJSON([]byte(`{"level":300}`), &out)
		require.Len(t, diag, 1)
		assert.Equal(t, []any{"level"}, diag[0].Loc)
		assert.Equal(t, "int_parsing", diag[0].Kind)
		assert.Equal(t, float64(300), diag[0].Input)
	})

	t.Run("number overflowing float32 reports out of range", func(t *testing.T) {
		t.Parallel()

		var out jobBody
		diag := s.ValidateJSON([]byte(`{"ratio":1e300}`), &out)
		require.Len(t, diag, 1)
		assert.Equal(t, []any{"ratio"}, diag[0].Loc)
		assert.Equal(t, "float_parsing", diag[0].Kind)
	})

	t.Run("duration field validates as integer", func(t *testing.T) {
		t.Parallel()

		var out jobBody
		diag := s.ValidateJSON([]byte(`{"timeout":"5s"}`), &out)
		require.Len(t, diag, 1)
		assert.Equal(t, []any{"timeout"}, diag[0].Loc)
		assert.Equal(t, "int_type", diag[0].Kind)
	})

	t.Run("map values validate with keyed paths", func(t *testing.T) {
		t.Parallel()

		var out jobBody
		diag := s.ValidateJSON([]byte(`{"counts":{"b":"x","a":2}}`), &out)
		require.Len(t, diag, 1)
		assert.Equal(t, []any{"counts", "b"}, diag[0].Loc)
		assert.Equal(t, "int_type", diag[0].Kind)
	})
}

func TestSchema_validate_value(t *testing.T) {
	t.Parallel()

	s := reqparse.NewSchema(reflect.TypeFor[orderItem]())

	diag := s.ValidateValue(map[string]any{"name": "tea", "count": float64(3)})
	assert.Nil(t, diag)

	diag = s.ValidateValue(map[string]any{"count": float64(0)})
	require.Len(t, diag, 2)
	assert.Equal(t, "missing", diag[0].Kind)
	assert.Equal(t, "greater_than_equal", diag[1].Kind)
}
