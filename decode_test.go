package jsonhl_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonhl/jsonhl"
)

func formatText(t *testing.T, v jsonhl.Value) string {
	t.Helper()
	return format(t, v).Text
}

// --- JSON ---

func TestFromJSON(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in   string
		want string
	}{
		"scalar":          {in: ` 42 `, want: `42`},
		"string":          {in: `"a\tb"`, want: `"a\tb"`},
		"null":            {in: `null`, want: `null`},
		"bool":            {in: `false`, want: `false`},
		"empty object":    {in: `{ }`, want: `{}`},
		"empty array":     {in: `[ ]`, want: `[]`},
		"keeps order":     {in: `{"z":1,"a":2}`, want: "{\n  \"z\": 1,\n  \"a\": 2\n}"},
		"keeps num text":  {in: `[1.50, 12345678901234567890, -0e5]`, want: "[\n  1.50,\n  12345678901234567890,\n  -0e5\n]"},
		"duplicate keys":  {in: `{"a":1,"b":2,"a":3}`, want: "{\n  \"a\": 3,\n  \"b\": 2\n}"},
		"unicode escapes": {in: `{"k\u00e9y":"snow \u2603"}`, want: "{\n  \"kéy\": \"snow ☃\"\n}"},
		"nested": {
			in:   `{"a":[{"b":null},[]],"c":{}}`,
			want: "{\n  \"a\": [\n    {\n      \"b\": null\n    },\n    []\n  ],\n  \"c\": {}\n}",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			v, err := jsonhl.FromJSON([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatText(t, v))
		})
	}
}

func TestFromJSONValueAccessors(t *testing.T) {
	t.Parallel()
	v, err := jsonhl.FromJSON([]byte(`{"list":[true,"x"],"n":7}`))
	require.NoError(t, err)
	assert.Equal(t, jsonhl.KindObject, v.Kind())

	list, ok := v.Get("list")
	require.True(t, ok)
	require.Len(t, list.Items(), 2)
	assert.True(t, list.Items()[0].AsBool())
	assert.Equal(t, "x", list.Items()[1].Text())

	n, ok := v.Get("n")
	require.True(t, ok)
	assert.Equal(t, jsonhl.KindNumber, n.Kind())
	assert.Equal(t, "7", n.Text())

	_, ok = v.Get("missing")
	assert.False(t, ok)

	members := v.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "list", members[0].Key)
	assert.Equal(t, "n", members[1].Key)
	assert.Equal(t, jsonhl.KindArray, members[0].Value.Kind())
}

func TestFromJSONErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"empty":         ``,
		"trailing data": `{} {}`,
		"bad literal":   `nope`,
		"bad element":   `[1, tru]`,
		"object comma":  `{"a":1,}`,
		"array comma":   `[1,2,]`,
		"control char":  "\"a\x01b\"",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := jsonhl.FromJSON([]byte(in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "jsonhl: decoding JSON")
		})
	}
}

// --- YAML ---

func TestFromYAML(t *testing.T) {
	t.Parallel()
	in := `
name: demo
count: 0x1F
ratio: 2.5
enabled: true
nothing: null
big: 18446744073709551615
list:
  - &shared {a: 1}
  - *shared
  - "quoted"
`
	v, err := jsonhl.FromYAML([]byte(in))
	require.NoError(t, err)
	want := `{
  "name": "demo",
  "count": 31,
  "ratio": 2.5,
  "enabled": true,
  "nothing": null,
  "big": 18446744073709551615,
  "list": [
    {
      "a": 1
    },
    {
      "a": 1
    },
    "quoted"
  ]
}`
	assert.Equal(t, want, formatText(t, v))
}

// aliasExplosion expands to nine to the sixth power strings.
const aliasExplosion = `a: &a ["x","x","x","x","x","x","x","x","x"]
b: &b [*a,*a,*a,*a,*a,*a,*a,*a,*a]
c: &c [*b,*b,*b,*b,*b,*b,*b,*b,*b]
d: &d [*c,*c,*c,*c,*c,*c,*c,*c,*c]
e: &e [*d,*d,*d,*d,*d,*d,*d,*d,*d]
f: &f [*e,*e,*e,*e,*e,*e,*e,*e,*e]
`

func TestFromYAMLStream(t *testing.T) {
	t.Parallel()
	docs, err := jsonhl.FromYAMLStream([]byte("a: 1\n---\n- x\n---\nnull\n"))
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "{\n  \"a\": 1\n}", formatText(t, docs[0]))
	assert.Equal(t, "[\n  \"x\"\n]", formatText(t, docs[1]))
	assert.Equal(t, jsonhl.KindNull, docs[2].Kind())

	docs, err = jsonhl.FromYAMLStream(nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFromYAMLSharedAnchors(t *testing.T) {
	t.Parallel()
	v, err := jsonhl.FromYAML([]byte("base: &b {x: 1}\none: *b\ntwo: *b\n"))
	require.NoError(t, err)
	require.Len(t, v.Members(), 3)
	assert.Equal(t, "two", v.Members()[2].Key)
	assert.Equal(t, formatText(t, v.Members()[0].Value), formatText(t, v.Members()[2].Value))
}

func TestFromYAMLEmpty(t *testing.T) {
	t.Parallel()
	v, err := jsonhl.FromYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, jsonhl.KindNull, v.Kind())
}

func TestFromYAMLErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in      string
		wantErr error
	}{
		"infinity":          {in: "x: .inf\n", wantErr: jsonhl.ErrInvalidValue},
		"sequence key":      {in: "? [a, b]\n: 1\n"},
		"invalid syntax":    {in: "a: [1, 2\n"},
		"several docs":      {in: "a: 1\n---\nb: 2\n"},
		"self alias":        {in: "a: &x [1, *x]\n", wantErr: jsonhl.ErrAlias},
		"nested self alias": {in: "a: &x {b: [*x]}\n", wantErr: jsonhl.ErrAlias},
		"alias explosion":   {in: aliasExplosion, wantErr: jsonhl.ErrAlias},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := jsonhl.FromYAML([]byte(tt.in))
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// --- Go values ---

type orderedItem struct {
	Zeta  string   `json:"zeta"`
	Alpha int      `json:"alpha"`
	Tags  []string `json:"tags,omitempty"`
}

func TestFromAny(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in   any
		want string
	}{
		"nil":         {in: nil, want: `null`},
		"int":         {in: 7, want: `7`},
		"uint64":      {in: uint64(1 << 63), want: `9223372036854775808`},
		"float32":     {in: float32(0.1), want: `0.1`},
		"json number": {in: json.Number("1.0"), want: `1.0`},
		"sorted map":  {in: map[string]any{"b": 1, "a": "x"}, want: "{\n  \"a\": \"x\",\n  \"b\": 1\n}"},
		"struct":      {in: orderedItem{Zeta: "z", Alpha: 1}, want: "{\n  \"zeta\": \"z\",\n  \"alpha\": 1\n}"},
		"tree value":  {in: jsonhl.Array(jsonhl.Bool(true)), want: "[\n  true\n]"},
		"slice":       {in: []orderedItem{{Zeta: "a", Tags: []string{"t"}}}, want: "[\n  {\n    \"zeta\": \"a\",\n    \"alpha\": 0,\n    \"tags\": [\n      \"t\"\n    ]\n  }\n]"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			v, err := jsonhl.FromAny(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatText(t, v))
		})
	}
}

func TestFromAnyUnsupported(t *testing.T) {
	t.Parallel()
	_, err := jsonhl.FromAny(make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chan int")
}
