package jsonhl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/buger/jsonparser"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// ErrAlias reports a YAML alias that refers to itself or expands far beyond
// the size of its input.
var ErrAlias = errors.New("jsonhl: excessive YAML aliasing")

// yamlExpansionFactor bounds the number of nodes a YAML input may expand to,
// relative to its length in bytes.
const yamlExpansionFactor = 64

// FromJSON decodes a single JSON document into a Value. Object member order
// and the textual form of numbers are preserved. When a key repeats, the
// last value wins and keeps the position of the first occurrence.
func FromJSON(data []byte) (Value, error) {
	if err := validateJSON(data); err != nil {
		return Value{}, fmt.Errorf("jsonhl: decoding JSON: %w", err)
	}
	raw, typ, end, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, fmt.Errorf("jsonhl: decoding JSON: %w", err)
	}
	if rest := bytes.TrimSpace(data[end:]); len(rest) > 0 {
		return Value{}, fmt.Errorf("jsonhl: decoding JSON: unexpected data after top-level value at offset %d", end)
	}
	return fromJSON(raw, typ)
}

// validateJSON checks the first value of data against the strict grammar.
// jsonparser locates values without validating them, so trailing commas and
// raw control characters would otherwise pass.
func validateJSON(data []byte) error {
	api := jsoniter.ConfigCompatibleWithStandardLibrary
	iter := api.BorrowIterator(data)
	defer api.ReturnIterator(iter)
	iter.Skip()
	// io.EOF only means a top-level number ran to the end of the input.
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return iter.Error
	}
	return nil
}

func fromJSON(raw []byte, typ jsonparser.ValueType) (Value, error) {
	switch typ {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, fmt.Errorf("jsonhl: decoding JSON: %w", err)
		}
		return Bool(b), nil
	case jsonparser.Number:
		if !isNumber(string(raw)) {
			return Value{}, fmt.Errorf("jsonhl: decoding JSON: malformed number %q", raw)
		}
		return Number(string(raw)), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, fmt.Errorf("jsonhl: decoding JSON: %w", err)
		}
		return String(s), nil
	case jsonparser.Array:
		items := []Value{}
		var itemErr error
		_, err := jsonparser.ArrayEach(raw, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
			if itemErr != nil {
				return
			}
			if err != nil {
				itemErr = err
				return
			}
			item, err := fromJSON(value, dataType)
			if err != nil {
				itemErr = err
				return
			}
			items = append(items, item)
		})
		if itemErr != nil {
			return Value{}, itemErr
		}
		if err != nil {
			return Value{}, fmt.Errorf("jsonhl: decoding JSON: %w", err)
		}
		return Array(items...), nil
	case jsonparser.Object:
		var ob objectBuilder
		var memberErr error
		err := jsonparser.ObjectEach(raw, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
			v, err := fromJSON(value, dataType)
			if err != nil {
				memberErr = err
				return err
			}
			ob.set(string(key), v)
			return nil
		})
		if memberErr != nil {
			return Value{}, memberErr
		}
		if err != nil {
			return Value{}, fmt.Errorf("jsonhl: decoding JSON: %w", err)
		}
		return ob.value(), nil
	default:
		return Value{}, fmt.Errorf("jsonhl: decoding JSON: unexpected token %q", raw)
	}
}

// objectBuilder collects members with unique keys.
type objectBuilder struct {
	members []Member
	index   map[string]int
}

func (ob *objectBuilder) set(key string, v Value) {
	if i, ok := ob.index[key]; ok {
		ob.members[i].Value = v
		return
	}
	if ob.index == nil {
		ob.index = make(map[string]int)
	}
	ob.index[key] = len(ob.members)
	ob.members = append(ob.members, Member{Key: key, Value: v})
}

func (ob *objectBuilder) value() Value {
	if ob.members == nil {
		return Object()
	}
	return Object(ob.members...)
}

// FromYAML decodes a single YAML document into a Value. Mapping order is
// preserved and aliases are expanded. An empty input decodes to null and a
// stream of more than one document is an error; use FromYAMLStream for
// those.
func FromYAML(data []byte) (Value, error) {
	docs, err := FromYAMLStream(data)
	if err != nil {
		return Value{}, err
	}
	switch len(docs) {
	case 0:
		return Null(), nil
	case 1:
		return docs[0], nil
	default:
		return Value{}, fmt.Errorf("jsonhl: decoding YAML: found %d documents, want one", len(docs))
	}
}

// FromYAMLStream decodes every document of a YAML stream, in order. An
// empty input yields no documents.
//
// Aliases that refer to themselves, or that expand to many times more nodes
// than the input has bytes, fail with ErrAlias.
func FromYAMLStream(data []byte) ([]Value, error) {
	d := &yamlDecoder{
		expanding: make(map[*yaml.Node]bool),
		budget:    yamlExpansionFactor * (len(data) + 1),
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []Value
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("jsonhl: decoding YAML: %w", err)
		}
		v, err := d.value(&doc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
}

// yamlDecoder converts yaml.Node trees, tracking alias expansion.
type yamlDecoder struct {
	// expanding holds the anchors whose aliases are being expanded.
	expanding map[*yaml.Node]bool
	// budget is the number of nodes left to convert.
	budget int
}

func (d *yamlDecoder) value(n *yaml.Node) (Value, error) {
	if d.budget--; d.budget < 0 {
		return Value{}, fmt.Errorf("%w: line %d: expansion exceeds input size", ErrAlias, n.Line)
	}
	switch n.Kind {
	case 0:
		return Null(), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return d.value(n.Content[0])
	case yaml.AliasNode:
		return d.alias(n)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := d.value(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Array(items...), nil
	case yaml.MappingNode:
		var ob objectBuilder
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.AliasNode {
				k = k.Alias
			}
			if k == nil || k.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("jsonhl: decoding YAML: line %d: mapping key must be a scalar", n.Content[i].Line)
			}
			v, err := d.value(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			ob.set(k.Value, v)
		}
		return ob.value(), nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	default:
		return Value{}, fmt.Errorf("jsonhl: decoding YAML: line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func (d *yamlDecoder) alias(n *yaml.Node) (Value, error) {
	target := n.Alias
	if target == nil {
		return Value{}, fmt.Errorf("jsonhl: decoding YAML: line %d: unknown anchor %q", n.Line, n.Value)
	}
	if d.expanding[target] {
		return Value{}, fmt.Errorf("%w: line %d: anchor %q refers to itself", ErrAlias, n.Line, n.Value)
	}
	d.expanding[target] = true
	defer delete(d.expanding, target)
	return d.value(target)
}

func fromYAMLScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("jsonhl: decoding YAML: %w", err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return Value{}, fmt.Errorf("jsonhl: decoding YAML: %w", err)
		}
		return Number(strconv.FormatUint(u, 10)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("jsonhl: decoding YAML: %w", err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%w: line %d: non-finite number %s", ErrInvalidValue, n.Line, n.Value)
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}

// FromAny converts a Go value into a Value. The generic shapes produced by
// JSON and YAML decoders are converted directly, with map keys sorted.
// Anything else is marshaled to JSON first, which keeps struct field order.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case float64:
		return Float(t), nil
	case float32:
		return Number(strconv.FormatFloat(float64(t), 'g', -1, 32)), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case int32:
		return Int(int64(t)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, e := range t {
			item, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Array(items...), nil
	case map[string]any:
		members := make([]Member, 0, len(t))
		for _, k := range slices.Sorted(maps.Keys(t)) {
			mv, err := FromAny(t[k])
			if err != nil {
				return Value{}, err
			}
			members = append(members, Field(k, mv))
		}
		return Object(members...), nil
	default:
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
		if err != nil {
			return Value{}, fmt.Errorf("jsonhl: failed to marshal %T to JSON: %w", v, err)
		}
		return FromJSON(data)
	}
}
