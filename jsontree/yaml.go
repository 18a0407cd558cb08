package jsontree

import (
	"bytes"
	"encoding/base64"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/geobuf/errs"
)

// ParseYAML parses a single YAML document into a tree. Mapping order is kept.
// Integers follow the same lossless rules as Parse; !!binary scalars become
// Bytes values.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "yaml: %v", err)
	}

	return FromYAML(&doc)
}

// MarshalYAML renders v as a YAML document indented by two spaces.
func MarshalYAML(v Value, opts RenderOptions) ([]byte, error) {
	if opts.SortKeys {
		v = SortKeys(v)
	}

	node, err := ToYAML(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, errors.Wrapf(errs.ErrInvalidJSON, "yaml: %v", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrapf(errs.ErrInvalidJSON, "yaml: %v", err)
	}

	return buf.Bytes(), nil
}

// FromYAML converts a decoded YAML node into a tree.
func FromYAML(node *yaml.Node) (Value, error) {
	return fromYAML(node, 0)
}

func fromYAML(node *yaml.Node, depth int) (Value, error) {
	if depth > MaxParseDepth {
		return Value{}, errors.Wrapf(errs.ErrDepthLimitExceeded, "yaml nesting deeper than %d", MaxParseDepth)
	}

	switch node.Kind {
	case 0:
		return Null(), nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}

		return fromYAML(node.Content[0], depth)
	case yaml.AliasNode:
		return fromYAML(node.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := fromYAML(child, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}

		return ArrayOf(items...), nil
	case yaml.MappingNode:
		obj := NewObject(len(node.Content) / 2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "yaml line %d: mapping key must be a scalar", key.Line)
			}
			member, err := fromYAML(node.Content[i+1], depth+1)
			if err != nil {
				return Value{}, err
			}
			obj.Set(key.Value, member)
		}

		return ObjectOf(obj), nil
	case yaml.ScalarNode:
		return fromYAMLScalar(node)
	default:
		return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "yaml line %d: unsupported node kind %d", node.Line, node.Kind)
	}
}

func fromYAMLScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "yaml line %d: %v", node.Line, err)
		}

		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return Int(i), nil
		}
		var u uint64
		if err := node.Decode(&u); err == nil {
			return Uint(u), nil
		}
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "yaml line %d: integer %q out of range", node.Line, node.Value)
		}

		return Double(f), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "yaml line %d: %v", node.Line, err)
		}

		return Double(f), nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(node.Value)
		if err != nil {
			return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "yaml line %d: %v", node.Line, err)
		}

		return Bytes(b), nil
	default:
		return String(node.Value), nil
	}
}

// ToYAML converts a tree into a YAML node. Bytes become !!binary scalars.
// NaN and infinite doubles fail with errs.ErrInvalidJSON, as with Marshal.
func ToYAML(v Value) (*yaml.Node, error) {
	switch v.kind {
	case KindNull:
		return scalar("!!null", "null"), nil
	case KindBool:
		return scalar("!!bool", strconv.FormatBool(v.num != 0)), nil
	case KindInt:
		return scalar("!!int", strconv.FormatInt(int64(v.num), 10)), nil //nolint:gosec
	case KindUint:
		return scalar("!!int", strconv.FormatUint(v.num, 10)), nil
	case KindDouble:
		f := math.Float64frombits(v.num)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.Wrapf(errs.ErrInvalidJSON, "cannot render %v", f)
		}
		text := strconv.FormatFloat(f, 'g', -1, 64)
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			text = strconv.FormatFloat(f, 'f', 1, 64)
		}

		return scalar("!!float", text), nil
	case KindString:
		return scalar("!!str", v.str), nil
	case KindBytes:
		return scalar("!!binary", base64.StdEncoding.EncodeToString(v.raw)), nil
	case KindArray:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.arr {
			child, err := ToYAML(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}

		return seq, nil
	case KindObject:
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, member := range v.obj.All() {
			child, err := ToYAML(member)
			if err != nil {
				return nil, err
			}
			mapping.Content = append(mapping.Content, scalar("!!str", k), child)
		}

		return mapping, nil
	default:
		return nil, errors.Wrapf(errs.ErrInvalidJSON, "unknown kind %s", v.kind)
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
