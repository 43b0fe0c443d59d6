package router

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the node as an object whose reserved keys hold the
// metadata and whose remaining keys are the children, in order:
//
//	{"$$route":true,"posts":{"$postId":{"$$route":true,"$$param":"postId"}}}
func (n *RouteNode) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	field := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if n.IsRoute {
		if err := field(RouteKey, true); err != nil {
			return nil, err
		}
	}
	if n.ParamName != "" {
		if err := field(ParamKey, n.ParamName); err != nil {
			return nil, err
		}
	}
	if n.ParamType != "" {
		if err := field(TypeKey, n.ParamType); err != nil {
			return nil, err
		}
	}
	if n.CatchAll {
		if err := field(CatchAllKey, true); err != nil {
			return nil, err
		}
	}
	for _, c := range n.children {
		if err := field(c.Key, c.Node); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the object form written by MarshalJSON, preserving
// the order of child keys.
func (n *RouteNode) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	decoded, err := decodeNode(dec)
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}

func decodeNode(dec *json.Decoder) (*RouteNode, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("route node: expected object, got %v", tok)
	}

	node := NewRouteNode()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("route node: expected key, got %v", tok)
		}

		if IsReservedKey(key) {
			if err := decodeMeta(dec, key, node); err != nil {
				return nil, err
			}
			continue
		}

		child, err := decodeNode(dec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		node.AddChild(key, child)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

func decodeMeta(dec *json.Decoder, key string, node *RouteNode) error {
	var err error
	switch key {
	case RouteKey:
		err = dec.Decode(&node.IsRoute)
	case ParamKey:
		err = dec.Decode(&node.ParamName)
	case TypeKey:
		err = dec.Decode(&node.ParamType)
	case CatchAllKey:
		err = dec.Decode(&node.CatchAll)
	}
	if err != nil {
		return fmt.Errorf("route node: %s: %w", key, err)
	}
	return nil
}
