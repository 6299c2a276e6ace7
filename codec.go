package blockdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Decode parses a persisted JSON document.
//   - Requires "type" on elements and "text" on leaves
//   - Captures unknown fields into Raw
//   - Does not normalize or semantically validate
func Decode(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, wrap("decode", "", err)
	}
	d, ok := tok.(json.Delim)
	if !ok || d != '[' {
		return nil, wrap("decode", "", fmt.Errorf("%w: expected '['", ErrUnexpectedToken))
	}

	doc := Document{}
	i := 0
	for dec.More() {
		var rm json.RawMessage
		if err := dec.Decode(&rm); err != nil {
			return nil, wrap("decode", fmt.Sprintf("[%d]", i), err)
		}
		obj, err := decodeObjectUseNumber(rm)
		if err != nil {
			return nil, wrap("node", fmt.Sprintf("[%d]", i), err)
		}
		n, err := parseNode(obj, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		doc = append(doc, n)
		i++
	}

	tok, err = dec.Token()
	if err != nil {
		return nil, wrap("decode", "", err)
	}
	d, ok = tok.(json.Delim)
	if !ok || d != ']' {
		return nil, wrap("decode", "", fmt.Errorf("%w: expected ']'", ErrUnexpectedToken))
	}

	return doc, nil
}

// DecodeString is a convenience wrapper for Decode.
func DecodeString(s string) (Document, error) {
	return Decode(strings.NewReader(s))
}

// DecodeValue parses a document from already-decoded generic JSON values.
func DecodeValue(v any) (Document, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, wrap("decode", "", ErrExpectedArray)
	}
	doc := make(Document, 0, len(arr))
	for i, item := range arr {
		path := fmt.Sprintf("[%d]", i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, wrap("node", path, ErrExpectedObject)
		}
		n, err := parseNode(obj, path)
		if err != nil {
			return nil, err
		}
		doc = append(doc, n)
	}
	return doc, nil
}

// Encode serializes the document to JSON.
// - Re-emits all known and unknown fields
// - Does not mutate the input document
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(doc.values())
}

// EncodeString is a convenience wrapper for Encode.
func EncodeString(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EncodeCBOR writes the document in CBOR, using the same field layout as JSON.
func EncodeCBOR(w io.Writer, doc Document) error {
	b, err := cbor.Marshal(cborValue(doc.values()))
	if err != nil {
		return wrap("encode", "", err)
	}
	_, err = w.Write(b)
	return err
}

// cborValue converts json.Number values, which CBOR would encode as strings.
func cborValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cborValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cborValue(e)
		}
		return out
	default:
		return v
	}
}

var cborDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// DecodeCBOR parses a document written by EncodeCBOR.
func DecodeCBOR(r io.Reader) (Document, error) {
	var v any
	if err := cborDecMode.NewDecoder(r).Decode(&v); err != nil {
		return nil, wrap("decode", "", err)
	}
	return DecodeValue(v)
}

// MarshalJSON emits the persisted shape of a node.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value())
}

// UnmarshalJSON parses a single persisted node.
func (n *Node) UnmarshalJSON(b []byte) error {
	obj, err := decodeObjectUseNumber(b)
	if err != nil {
		return wrap("node", "", err)
	}
	parsed, err := parseNode(obj, "")
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

//
// Parsing (path aware)
//

func parseNode(obj map[string]any, path string) (*Node, error) {
	t, hasType := obj["type"]
	if !hasType {
		return parseText(obj, path)
	}
	ts, ok := t.(string)
	if !ok || ts == "" {
		return nil, wrap("node", path, ErrInvalidType)
	}

	n := &Node{Type: NodeType(ts), Children: []*Node{}, Raw: map[string]any{}}
	for k, v := range obj {
		switch k {
		case "type":
		case "children":
			arr, ok := v.([]any)
			if !ok {
				return nil, wrap("node", path+".children", ErrExpectedArray)
			}
			for i, item := range arr {
				cpath := fmt.Sprintf("%s.children[%d]", path, i)
				cobj, ok := item.(map[string]any)
				if !ok {
					return nil, wrap("node", cpath, ErrExpectedObject)
				}
				c, err := parseNode(cobj, cpath)
				if err != nil {
					return nil, err
				}
				n.Children = append(n.Children, c)
			}
		case "level":
			i, ok := toInt(v)
			if !ok {
				return nil, wrap("node", path+".level", ErrInvalidNumber)
			}
			n.Level = i
		case "textAlign":
			s, ok := v.(string)
			if !ok {
				n.Raw[k] = v
				continue
			}
			n.TextAlign = Alignment(s)
		case "href":
			s, ok := v.(string)
			if !ok {
				n.Raw[k] = v
				continue
			}
			n.Href = s
		case "layout":
			arr, ok := v.([]any)
			if !ok {
				return nil, wrap("node", path+".layout", ErrExpectedArray)
			}
			n.Layout = make([]int, 0, len(arr))
			for _, item := range arr {
				i, ok := toInt(item)
				if !ok {
					return nil, wrap("node", path+".layout", ErrInvalidNumber)
				}
				n.Layout = append(n.Layout, i)
			}
		case "component":
			s, ok := v.(string)
			if !ok {
				n.Raw[k] = v
				continue
			}
			n.Component = s
		case "props":
			m, ok := v.(map[string]any)
			if !ok {
				return nil, wrap("node", path+".props", ErrExpectedObject)
			}
			n.Props = m
		case "propPath":
			arr, ok := v.([]any)
			if !ok {
				return nil, wrap("node", path+".propPath", ErrExpectedArray)
			}
			n.PropPath = normalizePropPath(arr)
		case "relationship":
			s, ok := v.(string)
			if !ok {
				n.Raw[k] = v
				continue
			}
			n.Relationship = s
		case "data":
			if v == nil {
				continue
			}
			d, err := parseRelationshipData(v, path+".data")
			if err != nil {
				return nil, err
			}
			n.Data = d
		default:
			n.Raw[k] = v
		}
	}
	if len(n.Raw) == 0 {
		n.Raw = nil
	}
	return n, nil
}

func parseText(obj map[string]any, path string) (*Node, error) {
	t, ok := obj["text"]
	if !ok {
		return nil, wrap("node", path, ErrMissingType)
	}
	ts, ok := t.(string)
	if !ok {
		return nil, wrap("text", path+".text", ErrInvalidText)
	}
	n := &Node{Text: ts}
	for k, v := range obj {
		if k == "text" {
			continue
		}
		if b, ok := v.(bool); ok && b && isKnownMark(Mark(k)) {
			n.SetMark(Mark(k), true)
			continue
		}
		if n.Raw == nil {
			n.Raw = map[string]any{}
		}
		n.Raw[k] = v
	}
	return n, nil
}

func parseRelationshipData(v any, path string) (*RelationshipData, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, wrap("node", path, ErrExpectedObject)
	}
	d := &RelationshipData{}
	switch id := m["id"].(type) {
	case string:
		d.ID = id
	case json.Number:
		d.ID = id.String()
	default:
		return nil, wrap("node", path+".id", ErrMissingID)
	}
	if l, ok := m["label"].(string); ok {
		d.Label = l
	}
	if dm, ok := m["data"].(map[string]any); ok {
		d.Data = dm
	}
	return d, nil
}

// normalizePropPath converts numeric path segments to int.
func normalizePropPath(arr []any) []any {
	out := make([]any, len(arr))
	for i, seg := range arr {
		if n, ok := toInt(seg); ok {
			out[i] = n
			continue
		}
		out[i] = seg
	}
	return out
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func decodeObjectUseNumber(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrExpectedObject
	}
	return obj, nil
}

//
// Persisted shape (re-emits Raw + known fields)
//

func (d Document) values() []any {
	out := make([]any, len(d))
	for i, n := range d {
		out[i] = n.value()
	}
	return out
}

func (n *Node) value() map[string]any {
	m := make(map[string]any, len(n.Raw)+8)
	for k, v := range n.Raw {
		m[k] = v
	}

	if n.IsText() {
		m["text"] = n.Text
		for _, mk := range n.Marks {
			m[string(mk)] = true
		}
		return m
	}

	m["type"] = string(n.Type)
	if n.Level != 0 {
		m["level"] = n.Level
	}
	if n.TextAlign != AlignStart {
		m["textAlign"] = string(n.TextAlign)
	}
	if n.Type == TypeLink || n.Href != "" {
		m["href"] = n.Href
	}
	if n.Layout != nil {
		m["layout"] = n.Layout
	}
	if n.Component != "" {
		m["component"] = n.Component
	}
	if n.Props != nil {
		m["props"] = n.Props
	}
	if n.PropPath != nil {
		m["propPath"] = n.PropPath
	}
	if n.Relationship != "" {
		m["relationship"] = n.Relationship
	}
	if n.Type == TypeRelationship {
		if n.Data != nil {
			d := map[string]any{"id": n.Data.ID}
			if n.Data.Label != "" {
				d["label"] = n.Data.Label
			}
			if n.Data.Data != nil {
				d["data"] = n.Data.Data
			}
			m["data"] = d
		} else {
			m["data"] = nil
		}
	}

	children := make([]any, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.value()
	}
	m["children"] = children
	return m
}
