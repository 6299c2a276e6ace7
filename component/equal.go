package component

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Equal compares two values of schema s. Array identity keys and
// relationship display fields are ignored.
func Equal(s Schema, a, b any) bool {
	switch x := s.(type) {
	case *Form:
		if x.Input == InputInteger {
			ai, aok := asInt(a)
			bi, bok := asInt(b)
			return aok == bok && ai == bi
		}
		if am, ok := a.([]string); ok {
			bm, ok := b.([]string)
			if !ok || len(am) != len(bm) {
				return false
			}
			for i := range am {
				if am[i] != bm[i] {
					return false
				}
			}
			return true
		}
		return a == b
	case *Object:
		am, _ := a.(map[string]any)
		bm, _ := b.(map[string]any)
		for _, f := range x.Fields {
			if f.Schema.Kind() == KindChild {
				continue
			}
			if !Equal(f.Schema, am[f.Name], bm[f.Name]) {
				return false
			}
		}
		return true
	case *Array:
		ae, _ := a.([]Element)
		be, _ := b.([]Element)
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !Equal(x.Element, ae[i].Value, be[i].Value) {
				return false
			}
		}
		return true
	case *Conditional:
		ac, _ := a.(ConditionalValue)
		bc, _ := b.(ConditionalValue)
		if ac.Discriminant != bc.Discriminant {
			return false
		}
		branch, ok := x.Branch(ac.Discriminant)
		return !ok || Equal(branch, ac.Value, bc.Value)
	case *Relationship:
		if x.Many {
			ar, _ := a.([]Ref)
			br, _ := b.([]Ref)
			if len(ar) != len(br) {
				return false
			}
			for i := range ar {
				if ar[i].ID != br[i].ID {
					return false
				}
			}
			return true
		}
		ar, _ := a.(*Ref)
		br, _ := b.(*Ref)
		if ar == nil || br == nil {
			return ar == nil && br == nil
		}
		return ar.ID == br.ID
	default:
		return true
	}
}

// Fingerprint returns a content hash of a schema, stable across processes.
func Fingerprint(s Schema) string {
	var b strings.Builder
	describe(&b, s)
	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}

func describe(b *strings.Builder, s Schema) {
	switch x := s.(type) {
	case *Form:
		fmt.Fprintf(b, "form(%s,%v,%t", x.Input, x.Default, x.Required)
		for _, o := range x.Options {
			fmt.Fprintf(b, ",%q", o.Value)
		}
		b.WriteString(")")
	case *Object:
		b.WriteString("object{")
		for _, f := range x.Fields {
			fmt.Fprintf(b, "%q:", f.Name)
			describe(b, f.Schema)
			b.WriteString(";")
		}
		b.WriteString("}")
	case *Array:
		b.WriteString("array[")
		describe(b, x.Element)
		b.WriteString("]")
	case *Conditional:
		b.WriteString("conditional(")
		describe(b, x.Discriminant)
		keys := make([]string, 0, len(x.Values))
		for k := range x.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, ",%q=", k)
			describe(b, x.Values[k])
		}
		b.WriteString(")")
	case *Relationship:
		fmt.Fprintf(b, "relationship(%q,%q,%t)", x.ListKey, x.Selection, x.Many)
	case *Child:
		fmt.Fprintf(b, "child(%s)", x.Slot)
	default:
		b.WriteString("nil")
	}
}
