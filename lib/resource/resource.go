package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Kind
// --------------------------------------------------------------------------

// Kind is the discriminant of a Resource
type Kind uint8

const (
	KindInvalid Kind = iota // zero value, no variant set
	KindSingle              // a single entity
	KindList                // an ordered list of entities
)

// tag names used in the serialized form
const (
	tagSingle = "Single"
	tagList   = "List"
)

// String returns the serialized tag name of the kind
func (k Kind) String() string {
	switch k {
	case KindSingle:
		return tagSingle
	case KindList:
		return tagList
	default:
		return "Invalid"
	}
}

// --------------------------------------------------------------------------
// Resource
// --------------------------------------------------------------------------

// Resource is a tagged union holding either one T (Single) or a list of T (List).
// The zero value has no variant and can not be serialized.
type Resource[T comparable] struct {
	kind   Kind
	single T
	list   []T
}

// NewSingle creates a Single resource
func NewSingle[T comparable](value T) Resource[T] {
	return Resource[T]{kind: KindSingle, single: value}
}

// NewList creates a List resource. The items are copied.
func NewList[T comparable](items ...T) Resource[T] {
	list := make([]T, len(items))
	copy(list, items)
	return Resource[T]{kind: KindList, list: list}
}

// Kind returns the variant of the resource
func (r Resource[T]) Kind() Kind {
	return r.kind
}

// Single returns the entity of a Single resource.
// The boolean is false if the resource is not a Single.
func (r Resource[T]) Single() (T, bool) {
	if r.kind != KindSingle {
		var zero T
		return zero, false
	}
	return r.single, true
}

// List returns a copy of the entities of a List resource.
// The boolean is false if the resource is not a List.
func (r Resource[T]) List() ([]T, bool) {
	if r.kind != KindList {
		return nil, false
	}
	out := make([]T, len(r.list))
	copy(out, r.list)
	return out, true
}

// Len returns the number of entities held by the resource (1 for Single)
func (r Resource[T]) Len() int {
	switch r.kind {
	case KindSingle:
		return 1
	case KindList:
		return len(r.list)
	default:
		return 0
	}
}

// Equal reports whether both resources have the same variant and equal content
func (r Resource[T]) Equal(other Resource[T]) bool {
	if r.kind != other.kind {
		return false
	}
	switch r.kind {
	case KindSingle:
		return r.single == other.single
	case KindList:
		if len(r.list) != len(other.list) {
			return false
		}
		for i := range r.list {
			if r.list[i] != other.list[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Clone returns a deep copy of the resource (the list backing array is not shared)
func (r Resource[T]) Clone() Resource[T] {
	if r.kind == KindList {
		return NewList(r.list...)
	}
	return r
}

// Append returns a List resource with items added at the tail.
// It fails if the resource is not a List.
func (r Resource[T]) Append(items ...T) (Resource[T], error) {
	if r.kind != KindList {
		return r, fmt.Errorf("resource: append on %s", r.kind)
	}
	list := make([]T, 0, len(r.list)+len(items))
	list = append(list, r.list...)
	list = append(list, items...)
	return Resource[T]{kind: KindList, list: list}, nil
}

// RemoveAll returns a List resource without any element equal to item and the
// number of removed elements. It fails if the resource is not a List.
func (r Resource[T]) RemoveAll(item T) (Resource[T], int, error) {
	if r.kind != KindList {
		return r, 0, fmt.Errorf("resource: remove on %s", r.kind)
	}
	list := make([]T, 0, len(r.list))
	for _, v := range r.list {
		if v != item {
			list = append(list, v)
		}
	}
	return Resource[T]{kind: KindList, list: list}, len(r.list) - len(list), nil
}

// String returns a human-readable representation of the resource
func (r Resource[T]) String() string {
	switch r.kind {
	case KindSingle:
		return fmt.Sprintf("Single(%v)", r.single)
	case KindList:
		return fmt.Sprintf("List(%v)", r.list)
	default:
		return "Invalid"
	}
}

// --------------------------------------------------------------------------
// JSON
// --------------------------------------------------------------------------

// EncodeJSON encodes v like json.Marshal but leaves <, > and & unescaped,
// so stored names are written exactly as they were sent
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encode terminates every value with a newline
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalJSON implements json.Marshaler with an externally tagged encoding
func (r Resource[T]) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case KindSingle:
		return EncodeJSON(map[string]T{tagSingle: r.single})
	case KindList:
		list := r.list
		if list == nil {
			list = []T{}
		}
		return EncodeJSON(map[string][]T{tagList: list})
	default:
		return nil, fmt.Errorf("resource: can not marshal resource without variant")
	}
}

// UnmarshalJSON implements json.Unmarshaler. Exactly one tag must be present.
func (r *Resource[T]) UnmarshalJSON(data []byte) error {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if tagged == nil {
		return fmt.Errorf("resource: expected object, got null")
	}
	if len(tagged) != 1 {
		return fmt.Errorf("resource: expected exactly one of %q or %q, got %d fields", tagSingle, tagList, len(tagged))
	}

	for tag, raw := range tagged {
		switch tag {
		case tagSingle:
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("resource: invalid %s: %w", tagSingle, err)
			}
			*r = Resource[T]{kind: KindSingle, single: v}
		case tagList:
			if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
				return fmt.Errorf("resource: invalid %s: null", tagList)
			}
			var list []T
			if err := json.Unmarshal(raw, &list); err != nil {
				return fmt.Errorf("resource: invalid %s: %w", tagList, err)
			}
			if list == nil {
				list = []T{}
			}
			*r = Resource[T]{kind: KindList, list: list}
		default:
			return fmt.Errorf("resource: unknown variant %q", tag)
		}
	}
	return nil
}
