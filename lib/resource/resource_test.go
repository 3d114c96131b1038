package resource

import (
	"encoding/json"
	"testing"
)

func TestMarshalTags(t *testing.T) {
	testCases := []struct {
		name     string
		res      Resource[Human]
		expected string
	}{
		{
			name:     "single",
			res:      NewSingle(Human{Name: "Alice"}),
			expected: `{"Single":{"name":"Alice"}}`,
		},
		{
			name:     "list",
			res:      NewList(Human{Name: "Alice"}, Human{Name: "Bob"}),
			expected: `{"List":[{"name":"Alice"},{"name":"Bob"}]}`,
		},
		{
			name:     "empty list",
			res:      NewList[Human](),
			expected: `{"List":[]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.res)
			if err != nil {
				t.Fatalf("Failed to marshal: %v", err)
			}
			if string(data) != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, data)
			}
		})
	}
}

func TestMarshalZeroValue(t *testing.T) {
	var res Resource[Human]
	if _, err := json.Marshal(res); err == nil {
		t.Errorf("Expected an error when marshalling a resource without variant")
	}
}

func TestUnmarshal(t *testing.T) {
	var single Resource[Human]
	if err := json.Unmarshal([]byte(`{"Single": {"name": "Alice"}}`), &single); err != nil {
		t.Fatalf("Failed to unmarshal single: %v", err)
	}
	if h, ok := single.Single(); !ok || h.Name != "Alice" {
		t.Errorf("Expected Single(Alice), got %s", single)
	}

	var list Resource[Human]
	if err := json.Unmarshal([]byte(`{"List":[{"name":"Alice"},{"name":"Bob"}]}`), &list); err != nil {
		t.Fatalf("Failed to unmarshal list: %v", err)
	}
	if !list.Equal(NewList(Human{Name: "Alice"}, Human{Name: "Bob"})) {
		t.Errorf("Unexpected list: %s", list)
	}

	var empty Resource[Human]
	if err := json.Unmarshal([]byte(`{"List":[]}`), &empty); err != nil {
		t.Fatalf("Failed to unmarshal empty list: %v", err)
	}
	if items, ok := empty.List(); !ok || len(items) != 0 {
		t.Errorf("Expected empty list, got %s", empty)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	inputs := []string{
		`{bad json`,
		`null`,
		`{}`,
		`[]`,
		`"Single"`,
		`{"Single":{"name":"A"},"List":[]}`,
		`{"Many":[]}`,
		`{"single":{"name":"A"}}`,
		`{"List":null}`,
		`{"List":{"name":"A"}}`,
		`{"Single":[1,2]}`,
	}

	for _, input := range inputs {
		var res Resource[Human]
		if err := json.Unmarshal([]byte(input), &res); err == nil {
			t.Errorf("Expected error for %s, got %s", input, res)
		}
	}
}

func TestEqual(t *testing.T) {
	a := NewList(Human{Name: "Alice"}, Human{Name: "Bob"})
	if !a.Equal(NewList(Human{Name: "Alice"}, Human{Name: "Bob"})) {
		t.Errorf("Expected equal lists")
	}
	if a.Equal(NewList(Human{Name: "Bob"}, Human{Name: "Alice"})) {
		t.Errorf("Expected order to matter")
	}
	if NewSingle(Human{Name: "Alice"}).Equal(NewList(Human{Name: "Alice"})) {
		t.Errorf("Expected different variants to differ")
	}
	if !NewSingle(Human{Name: "Alice"}).Equal(NewSingle(Human{Name: "Alice"})) {
		t.Errorf("Expected equal singles")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	items := []Human{{Name: "Alice"}}
	original := NewList(items...)
	items[0].Name = "Mallory"

	clone := original.Clone()
	list, _ := clone.List()
	list[0].Name = "Eve"

	got, _ := original.List()
	if got[0].Name != "Alice" {
		t.Errorf("Expected original to stay unchanged, got %s", original)
	}
}

func TestAppend(t *testing.T) {
	res, err := NewList(Human{Name: "Alice"}).Append(Human{Name: "Bob"}, Human{Name: "Carol"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := NewList(Human{Name: "Alice"}, Human{Name: "Bob"}, Human{Name: "Carol"})
	if !res.Equal(expected) {
		t.Errorf("Expected %s, got %s", expected, res)
	}

	if _, err := NewSingle(Human{Name: "Alice"}).Append(Human{Name: "Bob"}); err == nil {
		t.Errorf("Expected error when appending to a single")
	}
}

func TestRemoveAll(t *testing.T) {
	res, removed, err := NewList(Human{Name: "Alice"}, Human{Name: "Bob"}, Human{Name: "Alice"}).RemoveAll(Human{Name: "Alice"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed elements, got %d", removed)
	}
	if !res.Equal(NewList(Human{Name: "Bob"})) {
		t.Errorf("Expected List([Bob]), got %s", res)
	}

	res, removed, err = res.RemoveAll(Human{Name: "Nobody"})
	if err != nil || removed != 0 || res.Len() != 1 {
		t.Errorf("Expected no-op removal, got %s (%d removed, err=%v)", res, removed, err)
	}

	if _, _, err := NewSingle(Human{Name: "Alice"}).RemoveAll(Human{Name: "Alice"}); err == nil {
		t.Errorf("Expected error when removing from a single")
	}
}

func TestEncodeJSONKeepsMarkup(t *testing.T) {
	testCases := []struct {
		value    any
		expected string
	}{
		{NewSingle(Human{Name: "<b>&"}), `{"Single":{"name":"<b>&"}}`},
		{NewList(Human{Name: "a>b"}), `{"List":[{"name":"a>b"}]}`},
		{map[string]Resource[Human]{"<k>": NewSingle(Human{Name: "&"})}, `{"<k>":{"Single":{"name":"&"}}}`},
	}

	for _, tc := range testCases {
		data, err := EncodeJSON(tc.value)
		if err != nil {
			t.Fatalf("EncodeJSON failed: %v", err)
		}
		if string(data) != tc.expected {
			t.Errorf("Expected %s, got %s", tc.expected, data)
		}
	}
}
