package serializer

import (
	"github.com/ValentinKolb/uKV/lib/resource"
	"testing"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":       NewJSONSerializer,
	"StrictJSON": NewStrictJSONSerializer,
}

// testResources creates a set of resources with different shapes
func testResources() []resource.Resource[resource.Human] {
	return []resource.Resource[resource.Human]{
		resource.NewSingle(resource.Human{Name: "Alice"}),
		resource.NewSingle(resource.Human{Name: ""}),
		resource.NewList[resource.Human](),
		resource.NewList(resource.Human{Name: "Alice"}, resource.Human{Name: "Bob"}),
		resource.NewList(resource.Human{Name: "with space"}, resource.Human{Name: "ünïcödé"}),
	}
}

// TestSerializerRoundTrip tests that resources can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, res := range testResources() {
				data, err := serializer.Serialize(res)
				if err != nil {
					t.Errorf("Failed to serialize resource %d: %v", i, err)
					continue
				}

				var result resource.Resource[resource.Human]
				if err := serializer.Deserialize(data, &result); err != nil {
					t.Errorf("Failed to deserialize resource %d: %v", i, err)
					continue
				}

				if !res.Equal(result) {
					t.Errorf("Resource %d doesn't match after round trip:\nOriginal: %s\nResult: %s", i, res, result)
				}
			}
		})
	}
}

// TestSerializeKeepsMarkup tests that <, > and & are written verbatim
func TestSerializeKeepsMarkup(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			data, err := factory().Serialize(resource.NewSingle(resource.Human{Name: "<b>&"}))
			if err != nil {
				t.Fatalf("Failed to serialize: %v", err)
			}
			if expected := `{"Single":{"name":"<b>&"}}`; string(data) != expected {
				t.Errorf("Expected %s, got %s", expected, data)
			}
		})
	}
}

// TestDeserializeItems tests decoding of APPEND and REMOVE payloads
func TestDeserializeItems(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			var items []resource.Human
			if err := serializer.Deserialize([]byte(`[{"name":"Bob"},{"name":"Carol"}]`), &items); err != nil {
				t.Fatalf("Failed to deserialize items: %v", err)
			}
			if len(items) != 2 || items[0].Name != "Bob" || items[1].Name != "Carol" {
				t.Errorf("Unexpected items: %+v", items)
			}

			var item resource.Human
			if err := serializer.Deserialize([]byte(`{"name":"Alice"}`), &item); err != nil {
				t.Fatalf("Failed to deserialize item: %v", err)
			}
			if item.Name != "Alice" {
				t.Errorf("Unexpected item: %+v", item)
			}
		})
	}
}

// TestStrictJSONSerializer tests the additional checks of the strict serializer
func TestStrictJSONSerializer(t *testing.T) {
	lenient := NewJSONSerializer()
	strict := NewStrictJSONSerializer()

	testCases := []struct {
		name         string
		input        string
		lenientFails bool
		strictFails  bool
	}{
		{"valid", `{"name":"Alice"}`, false, false},
		{"unknown field", `{"name":"Alice","age":3}`, false, true},
		{"trailing value", `{"name":"Alice"} {"name":"Bob"}`, true, true},
		{"broken", `{"name":`, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var a, b resource.Human
			if err := lenient.Deserialize([]byte(tc.input), &a); (err != nil) != tc.lenientFails {
				t.Errorf("lenient: expected failure=%t, got err=%v", tc.lenientFails, err)
			}
			if err := strict.Deserialize([]byte(tc.input), &b); (err != nil) != tc.strictFails {
				t.Errorf("strict: expected failure=%t, got err=%v", tc.strictFails, err)
			}
		})
	}
}
