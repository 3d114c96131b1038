package serializer

// IRPCSerializer is the interface for all payload serializers.
// It converts between Go values (resources, lists of items, single items)
// and the textual payload carried inside a wire command or response.
type IRPCSerializer interface {
	// Serialize serializes a value into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(v any) ([]byte, error)
	// Deserialize deserializes a byte array into a value
	// It takes a byte array and a pointer to the target value as parameters
	// It returns an error if any
	Deserialize(b []byte, v any) error
}
