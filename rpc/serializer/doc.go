// Package serializer provides payload serialization for the uKV wire protocol.
// It defines a common interface for converting between Go values and the
// payload part of a text command (e.g. the JSON in `CREATE key {"Single":...}`)
// as well as the JSON document returned for successful reads.
//
// The package focuses on:
//   - Providing a consistent interface for payload encoding and decoding
//   - Keeping the dispatcher and the client independent of the concrete encoding
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - jsonSerializerImpl: Implementation using encoding/json. The default variant
//     (NewJSONSerializer) accepts any structurally valid JSON for the target type,
//     the strict variant (NewStrictJSONSerializer) additionally rejects unknown
//     object fields and trailing data.
//
// The wire protocol is text only, binary encodings are intentionally not offered.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s := serializer.NewJSONSerializer()
//	var res resource.Resource[resource.Human]
//	if err := s.Deserialize([]byte(payload), &res); err != nil {
//	    // "Invalid data format"
//	}
package serializer
