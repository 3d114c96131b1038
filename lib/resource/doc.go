// Package resource defines the value type stored by uKV. A Resource is a tagged
// union that holds either a single entity or a list of entities of a
// caller-chosen payload type.
//
// The payload type T must be comparable. Equality between list elements (used
// by list removal) is Go's == operator, duplication is a plain value copy and
// serialization is done with encoding/json, so T should be a simple record
// with exported, json-tagged fields (e.g. Human).
//
// Wire and File Format:
//
//	The variant name is part of the contract and is preserved exactly:
//
//	  {"Single": {"name": "Alice"}}
//	  {"List":   [{"name": "Alice"}, {"name": "Bob"}]}
//
//	Exactly one of the two tags must be present when decoding. A list is
//	always encoded as a JSON array, an empty list as [].
//
// Usage Example:
//
//	humans := resource.NewList(resource.Human{Name: "Alice"})
//	switch humans.Kind() {
//	case resource.KindSingle:
//	    h, _ := humans.Single()
//	    // ...
//	case resource.KindList:
//	    items, _ := humans.List()
//	    // ...
//	}
package resource
