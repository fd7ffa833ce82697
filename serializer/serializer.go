// Package serializer defines the pluggable serialization boundary the
// core cache deliberately stays ignorant of (spec.md §6): a pair of pure
// functions converting between a user model type and a transport-neutral
// dictionary representation, mirroring the original's
// YMSerializationDelegate (modelFromJSONDictionary:/JSONDictionaryFromModel:).
package serializer

// Dict is the transport-neutral dictionary representation models are
// converted to and from. It corresponds to the original's NSDictionary
// boundary and to spec.md §6's "transport-neutral dictionary
// representation."
type Dict = map[string]any

// Serializer converts between a model of type V and Dict. Implementations
// must be pure: no side effects, no access to the cache itself.
type Serializer[V any] interface {
	// ToDict converts a model into its dictionary representation.
	ToDict(model V) (Dict, error)
	// FromDict reconstructs a model from its dictionary representation.
	FromDict(d Dict) (V, error)
}
