// Package ymdict converts whole-cache snapshots to and from the
// per-key dictionary documents persistence.Controller writes to disk,
// using a serializer.Serializer[V] to convert each individual value.
// It exists so that neither serializer nor persistence needs to know
// about the other's map-of-maps document shape.
package ymdict

import (
	"fmt"

	"github.com/driftcache/driftcache/serializer"
)

// Encode converts a snapshot of cache entries into a document: a dict
// keyed by the original cache keys, each value the Dict produced by
// ser for that entry.
func Encode[V any](snapshot map[string]V, ser serializer.Serializer[V]) (map[string]serializer.Dict, error) {
	doc := make(map[string]serializer.Dict, len(snapshot))
	for key, value := range snapshot {
		d, err := ser.ToDict(value)
		if err != nil {
			return nil, fmt.Errorf("ymdict: encode %q: %w", key, err)
		}
		doc[key] = d
	}
	return doc, nil
}

// Decode is the inverse of Encode: it reconstructs a snapshot of
// entries from a document using ser to decode each individual value.
func Decode[V any](doc map[string]serializer.Dict, ser serializer.Serializer[V]) (map[string]V, error) {
	snapshot := make(map[string]V, len(doc))
	for key, d := range doc {
		v, err := ser.FromDict(d)
		if err != nil {
			return nil, fmt.Errorf("ymdict: decode %q: %w", key, err)
		}
		snapshot[key] = v
	}
	return snapshot, nil
}
