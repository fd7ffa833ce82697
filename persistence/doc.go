// Package persistence loads and saves a cache.Cache's contents to a JSON
// file on disk, mirroring the original YMCachePersistenceController: a
// controller that owns a cache, a serializer for its value type, and a
// file path, with an independent timer for periodic autosave.
package persistence
