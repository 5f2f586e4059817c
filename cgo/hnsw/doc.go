// Package hnsw provides CGO bindings for HNSWlib.
// It implements the driven.VectorBackend interface as the middle tier:
// in-process approximate nearest-neighbour search, rebuilt from the
// metadata store at startup.
//
// Build requires:
//   - HNSWlib header (fetched via CMake FetchContent)
//   - C++17 compiler
//
// Non-CGO builds get a stub whose Ping reports unavailability, which
// makes the backend selector fall through to the brute-force tier.
package hnsw
