package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyContent indicates text that produces no embeddable tokens.
	// Documents without a computable embedding are never persisted.
	ErrEmptyContent = errors.New("empty content")

	// ErrNotImplemented indicates functionality is not available in this build.
	ErrNotImplemented = errors.New("not implemented")

	// ErrDimensionMismatch indicates a vector whose length does not match
	// the configured embedding dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrVectorIndexUnavailable indicates a vector backend failed its
	// capability probe. The selector treats this as a signal to fall
	// through to the next tier; callers never see it.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrIndexClosed indicates an operation on a closed vector backend.
	ErrIndexClosed = errors.New("index closed")
)
