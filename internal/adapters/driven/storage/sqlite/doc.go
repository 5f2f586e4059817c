// Package sqlite provides the durable metadata store.
//
// Documents, their descriptive fields and their embeddings live in a
// single table, so the relationship between a record and its vector is
// guaranteed by the row itself rather than by cross-file bookkeeping.
// Schema changes are applied through embedded migrations at open time.
package sqlite
