// Package store defines the record store boundary used by the repositories.
//
// A Store is addressed by table, reads through a declarative Query and scopes
// every write to an owner. Two implementations exist: store/memstore keeps rows
// in process and store/bunstore maps queries to SQL through bun. Both report a
// missing or foreign row as ErrNotFound so callers can tell it apart from any
// other failure.
package store
