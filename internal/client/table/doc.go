// Package table derives paged table views from caller-owned record
// collections.
//
// A view is produced by a fixed pipeline: free-text search, column filters,
// sort, then pagination. Records are addressed by dot-paths ("address.city")
// described by a Schema and resolved with Lookup; unresolved paths behave as
// empty values and never fail. Nothing in this package mutates its input.
package table
