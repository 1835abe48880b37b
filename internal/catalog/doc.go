// Package catalog defines the draft record model shared by the stores, the
// artifact builder, and the packager.
//
// Records are built through NewRecord, which normalizes identifiers and
// checks the field schema, returning a ValidationError listing every failed
// field. Code downstream of the constructor may assume the schema holds.
package catalog
