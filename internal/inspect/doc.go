// Package inspect turns rows of an embedded object database into uniform,
// display-safe cells.
//
// The Inspector exposes four call-scoped operations: ListTables and
// ListColumns read the schema, CountRows and ScanRows read data. Every call
// opens its own session through a types.Opener and closes it before
// returning, including on failure. ScanRows drives the Formatter once per
// column per row; list columns are rendered with RenderCollection.
package inspect
