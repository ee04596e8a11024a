// Package types defines the storage collaborator interfaces (Opener, Session,
// View, RowCursor), the descriptors and cell representation produced by the
// inspector, and the standard errors shared by every backend.
package types
