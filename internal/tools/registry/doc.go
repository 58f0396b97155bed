// Package registry holds the static set of tools the server exposes.
//
// Tools are added to a Builder during startup and frozen with Build. Names
// are unique: a second registration of the same name fails with
// ErrDuplicateTool instead of replacing the first. The resulting Registry is
// read-only, so it can be shared by the dispatcher and the transport without
// locking.
package registry
