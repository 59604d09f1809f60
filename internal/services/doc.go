// Package services provides the shared error taxonomy and context helpers
// used by the backend client, session controller, and export workflows.
//
// Errors raised inside a workflow are tagged with one of the exported
// sentinel markers (connectivity, transfer, parse, validation, cancelled) so
// the CLI boundary can map them to user-facing messages without inspecting
// error strings.
package services
