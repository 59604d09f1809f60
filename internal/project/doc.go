// Package project persists captioning workspaces in SQLite so a video's
// caption set, style, and transcription preferences survive between
// invocations. See schema.sql for the table layout; to change it, update
// schema.sql and bump schemaVersion.
package project
