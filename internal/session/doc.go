// Package session runs caption-generation attempts against the transcription
// backend. A Controller owns at most one attempt at a time and walks it
// through connecting, uploading, and awaiting-result phases into exactly one
// terminal state, while a progress subscription and an elapsed ticker feed
// the snapshot consumed by the editing shell.
package session
