// Package backend is the HTTP client for the transcription and render
// backend: liveness probe, YouTube metadata lookup, server-side video
// download, produced-file retrieval, multipart transcription upload with a
// server-push progress stream, and multipart render upload.
package backend
