// Command noxsub is the CLI shell for the caption studio: it imports or
// fetches videos, drives caption generation against the transcription
// backend, edits captions and styling, and exports transcripts and rendered
// videos.
package main
