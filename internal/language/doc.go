// Package language validates and describes the language selectors accepted
// by the transcription backend.
package language
