// Package preview renders caption sets as WebVTT tracks so edits can be
// checked against the video before committing to a full render.
package preview
