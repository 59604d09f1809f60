// Package editor hosts the editing shell for one project: caption and style
// mutations, generation and render guards, transcript exports, and
// persistence back to the project store. All caption writes funnel through
// the Editor so concurrent readers always see a consistent set.
package editor
