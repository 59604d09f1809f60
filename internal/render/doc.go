// Package render produces the final captioned video. The heavy lifting
// happens on the backend; this package validates the request, drives the
// render call, and lands the produced file in the export directory without
// clobbering earlier exports.
package render
