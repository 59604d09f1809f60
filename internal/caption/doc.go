// Package caption holds the caption and style data model shared by the
// session controller, the editing shell, the preview renderer, and the
// export workflows, together with SRT serialization of the caption set.
package caption
