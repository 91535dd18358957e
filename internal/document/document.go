// Package document defines the extraction output consumed by the
// narrative pipeline.
package document

import "image"

// Document is the immutable result of extracting one input: the linear
// text content plus any raster images found along the way. It lives for
// the duration of a single processing run and is never persisted.
type Document struct {
	Title  string
	Text   string
	Images []image.Image // figures and rasterized pages, in document order
}
