package icon

import (
	"image"
	"io"

	ico "github.com/sergeymakinen/go-ico"

	"example.com/dmztools/internal/apperr"
)

// Encode writes frames as one ICO container, in order. 256×256 frames are
// stored as PNG and smaller ones as 32 bit BMP with an AND mask, the layout
// Windows itself writes. Nothing reaches w when a frame is rejected.
func Encode(w io.Writer, frames []image.Image) error {
	if len(frames) == 0 {
		return apperr.Invalid("sizes", "no frames to write")
	}
	for _, fr := range frames {
		if b := fr.Bounds(); b.Dx() > MaxSize || b.Dy() > MaxSize {
			return apperr.Invalid("sizes", "frame %dx%d exceeds %d", b.Dx(), b.Dy(), MaxSize)
		}
	}
	if err := ico.EncodeAll(w, frames); err != nil {
		return &apperr.EncodingError{Op: "ico", Err: err}
	}
	return nil
}
