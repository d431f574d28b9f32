// Package pngdec implements a decoder for the PNG image format: a
// zlib-wrapped DEFLATE inflator, a per-scanline filter reconstructor,
// and the thin chunk walker and header inspector that drive them.
//
// Decoding never performs color-space conversion: [Decoder.Buffer]
// returns pixel samples in the source color type and bit depth,
// verbatim. Adam7 interlacing and ancillary chunk interpretation
// (palette, gamma, transparency, text) are not supported.
//
// Basic usage:
//
//	d := pngdec.NewDecoder()
//	if err := d.Decode(data); err != nil {
//		// inspect err's Code and Site
//	}
//	width, height, bpp := d.Width(), d.Height(), d.BPP()
//	pixels := d.Buffer()
//
// For interop with the standard image package, [Decode] and
// [DecodeConfig] are also registered against the "png" format name
// (shadowing image/png when this package is imported for side effects),
// producing stdlib image.Image values via an explicit sample-widening
// pass that is kept separate from the verbatim Decoder.Buffer path.
package pngdec
