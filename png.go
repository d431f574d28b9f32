package pngdec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/deepteams/pngdec/internal/chunk"
	"github.com/deepteams/pngdec/internal/filter"
	"github.com/deepteams/pngdec/internal/inflate"
)

func init() {
	image.RegisterFormat("png", "\x89PNG\r\n\x1a\n", Decode, DecodeConfig)
}

var pngSignature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// Decoder is a reusable handle for decoding PNG images. The zero value
// is not ready to use; construct one with [NewDecoder]. A handle holds
// at most one decoded pixel buffer at a time: a second successful
// Decode replaces the first.
type Decoder struct {
	width     uint32
	height    uint32
	bitDepth  byte
	colorType ColorType

	buffer []byte

	err *DecodeError
}

// NewDecoder returns a fresh handle with a zeroed descriptor, default
// color type RGBA, depth 8, no pixel buffer, and no error.
func NewDecoder() *Decoder {
	return &Decoder{
		colorType: ColorRGBA,
		bitDepth:  8,
	}
}

// Err returns the error recorded by the most recent failed operation,
// or nil if the handle's last operation succeeded.
func (d *Decoder) Err() error {
	if d.err == nil {
		return nil
	}
	return d.err
}

// ErrSite returns the call site that raised the current error, or
// SiteNone if there is none.
func (d *Decoder) ErrSite() Site {
	if d.err == nil {
		return SiteNone
	}
	return d.err.Site
}

// Width returns the image width from the descriptor, valid after a
// successful Inspect or Decode.
func (d *Decoder) Width() int { return int(d.width) }

// Height returns the image height from the descriptor.
func (d *Decoder) Height() int { return int(d.height) }

// BPP returns bits per pixel: bit depth times channel count.
func (d *Decoder) BPP() int { return int(d.bitDepth) * d.colorType.channels() }

// Format returns the descriptor's coarse format tag, or FormatBad for
// any combination (including every 16-bit depth) outside the small set
// of formats this tag distinguishes.
func (d *Decoder) Format() Format { return formatFor(d.colorType, d.bitDepth) }

// Buffer returns the decoded pixel bytes from the most recent successful
// Decode, in the source color type and bit depth, verbatim. It returns
// nil if no successful Decode has run.
func (d *Decoder) Buffer() []byte { return d.buffer }

func (d *Decoder) fail(code ErrorCode, site Site, cause error) error {
	d.err = newError(code, site, cause)
	return d.err
}

func (d *Decoder) clearErr() {
	d.err = nil
}

// Inspect validates the PNG signature and IHDR chunk and fills the
// handle's descriptor. It does not walk the remaining chunks or touch
// pixel data.
func (d *Decoder) Inspect(data []byte) error {
	d.clearErr()

	if len(data) < 29 {
		return d.fail(NotPNG, SiteInspectTooShort, errors.New("input shorter than a minimal PNG (signature + IHDR)"))
	}
	if [8]byte(data[:8]) != pngSignature {
		return d.fail(NotPNG, SiteInspectSignature, errors.New("missing PNG signature"))
	}
	if string(data[12:16]) != "IHDR" {
		return d.fail(Malformed, SiteInspectIHDRType, errors.New("first chunk is not IHDR"))
	}

	hdr, err := chunk.ParseIHDR(data[16:29])
	if err != nil {
		if errors.Is(err, chunk.ErrUnsupportedCompression) {
			return d.fail(Unsupported, SiteInspectCompression, err)
		}
		return d.fail(Malformed, SiteInspectIHDRType, err)
	}

	ct := ColorType(hdr.ColorType)
	if !ct.validDepth(hdr.BitDepth) {
		return d.fail(Malformed, SiteInspectColorType, fmt.Errorf("color type %d does not support depth %d", hdr.ColorType, hdr.BitDepth))
	}

	d.width = hdr.Width
	d.height = hdr.Height
	d.bitDepth = hdr.BitDepth
	d.colorType = ct
	return nil
}

// Decode inspects data, walks its chunks, inflates the concatenated
// IDAT payload, reconstructs scanlines, and installs the resulting
// pixel buffer on success. On any failure the handle's buffer from a
// prior successful Decode, if any, is left untouched.
func (d *Decoder) Decode(data []byte) error {
	if err := d.Inspect(data); err != nil {
		return err
	}

	_, idat, err := chunk.Walk(data)
	if err != nil {
		code := Unsupported
		if !errors.Is(err, chunk.ErrUnsupportedCriticalChunk) {
			code = Malformed
		}
		return d.fail(code, SiteChunkWalk, err)
	}

	inflated, err := inflate.Inflate(idat)
	if err != nil {
		return d.fail(mapInflateErr(err), SiteInflate, err)
	}

	bpp := d.BPP()
	rowBytes := (d.Width()*bpp + 7) / 8
	recon, err := filter.Reconstruct(inflated, d.Width(), d.Height(), bpp, rowBytes)
	if err != nil {
		code := Malformed
		if errors.Is(err, filter.ErrUnknownFilterType) {
			code = Unsupported
		}
		return d.fail(code, SiteFilter, err)
	}

	if bpp < 8 && (d.Width()*bpp)%8 != 0 {
		recon = filter.Unpack(recon, d.Width(), d.Height(), bpp)
	}

	d.buffer = recon
	return nil
}

// DecodeFile reads path into memory in full, then calls Decode.
func (d *Decoder) DecodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return d.fail(NotFound, SiteDecodeFile, err)
	}
	return d.Decode(data)
}

func mapInflateErr(err error) ErrorCode {
	if errors.Is(err, inflate.ErrUnsupportedMethod) {
		return Unsupported
	}
	return Malformed
}

// readAll reads all of r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation replaces io.ReadAll's
// repeated doublings.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		if n := lr.Len(); n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// Decode reads a PNG image from r and returns it as an image.Image,
// for interop with the standard image package. Unlike [Decoder.Buffer],
// this widens sub-8-bit and 16-bit samples into one of the stdlib's
// fixed-depth image types; it is a convenience layer on top of the
// verbatim decode path, not a replacement for it.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("pngdec: reading data: %w", err)
	}
	d := NewDecoder()
	if err := d.Decode(data); err != nil {
		return nil, err
	}
	return d.toImage(), nil
}

// DecodeConfig returns the color model and dimensions of a PNG image
// without decoding pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("pngdec: reading data: %w", err)
	}
	d := NewDecoder()
	if err := d.Inspect(data); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.colorModel(),
		Width:      d.Width(),
		Height:     d.Height(),
	}, nil
}

func (d *Decoder) colorModel() color.Model {
	switch d.colorType {
	case ColorGrey:
		if d.bitDepth == 16 {
			return color.Gray16Model
		}
		return color.GrayModel
	case ColorRGB:
		if d.bitDepth == 16 {
			return color.RGBA64Model
		}
		return color.RGBAModel
	case ColorGreyAlpha:
		return color.NRGBAModel
	case ColorRGBA:
		if d.bitDepth == 16 {
			return color.NRGBA64Model
		}
		return color.NRGBAModel
	default:
		return color.RGBAModel
	}
}

// toImage widens d.buffer into a stdlib image.Image matching
// d.colorModel(). Sub-8-bit grayscale samples are scaled up to fill the
// 0-255 range; higher-depth samples are read big-endian, as PNG stores
// them.
func (d *Decoder) toImage() image.Image {
	w, h := d.Width(), d.Height()
	buf := d.buffer

	switch d.colorType {
	case ColorGrey:
		if d.bitDepth == 16 {
			img := image.NewGray16(image.Rect(0, 0, w, h))
			for i := 0; i < w*h; i++ {
				img.Pix[2*i] = buf[2*i]
				img.Pix[2*i+1] = buf[2*i+1]
			}
			return img
		}
		img := image.NewGray(image.Rect(0, 0, w, h))
		if d.bitDepth == 8 {
			copy(img.Pix, buf)
			return img
		}
		scale := byte(255 / (1<<uint(d.bitDepth) - 1))
		for i := 0; i < w*h; i++ {
			img.Pix[i] = sampleAt(buf, i, int(d.bitDepth)) * scale
		}
		return img

	case ColorRGB:
		if d.bitDepth == 16 {
			img := image.NewRGBA64(image.Rect(0, 0, w, h))
			for i := 0; i < w*h; i++ {
				src := buf[i*6 : i*6+6]
				dst := img.Pix[i*8 : i*8+8]
				copy(dst[0:2], src[0:2])
				copy(dst[2:4], src[2:4])
				copy(dst[4:6], src[4:6])
				dst[6], dst[7] = 0xFF, 0xFF
			}
			return img
		}
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for i := 0; i < w*h; i++ {
			img.Pix[i*4+0] = buf[i*3+0]
			img.Pix[i*4+1] = buf[i*3+1]
			img.Pix[i*4+2] = buf[i*3+2]
			img.Pix[i*4+3] = 0xFF
		}
		return img

	case ColorGreyAlpha:
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		if d.bitDepth == 16 {
			for i := 0; i < w*h; i++ {
				grey := buf[i*4]
				alpha := buf[i*4+2]
				img.Pix[i*4+0] = grey
				img.Pix[i*4+1] = grey
				img.Pix[i*4+2] = grey
				img.Pix[i*4+3] = alpha
			}
			return img
		}
		for i := 0; i < w*h; i++ {
			grey := buf[i*2]
			alpha := buf[i*2+1]
			img.Pix[i*4+0] = grey
			img.Pix[i*4+1] = grey
			img.Pix[i*4+2] = grey
			img.Pix[i*4+3] = alpha
		}
		return img

	case ColorRGBA:
		if d.bitDepth == 16 {
			img := image.NewNRGBA64(image.Rect(0, 0, w, h))
			copy(img.Pix, buf)
			return img
		}
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		copy(img.Pix, buf)
		return img

	default:
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}
}

// sampleAt extracts the idx-th bpp-bit sample from a contiguous,
// MSB-first, unpadded bitstream (the shape Decoder.Buffer holds for
// every accepted sub-8-bit depth).
func sampleAt(buf []byte, idx, bpp int) byte {
	bitPos := idx * bpp
	byteIdx := bitPos / 8
	shift := 8 - bpp - (bitPos % 8)
	mask := byte(1<<uint(bpp)) - 1
	return (buf[byteIdx] >> uint(shift)) & mask
}

// FeaturesOf inspects data without decoding pixels and reports its
// descriptor fields, for cheap metadata probing.
func FeaturesOf(r io.Reader) (width, height, bpp int, format Format, err error) {
	data, rerr := readAll(r)
	if rerr != nil {
		return 0, 0, 0, FormatBad, fmt.Errorf("pngdec: reading data: %w", rerr)
	}
	d := NewDecoder()
	if ierr := d.Inspect(data); ierr != nil {
		return 0, 0, 0, FormatBad, ierr
	}
	return d.Width(), d.Height(), d.BPP(), d.Format(), nil
}
