// Package benchmark compares pngdec's decode path against the standard
// library's image/png on a synthesized PNG fixture, and the zlib
// throughput of klauspost/compress against compress/zlib on that
// fixture's IDAT payload.
//
// Run with:
//
//	go test -bench=. -benchmem -count=3
package benchmark

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	stdpng "image/png"
	"io"
	"testing"

	"github.com/deepteams/pngdec"
	kzlib "github.com/klauspost/compress/zlib"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// testPNG is a synthesized RGBA gradient, built once in TestMain and
// reused by both full-decode benchmarks so pngdec and image/png see
// byte-identical input.
var testPNG []byte

// testIDAT is the concatenated, still-zlib-wrapped IDAT payload pulled
// out of testPNG, for isolating raw decompression throughput from
// scanline reconstruction.
var testIDAT []byte

func TestMain(m *testing.M) {
	const w, h = 256, 256
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.Set(x, y, color.RGBA{uint8(x), uint8(y), uint8(x ^ y), 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := stdpng.Encode(&buf, src); err != nil {
		panic("synthesizing fixture: " + err.Error())
	}
	testPNG = buf.Bytes()
	testIDAT = extractIDAT(testPNG)

	m.Run()
}

// extractIDAT walks a PNG's chunk stream and concatenates IDAT payloads,
// duplicating just enough of the container framing to isolate the
// compressed stream for a benchmark; it is not a parser this module
// otherwise exposes.
func extractIDAT(data []byte) []byte {
	pos := 8 // skip signature
	var idat []byte
	for pos+8 <= len(data) {
		length := binary.BigEndian.Uint32(data[pos : pos+4])
		typ := string(data[pos+4 : pos+8])
		body := data[pos+8 : pos+8+int(length)]
		if typ == "IDAT" {
			idat = append(idat, body...)
		}
		pos += 8 + int(length) + 4
		if typ == "IEND" {
			break
		}
	}
	return idat
}

func BenchmarkDecode_Pngdec(b *testing.B) {
	b.SetBytes(int64(len(testPNG)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pngdec.Decode(bytes.NewReader(testPNG)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode_StdlibImagePNG(b *testing.B) {
	b.SetBytes(int64(len(testPNG)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := stdpng.Decode(bytes.NewReader(testPNG)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInflate_Klauspost(b *testing.B) {
	b.SetBytes(int64(len(testIDAT)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, err := kzlib.NewReader(bytes.NewReader(testIDAT))
		if err != nil {
			b.Fatal(err)
		}
		if _, err := io.Copy(io.Discard, r); err != nil {
			b.Fatal(err)
		}
		r.Close()
	}
}

func BenchmarkInflate_StdlibZlib(b *testing.B) {
	b.SetBytes(int64(len(testIDAT)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, err := zlib.NewReader(bytes.NewReader(testIDAT))
		if err != nil {
			b.Fatal(err)
		}
		if _, err := io.Copy(io.Discard, r); err != nil {
			b.Fatal(err)
		}
		r.Close()
	}
}

// TestRenderComparisonLegend exercises golang.org/x/image/font and
// golang.org/x/image/draw by stamping a short legend onto a scratch
// image. x/image is bench/test scaffolding here, never decoder code.
func TestRenderComparisonLegend(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 40))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, 20),
	}
	label := fmt.Sprintf("pngdec vs stdlib: %d bytes", len(testPNG))
	d.DrawString(label)

	nonWhite := 0
	for _, px := range dst.Pix {
		if px != 0xFF {
			nonWhite++
		}
	}
	if nonWhite == 0 {
		t.Fatal("legend render left the canvas untouched")
	}
}
