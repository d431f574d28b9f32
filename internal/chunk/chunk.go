// Package chunk walks a PNG container's chunk stream: it validates the
// 8-byte signature, parses IHDR, concatenates IDAT payloads in file
// order, and stops at IEND.
//
// Grounded on the chunk state machine in
// other_examples/697665f8_fumin-png__reader.go.go (a stdlib-derived PNG
// reader): chunk length/type/CRC framing, the ancillary-bit check for
// unrecognized chunk types, and returning a dedicated error type rather
// than a bare string for malformed structure. CRC verification itself is
// intentionally dropped, matching upng.c's own decoder, which never
// spends a pass validating checksums during decode.
package chunk

import (
	"encoding/binary"
	"errors"

	"github.com/deepteams/pngdec/internal/growbuf"
)

var pngSignature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// Errors returned while walking a chunk stream.
var (
	ErrBadSignature             = errors.New("chunk: missing or corrupt PNG signature")
	ErrMalformed                = errors.New("chunk: malformed chunk structure")
	ErrUnsupportedCriticalChunk = errors.New("chunk: unrecognized critical chunk")
	ErrDuplicateIHDR            = errors.New("chunk: duplicate IHDR chunk")
	ErrIDATBeforeIHDR           = errors.New("chunk: IDAT chunk before IHDR")
	ErrMissingIHDR              = errors.New("chunk: missing IHDR chunk")
	ErrMissingIEND              = errors.New("chunk: missing IEND chunk")
	ErrBadIHDRLength            = errors.New("chunk: IHDR chunk has the wrong length")
	ErrUnsupportedCompression   = errors.New("chunk: unsupported IHDR compression/filter/interlace method")
)

// maxChunkLength bounds an individual chunk's declared length so that
// pos+length+4 (CRC) can't wrap around when added to the walk cursor.
const maxChunkLength = 1 << 31

// IHDR holds the fields of a parsed IHDR chunk, validated only for
// structural well-formedness (width/height nonzero, compression/filter/
// interlace methods all zero). Whether BitDepth and ColorType form a
// legal combination is the caller's concern (see pngdec.Format).
type IHDR struct {
	Width             uint32
	Height            uint32
	BitDepth          byte
	ColorType         byte
	CompressionMethod byte
	FilterMethod      byte
	InterlaceMethod   byte
}

// ParseIHDR decodes the 13-byte IHDR chunk body.
func ParseIHDR(data []byte) (IHDR, error) {
	if len(data) != 13 {
		return IHDR{}, ErrBadIHDRLength
	}
	hdr := IHDR{
		Width:             binary.BigEndian.Uint32(data[0:4]),
		Height:            binary.BigEndian.Uint32(data[4:8]),
		BitDepth:          data[8],
		ColorType:         data[9],
		CompressionMethod: data[10],
		FilterMethod:      data[11],
		InterlaceMethod:   data[12],
	}
	if hdr.Width == 0 || hdr.Height == 0 {
		return IHDR{}, ErrMalformed
	}
	if hdr.CompressionMethod != 0 || hdr.FilterMethod != 0 || hdr.InterlaceMethod != 0 {
		return IHDR{}, ErrUnsupportedCompression
	}
	return hdr, nil
}

// Walk validates the PNG signature and walks the chunk stream, returning
// the parsed IHDR and the concatenation of every IDAT chunk's payload in
// file order. CRCs are read past but never checked.
func Walk(data []byte) (IHDR, []byte, error) {
	if len(data) < 8 || [8]byte(data[:8]) != pngSignature {
		return IHDR{}, nil, ErrBadSignature
	}

	var hdr IHDR
	haveIHDR := false
	var idat growbuf.Buffer
	pos := 8

	for pos < len(data) {
		if len(data)-pos < 8 {
			return IHDR{}, nil, ErrMalformed
		}
		length := binary.BigEndian.Uint32(data[pos : pos+4])
		if length >= maxChunkLength {
			return IHDR{}, nil, ErrMalformed
		}
		typ := data[pos+4 : pos+8]
		pos += 8

		end := pos + int(length)
		if end < pos || end+4 > len(data) {
			return IHDR{}, nil, ErrMalformed
		}
		body := data[pos:end]
		pos = end + 4 // skip the CRC, unverified

		switch string(typ) {
		case "IHDR":
			if haveIHDR {
				return IHDR{}, nil, ErrDuplicateIHDR
			}
			h, err := ParseIHDR(body)
			if err != nil {
				return IHDR{}, nil, err
			}
			hdr, haveIHDR = h, true
		case "IDAT":
			if !haveIHDR {
				return IHDR{}, nil, ErrIDATBeforeIHDR
			}
			idat.Append(body)
		case "IEND":
			if !haveIHDR {
				return IHDR{}, nil, ErrMissingIHDR
			}
			return hdr, idat.Bytes(), nil
		default:
			// bit 5 (0x20) of the first type byte is PNG's ancillary bit:
			// clear means the chunk is critical and an unrecognized
			// decoder must refuse it.
			if typ[0]&0x20 == 0 {
				return IHDR{}, nil, ErrUnsupportedCriticalChunk
			}
		}
	}

	return IHDR{}, nil, ErrMissingIEND
}
