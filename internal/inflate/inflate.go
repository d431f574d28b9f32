// Package inflate implements a zlib-wrapped DEFLATE decompressor
// (RFC 1950 + RFC 1951), reconstructing the raw filtered-scanline stream
// held inside a PNG's concatenated IDAT payload.
//
// This is a from-scratch reimplementation rather than a thin wrapper
// around the standard library's compress/flate: it owns the bit-exact,
// adversarial-input-hardened inflator by hand rather than by delegating
// to a general-purpose compression library.
package inflate

import (
	"errors"
	"fmt"

	"github.com/deepteams/pngdec/internal/bitio"
	"github.com/deepteams/pngdec/internal/growbuf"
	"github.com/deepteams/pngdec/internal/huffman"
)

// Errors returned by Inflate. Callers at the pngdec level map these onto
// an ErrorCode in pngdec's mapInflateErr: ErrUnsupportedMethod becomes
// UNSUPPORTED and every other error becomes MALFORMED.
var (
	ErrHeaderTooShort     = errors.New("inflate: zlib header too short")
	ErrHeaderChecksum     = errors.New("inflate: bad zlib header checksum")
	ErrUnsupportedMethod  = errors.New("inflate: unsupported zlib compression method")
	ErrTruncated          = errors.New("inflate: truncated bitstream")
	ErrBadBlockType       = errors.New("inflate: invalid or reserved block type")
	ErrStoredLength       = errors.New("inflate: stored block LEN/NLEN mismatch")
	ErrBadDistanceSymbol  = errors.New("inflate: distance symbol out of range")
	ErrBadDistance        = errors.New("inflate: back-reference distance exceeds output length")
	ErrRepeatOverflow     = errors.New("inflate: code-length repeat overflows HLIT+HDIST")
	ErrMissingEndCode     = errors.New("inflate: literal/length code 256 has zero length")
	ErrInvalidLitLenCode  = errors.New("inflate: decoded literal/length code outside the defined alphabet")
)

// Inflate decompresses a zlib-wrapped DEFLATE stream and returns the
// decompressed payload. The trailing Adler-32 checksum is present in
// data but is never read or verified.
func Inflate(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, ErrHeaderTooShort
	}
	b0, b1 := data[0], data[1]
	if (int(b0)*256+int(b1))%31 != 0 {
		return nil, ErrHeaderChecksum
	}
	cm := b0 & 0x0F
	cinfo := (b0 >> 4) & 0x0F
	fdict := (b1 >> 5) & 0x01
	if cm != 8 || cinfo > 7 || fdict != 0 {
		return nil, ErrUnsupportedMethod
	}

	r := bitio.New(data[2:])
	var out growbuf.Buffer

	for {
		finalBit, ok := r.ReadBit()
		if !ok {
			return nil, ErrTruncated
		}
		btype, ok := r.ReadBits(2)
		if !ok {
			return nil, ErrTruncated
		}

		switch btype {
		case 0:
			if err := inflateStored(r, &out); err != nil {
				return nil, err
			}
		case 1:
			litlen, dist, err := fixedTables()
			if err != nil {
				return nil, err
			}
			if err := inflateSymbols(r, &out, litlen, dist); err != nil {
				return nil, err
			}
		case 2:
			litlen, dist, err := dynamicTables(r)
			if err != nil {
				return nil, err
			}
			if err := inflateSymbols(r, &out, litlen, dist); err != nil {
				return nil, err
			}
		default:
			return nil, ErrBadBlockType
		}

		if finalBit == 1 {
			break
		}
	}

	return out.Bytes(), nil
}

// readBitsWide reads n bits assembled LSB-first, composing multiple
// Reader.ReadBits calls of at most 7 bits each, since the bit reader's
// own primitive is bounded to n<=7 per call. The caller is responsible
// for wider fields (HLIT/HDIST/HCLEN, repeat counts, and length/distance
// extra bits, some of which need up to 13 bits).
func readBitsWide(r *bitio.Reader, n int) (int, bool) {
	value, shift := 0, 0
	for n > 0 {
		chunk := n
		if chunk > 7 {
			chunk = 7
		}
		v, ok := r.ReadBits(chunk)
		if !ok {
			return 0, false
		}
		value |= v << uint(shift)
		shift += chunk
		n -= chunk
	}
	return value, true
}

func inflateStored(r *bitio.Reader, out *growbuf.Buffer) error {
	r.AlignToByte()
	b0, ok := r.ReadAlignedByte()
	if !ok {
		return ErrTruncated
	}
	b1, ok := r.ReadAlignedByte()
	if !ok {
		return ErrTruncated
	}
	n0, ok := r.ReadAlignedByte()
	if !ok {
		return ErrTruncated
	}
	n1, ok := r.ReadAlignedByte()
	if !ok {
		return ErrTruncated
	}
	length := int(b0) + 256*int(b1)
	nlength := int(n0) + 256*int(n1)
	if length+nlength != 65535 {
		return ErrStoredLength
	}
	if r.Remaining() < length {
		return ErrTruncated
	}
	for i := 0; i < length; i++ {
		b, _ := r.ReadAlignedByte()
		out.AppendByte(b)
	}
	return nil
}

func fixedTables() (litlen, dist *huffman.Table, err error) {
	litlen, err = huffman.Build(fixedLitLenLengths, maxLitLenBitLen)
	if err != nil {
		return nil, nil, fmt.Errorf("inflate: fixed literal/length table: %w", err)
	}
	dist, err = huffman.Build(fixedDistLengths, maxDistBitLen)
	if err != nil {
		return nil, nil, fmt.Errorf("inflate: fixed distance table: %w", err)
	}
	return litlen, dist, nil
}

func dynamicTables(r *bitio.Reader) (litlen, dist *huffman.Table, err error) {
	hlitExtra, ok := readBitsWide(r, 5)
	if !ok {
		return nil, nil, ErrTruncated
	}
	hlit := hlitExtra + 257
	hdistExtra, ok := readBitsWide(r, 5)
	if !ok {
		return nil, nil, ErrTruncated
	}
	hdist := hdistExtra + 1
	hclenExtra, ok := readBitsWide(r, 4)
	if !ok {
		return nil, nil, ErrTruncated
	}
	hclen := hclenExtra + 4

	clLengths := make([]int, numCodeLenCodes)
	for i := 0; i < hclen; i++ {
		v, ok := readBitsWide(r, 3)
		if !ok {
			return nil, nil, ErrTruncated
		}
		clLengths[codeLengthOrder[i]] = v
	}

	clTable, err := huffman.Build(clLengths, maxCodeLenBitLen)
	if err != nil {
		return nil, nil, fmt.Errorf("inflate: code-length table: %w", err)
	}

	total := hlit + hdist
	lengths := make([]int, total)
	symbol := 0
	for symbol < total {
		sym, ok := clTable.Decode(r)
		if !ok {
			return nil, nil, ErrTruncated
		}
		switch {
		case sym <= 15:
			lengths[symbol] = sym
			symbol++
		case sym == 16:
			if symbol == 0 {
				return nil, nil, ErrRepeatOverflow
			}
			extra, ok := readBitsWide(r, 2)
			if !ok {
				return nil, nil, ErrTruncated
			}
			repeat := 3 + extra
			if symbol+repeat > total {
				return nil, nil, ErrRepeatOverflow
			}
			prev := lengths[symbol-1]
			for i := 0; i < repeat; i++ {
				lengths[symbol] = prev
				symbol++
			}
		case sym == 17:
			extra, ok := readBitsWide(r, 3)
			if !ok {
				return nil, nil, ErrTruncated
			}
			repeat := 3 + extra
			if symbol+repeat > total {
				return nil, nil, ErrRepeatOverflow
			}
			for i := 0; i < repeat; i++ {
				lengths[symbol] = 0
				symbol++
			}
		case sym == 18:
			extra, ok := readBitsWide(r, 7)
			if !ok {
				return nil, nil, ErrTruncated
			}
			repeat := 11 + extra
			if symbol+repeat > total {
				return nil, nil, ErrRepeatOverflow
			}
			for i := 0; i < repeat; i++ {
				lengths[symbol] = 0
				symbol++
			}
		default:
			return nil, nil, ErrInvalidLitLenCode
		}
	}

	litLens := lengths[:hlit]
	distLens := lengths[hlit:]

	if litLens[256] == 0 {
		return nil, nil, ErrMissingEndCode
	}

	litlen, err = huffman.Build(litLens, maxLitLenBitLen)
	if err != nil {
		return nil, nil, fmt.Errorf("inflate: literal/length table: %w", err)
	}
	dist, err = huffman.Build(distLens, maxDistBitLen)
	if err != nil {
		return nil, nil, fmt.Errorf("inflate: distance table: %w", err)
	}
	return litlen, dist, nil
}

func inflateSymbols(r *bitio.Reader, out *growbuf.Buffer, litlen, dist *huffman.Table) error {
	for {
		sym, ok := litlen.Decode(r)
		if !ok {
			return ErrTruncated
		}
		switch {
		case sym < 256:
			out.AppendByte(byte(sym))
		case sym == 256:
			return nil
		case sym <= 285:
			idx := sym - 257
			extra, ok := readBitsWide(r, lengthExtra[idx])
			if !ok {
				return ErrTruncated
			}
			length := lengthBase[idx] + extra

			dsym, ok := dist.Decode(r)
			if !ok {
				return ErrTruncated
			}
			if dsym > 29 {
				return ErrBadDistanceSymbol
			}
			dextra, ok := readBitsWide(r, distExtra[dsym])
			if !ok {
				return ErrTruncated
			}
			distance := distBase[dsym] + dextra

			if distance < 1 || distance > out.Len() {
				return ErrBadDistance
			}

			start := out.Extend(length)
			buf := out.Bytes()
			src := start - distance
			for i := 0; i < length; i++ {
				buf[start+i] = buf[src+i]
			}
		default:
			return ErrInvalidLitLenCode
		}
	}
}
