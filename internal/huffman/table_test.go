package huffman

import (
	"testing"

	"github.com/deepteams/pngdec/internal/bitio"
)

// writeBitsMSBFirst appends bits of value (length n, MSB-first) to bits, matching
// the order DEFLATE packs Huffman codes in.
func writeBitsMSBFirst(bits *[]int, value, n int) {
	for i := n - 1; i >= 0; i-- {
		*bits = append(*bits, (value>>uint(i))&1)
	}
}

func packBits(bits []int) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		out[i/8] |= byte(b) << uint(i%8)
	}
	return out
}

func TestBuildAndDecode_RoundTrip(t *testing.T) {
	// Three symbols: lengths 1, 2, 2 (a valid complete code).
	lengths := []int{1, 2, 2}
	table, err := Build(lengths, 7)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Canonical codes: symbol0=0 (len1), symbol1=10 (len2), symbol2=11 (len2).
	var bits []int
	sequence := []int{0, 1, 2, 0, 2, 1}
	for _, sym := range sequence {
		switch sym {
		case 0:
			writeBitsMSBFirst(&bits, 0, 1)
		case 1:
			writeBitsMSBFirst(&bits, 2, 2)
		case 2:
			writeBitsMSBFirst(&bits, 3, 2)
		}
	}

	r := bitio.New(packBits(bits))
	for i, want := range sequence {
		got, ok := table.Decode(r)
		if !ok {
			t.Fatalf("symbol %d: decode failed", i)
		}
		if got != want {
			t.Errorf("symbol %d = %d, want %d", i, got, want)
		}
	}
}

func TestBuild_Oversubscribed(t *testing.T) {
	// Eight symbols with length 3 fill the code space exactly; a ninth
	// symbol with length 3 oversubscribes it.
	lengths := make([]int, 9)
	for i := range lengths {
		lengths[i] = 3
	}
	if _, err := Build(lengths, 7); err != ErrOversubscribed {
		t.Fatalf("Build() error = %v, want ErrOversubscribed", err)
	}
}

func TestBuild_TooLong(t *testing.T) {
	lengths := []int{16}
	if _, err := Build(lengths, 15); err != ErrTooLong {
		t.Fatalf("Build() error = %v, want ErrTooLong", err)
	}
}

func TestBuild_SingleSymbol(t *testing.T) {
	lengths := []int{0, 1, 0}
	table, err := Build(lengths, 7)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// The lone length-1 symbol gets canonical code 0, so a 0 bit decodes it.
	r := bitio.New([]byte{0x00})
	sym, ok := table.Decode(r)
	if !ok || sym != 1 {
		t.Fatalf("Decode() = %d, %v, want 1, true", sym, ok)
	}
}

func TestDecode_TruncatedStream(t *testing.T) {
	lengths := []int{1, 2, 2}
	table, _ := Build(lengths, 7)
	r := bitio.New(nil)
	if _, ok := table.Decode(r); ok {
		t.Fatalf("Decode() on empty stream should fail")
	}
}

func TestBuild_AllZeroLengths(t *testing.T) {
	lengths := make([]int, 5)
	table, err := Build(lengths, 7)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r := bitio.New([]byte{0xFF})
	if _, ok := table.Decode(r); ok {
		t.Fatalf("Decode() against an all-empty table should fail")
	}
}
