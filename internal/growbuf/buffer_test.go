package growbuf

import "testing"

func TestBuffer_AppendGrows(t *testing.T) {
	var b Buffer
	b.Append([]byte("hello"))
	b.Append([]byte(" world"))
	if got, want := string(b.Bytes()), "hello world"; got != want {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}
	if b.Len() != 11 {
		t.Fatalf("Len() = %d, want 11", b.Len())
	}
}

func TestBuffer_AppendByte(t *testing.T) {
	var b Buffer
	for _, c := range []byte("abc") {
		b.AppendByte(c)
	}
	if got, want := string(b.Bytes()), "abc"; got != want {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}
}

func TestBuffer_GrowDoublesCapacityNotExactly(t *testing.T) {
	var b Buffer
	b.Grow(1)
	if cap(b.data) < 1 {
		t.Fatalf("Grow(1): cap = %d, want >= 1", cap(b.data))
	}
	firstCap := cap(b.data)
	b.Grow(firstCap + 1)
	if cap(b.data) < firstCap*2 {
		t.Fatalf("Grow past capacity should double, got cap %d from %d", cap(b.data), firstCap)
	}
}

func TestBuffer_ExtendReturnsStartAndZeroFills(t *testing.T) {
	var b Buffer
	b.Append([]byte("ab"))
	start := b.Extend(3)
	if start != 2 {
		t.Fatalf("Extend start = %d, want 2", start)
	}
	if b.Len() != 5 {
		t.Fatalf("Len() after Extend = %d, want 5", b.Len())
	}
	for i := start; i < b.Len(); i++ {
		if b.data[i] != 0 {
			t.Fatalf("Extend region not zero-filled at %d: %v", i, b.data[i])
		}
	}
}

func TestBuffer_ExtendSupportsSelfOverlappingCopy(t *testing.T) {
	// Simulates an LZ77 back-reference with distance 1: every newly
	// extended byte should be able to copy from the byte immediately
	// preceding it, even though that byte was written during this same
	// Extend call.
	var b Buffer
	b.Append([]byte("A"))
	start := b.Extend(4)
	buf := b.Bytes()
	src := start - 1
	for i := 0; i < 4; i++ {
		buf[start+i] = buf[src+i]
	}
	if got, want := string(b.Bytes()), "AAAAA"; got != want {
		t.Fatalf("Bytes() = %q, want %q", got, want)
	}
}
