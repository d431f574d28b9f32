package inflate

// lengthBase and lengthExtra are the standard DEFLATE length tables
// (RFC 1951, section 3.2.5), indexed by (symbol - 257).
var lengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtra = [29]int{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// distBase and distExtra are the standard DEFLATE distance tables.
var distBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distExtra = [30]int{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// codeLengthOrder is the order in which the 19 code-length code lengths
// are transmitted in a dynamic-Huffman block header.
var codeLengthOrder = [19]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// fixedLitLenLengths are the canonical lengths for BTYPE=1 blocks:
// symbols 0-143 get length 8, 144-255 get length 9, 256-279 get length 7,
// 280-287 get length 8.
var fixedLitLenLengths = buildFixedLitLenLengths()

func buildFixedLitLenLengths() []int {
	lengths := make([]int, numLitLenCodes)
	for i := 0; i <= 143; i++ {
		lengths[i] = 8
	}
	for i := 144; i <= 255; i++ {
		lengths[i] = 9
	}
	for i := 256; i <= 279; i++ {
		lengths[i] = 7
	}
	for i := 280; i <= 287; i++ {
		lengths[i] = 8
	}
	return lengths
}

// fixedDistLengths is the canonical fixed distance code: 32 symbols, each
// of length 5.
var fixedDistLengths = buildFixedDistLengths()

func buildFixedDistLengths() []int {
	lengths := make([]int, numDistCodes)
	for i := range lengths {
		lengths[i] = 5
	}
	return lengths
}

const (
	numLitLenCodes   = 288
	numDistCodes     = 32
	numCodeLenCodes  = 19
	maxLitLenBitLen  = 15
	maxDistBitLen    = 15
	maxCodeLenBitLen = 7
)
