// Package simd builds per-byte structural bitmaps (quote/separator/
// newline) over a CSV chunk with a byte-at-a-time loop that sets one bit
// per matching byte, for the scanner's configured separator byte. No
// assembly or word-at-a-time backend is built — every target uses
// this pure Go scan; golang.org/x/sys/cpu is consulted only for
// diagnostic reporting in cmd/breakdown, never to select a faster code
// path here.
package simd

// Scan populates quotes, seps, and newlines — each a bitmap with one
// bit per input byte, packed 64 bits per uint64 word — marking every
// occurrence of '"', sep, and '\n' respectively. Callers must
// pre-allocate each bitmap with length >= (len(input)+63)/64.
func Scan(input []byte, sep byte, quotes, seps, newlines []uint64) {
	for i, b := range input {
		word := i / 64
		bit := uint(i % 64)
		switch b {
		case '"':
			quotes[word] |= 1 << bit
		case sep:
			seps[word] |= 1 << bit
		case '\n':
			newlines[word] |= 1 << bit
		}
	}
}

// BitmapWords returns the number of uint64 words needed to hold one bit
// per byte of an input of length n.
func BitmapWords(n int) int { return (n + 63) / 64 }
