package display

// Segment bits, MAX7219 no-decode order: DP A B C D E F G.
//
//	 A
//	F B
//	 G
//	E C
//	 D
const (
	SegG uint8 = 1 << iota
	SegF
	SegE
	SegD
	SegC
	SegB
	SegA
	SegDP
)

// Blank turns every segment of a cell off.
const Blank uint8 = 0

// Equals is the "=" glyph used between a player label and a score.
const Equals uint8 = SegD | SegG

// Glyphs without an entry (D, K, M, V, W, X, Z and punctuation) render blank.
var font = map[rune]uint8{
	'0': 0b1111110,
	'1': 0b0110000,
	'2': 0b1101101,
	'3': 0b1111001,
	'4': 0b0110011,
	'5': 0b1011011,
	'6': 0b1011111,
	'7': 0b1110000,
	'8': 0b1111111,
	'9': 0b1111011,
	'A': 0b1110111,
	'B': 0b1111111,
	'C': 0b1001110,
	'E': 0b1001111,
	'F': 0b1000111,
	'G': 0b1011111,
	'H': 0b0110111,
	'I': 0b0110000,
	'J': 0b1111101,
	'L': 0b0001110,
	'N': 0b0010101,
	'O': 0b1111110,
	'P': 0b1100111,
	'Q': 0b1110011,
	'R': 0b0000101,
	'S': 0b1011011,
	'T': 0b0001111,
	'U': 0b0111110,
	'Y': 0b0100111,
	'=': Equals,
	// Lowercase forms that differ from their capitals.
	'c': 0b0001101,
	'i': 0b0010000,
}

// Encode returns the segment pattern for r.
func Encode(r rune) uint8 {
	if p, ok := font[r]; ok {
		return p
	}
	if r >= 'a' && r <= 'z' {
		if p, ok := font[r-'a'+'A']; ok {
			return p
		}
	}
	return Blank
}

// EncodeString encodes every rune of s, one cell per rune.
func EncodeString(s string) []uint8 {
	out := make([]uint8, 0, len(s))
	for _, r := range s {
		out = append(out, Encode(r))
	}
	return out
}

// Digit returns the pattern for a decimal digit, or Blank outside 0..9.
func Digit(n int) uint8 {
	if n < 0 || n > 9 {
		return Blank
	}
	return Encode(rune('0' + n))
}

// Decode returns a printable rune for a pattern: the first capital or digit
// sharing it, ' ' for Blank, '?' otherwise.
func Decode(p uint8) rune {
	if p == Blank {
		return ' '
	}
	for _, r := range "0123456789ACEFHJLNPQRTUY=ci" {
		if font[r] == p {
			return r
		}
	}
	return '?'
}
