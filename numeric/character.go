package numeric

// Character is a fixed-length string of code units of a given byte width
// (kind 1, 2 or 4). Code points are stored widened to int32 regardless of
// kind; kind only governs the ASCII-only cross-kind conversion rule below.
type Character struct {
	Kind  int
	Codes []int32
}

// NewCharacterFromString builds a kind-1 Character from a Go string.
func NewCharacterFromString(s string) Character {
	runes := []rune(s)
	codes := make([]int32, len(runes))
	for i, r := range runes {
		codes[i] = int32(r)
	}
	return Character{Kind: 1, Codes: codes}
}

// Len returns the character length.
func (a Character) Len() int { return len(a.Codes) }

// Concat returns a//b; the result length is the sum of the operand lengths.
func (a Character) Concat(b Character) Character {
	codes := make([]int32, 0, len(a.Codes)+len(b.Codes))
	codes = append(codes, a.Codes...)
	codes = append(codes, b.Codes...)
	return Character{Kind: a.Kind, Codes: codes}
}

// Substring extracts codes [lo,hi] inclusive, 1-based, Fortran style.
func (a Character) Substring(lo, hi int) Character {
	if lo < 1 {
		lo = 1
	}
	if hi > len(a.Codes) {
		hi = len(a.Codes)
	}
	if lo > hi {
		return Character{Kind: a.Kind}
	}
	codes := make([]int32, hi-lo+1)
	copy(codes, a.Codes[lo-1:hi])
	return Character{Kind: a.Kind, Codes: codes}
}

// Compare performs Fortran's blank-padded lexical comparison: the shorter
// operand is conceptually padded with blanks to the longer operand's length
// before comparing code point by code point.
func (a Character) Compare(b Character) Ordering {
	n := len(a.Codes)
	if len(b.Codes) > n {
		n = len(b.Codes)
	}
	for i := 0; i < n; i++ {
		ca, cb := int32(' '), int32(' ')
		if i < len(a.Codes) {
			ca = a.Codes[i]
		}
		if i < len(b.Codes) {
			cb = b.Codes[i]
		}
		if ca != cb {
			if ca < cb {
				return Less
			}
			return Greater
		}
	}
	return Equal
}

// SetLength truncates or blank-pads a to exactly n code units.
func (a Character) SetLength(n int) Character {
	if n <= len(a.Codes) {
		codes := make([]int32, n)
		copy(codes, a.Codes[:n])
		return Character{Kind: a.Kind, Codes: codes}
	}
	codes := make([]int32, n)
	copy(codes, a.Codes)
	for i := len(a.Codes); i < n; i++ {
		codes[i] = ' '
	}
	return Character{Kind: a.Kind, Codes: codes}
}

// ConvertKind converts a to a different character kind. The conversion
// succeeds only when every code point is 7-bit ASCII; otherwise ok is
// false and the Convert node folding must leave the operation unreduced.
func (a Character) ConvertKind(toKind int) (Character, bool) {
	for _, c := range a.Codes {
		if c > 127 {
			return Character{}, false
		}
	}
	codes := make([]int32, len(a.Codes))
	copy(codes, a.Codes)
	return Character{Kind: toKind, Codes: codes}, true
}

// String renders a as a Go string (for diagnostics and tests only).
func (a Character) String() string {
	runes := make([]rune, len(a.Codes))
	for i, c := range a.Codes {
		runes[i] = rune(c)
	}
	return string(runes)
}
