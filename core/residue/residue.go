// core/residue/residue.go
// Canonical amino-acid alphabet and the fixed per-residue tables every
// analysis reads from. Tables are package-level and never mutated.

package residue

import (
	"errors"
	"fmt"
	"unicode"
)

// Alphabet lists the 20 canonical residues.
const Alphabet = "ACDEFGHIKLMNPQRSTVWY"

var (
	ErrInvalidAlphabet = errors.New("invalid alphabet")
	ErrEmptySequence   = errors.New("empty sequence")
)

// AlphabetError reports the first non-canonical symbol of a sequence.
type AlphabetError struct {
	Pos  int // 1-based
	Char rune
}

func (e *AlphabetError) Error() string {
	return fmt.Sprintf("%v: %q at %d; allowed: %s", ErrInvalidAlphabet, e.Char, e.Pos, Alphabet)
}

func (e *AlphabetError) Unwrap() error { return ErrInvalidAlphabet }

// Kyte & Doolittle hydropathy.
var Hydropathy = map[byte]float64{
	'A': 1.8, 'R': -4.5, 'N': -3.5, 'D': -3.5, 'C': 2.5,
	'Q': -3.5, 'E': -3.5, 'G': -0.4, 'H': -3.2, 'I': 4.5,
	'L': 3.8, 'K': -3.9, 'M': 1.9, 'F': 2.8, 'P': -1.6,
	'S': -0.8, 'T': -0.7, 'W': -0.9, 'Y': -1.3, 'V': 4.2,
}

// Mass is the free amino-acid mass (Da) used for molecular-weight sums.
var Mass = map[byte]float64{
	'A': 89.1, 'R': 174.2, 'N': 132.1, 'D': 133.1, 'C': 121.2,
	'Q': 146.2, 'E': 147.1, 'G': 75.1, 'H': 155.2, 'I': 131.2,
	'L': 131.2, 'K': 146.2, 'M': 149.2, 'F': 165.2, 'P': 115.1,
	'S': 105.1, 'T': 119.1, 'W': 204.2, 'Y': 181.2, 'V': 117.1,
}

// Side-chain and terminal pKa values.
const (
	PKaNTerm = 8.0
	PKaCTerm = 3.1
)

// PKaBasic and PKaAcidic hold the ionizable side chains by charge sign.
var (
	PKaBasic  = map[byte]float64{'K': 10.0, 'R': 12.0, 'H': 6.0}
	PKaAcidic = map[byte]float64{'D': 4.0, 'E': 4.4, 'C': 8.5, 'Y': 10.0}
)

// Category sets.
const (
	Aromatic          = "FWY"
	Hydrophobic       = "AVILMFWC"
	Positive          = "RKH"
	Negative          = "DE"
	DisorderPromoting = "RKEPNDQSG"
	SignalHydrophobic = "AILMFWV"
	SmallNeutral      = "AGSTC"
	Titratable        = "KRHDECY"
)

var canonical [256]bool

func init() {
	for i := 0; i < len(Alphabet); i++ {
		canonical[Alphabet[i]] = true
	}
}

// IsCanonical reports whether b is one of the 20 canonical residues (upper case).
func IsCanonical(b byte) bool { return canonical[b] }

// In reports whether residue b belongs to the category set.
func In(set string, b byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == b {
			return true
		}
	}
	return false
}

// Count returns how many residues of seq belong to set.
func Count(seq, set string) int {
	n := 0
	for i := 0; i < len(seq); i++ {
		if In(set, seq[i]) {
			n++
		}
	}
	return n
}

// Normalize upper-cases ASCII a-z only. Every other byte, non-ASCII
// included, is left as is so Validate can reject it.
func Normalize(s string) string {
	out := []byte(s)
	for i, b := range out {
		if 'a' <= b && b <= 'z' {
			out[i] = b - 'a' + 'A'
		}
	}
	return string(out)
}

// Validate returns the normalized sequence or an *AlphabetError. The empty
// sequence is valid here; callers that need residues check ErrEmptySequence.
func Validate(raw string) (string, error) {
	s := Normalize(raw)
	for i, r := range s {
		if r > unicode.MaxASCII || !canonical[byte(r)] {
			return "", &AlphabetError{Pos: i + 1, Char: r}
		}
	}
	return s, nil
}

// ValidateNonEmpty is Validate plus the length>0 requirement.
func ValidateNonEmpty(raw string) (string, error) {
	if len(raw) == 0 {
		return "", ErrEmptySequence
	}
	return Validate(raw)
}
