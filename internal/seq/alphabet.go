// Package seq provides the nucleotide alphabet, sequences and multiple
// sequence alignments used to train and query profile HMMs.
package seq

// Alphabet is the ordered set of RNA residues. Indices in this string
// correspond to indices in emission tables.
const Alphabet = "ACGU"

// Size is the number of residues in the alphabet.
const Size = len(Alphabet)

// Gap marks a position with no residue in an aligned sequence.
const Gap = '-'

// Index returns the alphabet index of residue b, or -1 if b is not a residue.
// Gaps are not residues.
func Index(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'U':
		return 3
	}
	return -1
}

// IsResidue returns true if b is one of A, C, G or U.
func IsResidue(b byte) bool {
	return Index(b) >= 0
}
