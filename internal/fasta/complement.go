package fasta

var complement = map[byte]byte{
	'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A', 'U': 'A',
	'R': 'Y', 'Y': 'R',
	'S': 'S', 'W': 'W',
	'K': 'M', 'M': 'K',
	'B': 'V', 'V': 'B',
	'D': 'H', 'H': 'D',
	'N': 'N',
}

// Complement returns the base-paired complement strand of seq, aligned
// position by position (not reversed). Lowercase input is complemented to
// lowercase; unknown symbols become N.
func Complement(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		b := seq[i]
		lower := b >= 'a' && b <= 'z'
		if lower {
			b -= 'a' - 'A'
		}
		c, ok := complement[b]
		if !ok {
			c = 'N'
		}
		if lower {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// Slice returns seq[left..right] inclusive, or false when out of bounds.
func Slice(seq string, left, right int) (string, bool) {
	if left < 0 || right >= len(seq) || left > right {
		return "", false
	}
	return seq[left : right+1], true
}
