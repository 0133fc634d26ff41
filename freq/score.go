// Package freq ranks candidate plaintexts by English letter frequency and
// uses that ranking to break single-byte and repeating-key XOR.
package freq

// weights are per-character contributions to Score. Space ranks highest,
// letters follow corpus frequency, a little punctuation counts and
// everything else is worth nothing.
var weights = [256]float64{
	' ':  100.0,
	'.':  5.0,
	',':  5.0,
	'\'': 1.5,
	'e':  56.88,
	'a':  43.31,
	'r':  38.64,
	'i':  38.45,
	'o':  36.51,
	't':  35.43,
	'n':  33.92,
	's':  29.23,
	'l':  27.98,
	'c':  23.13,
	'u':  18.51,
	'd':  17.25,
	'p':  16.14,
	'm':  15.36,
	'h':  15.31,
	'g':  12.59,
	'b':  10.56,
	'f':  9.24,
	'y':  9.06,
	'w':  6.57,
	'k':  5.61,
	'v':  5.13,
	'x':  1.48,
	'z':  1.39,
	'j':  1.00,
	'q':  1.00,
}

// Score returns the mean per-character weight of text, case-insensitively.
// Higher is more English-like; empty text scores 0.
func Score(text []byte) float64 {
	if len(text) == 0 {
		return 0
	}

	var score float64
	for _, c := range text {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		score += weights[c]
	}
	return score / float64(len(text))
}
