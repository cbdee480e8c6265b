package harness

// Normalize strips the first line of raw simulator output, including its
// terminator, and returns the rest.
//
// Lines end at "\n", "\r\n", or "\r". Input without any terminator is a
// single line and normalizes to an empty slice. The result never aliases
// raw.
//
// Normalize is not idempotent: apply it exactly once per captured output.
func Normalize(raw []byte) []byte {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\n':
			return clone(raw[i+1:])
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				return clone(raw[i+2:])
			}
			return clone(raw[i+1:])
		}
	}
	return []byte{}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
