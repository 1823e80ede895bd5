package cipher

import "strings"

// Format identifies an on-disk ciphertext generation.
type Format int

const (
	// FormatV1 is the legacy single-blob XOR encoding.
	FormatV1 Format = iota + 1
	// FormatV2 is the colon-segmented AES-CBC + HMAC encoding.
	FormatV2
)

func (f Format) String() string {
	switch f {
	case FormatV1:
		return "v1"
	case FormatV2:
		return "v2"
	default:
		return "unknown"
	}
}

// Classify reports the likely format of a stored blob. Any blob with two or
// more colon-delimited segments is V2-shaped; everything else is treated as
// V1. A V1 base64 blob cannot contain a colon under either base64 alphabet,
// but the heuristic stays a heuristic: fallback decryption retries the
// opposite format rather than trusting it.
func Classify(blob string) Format {
	if strings.Contains(blob, segmentSeparator) {
		return FormatV2
	}
	return FormatV1
}
