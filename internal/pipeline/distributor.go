package pipeline

import "math"

// Distribute splits [startMs, endMs) evenly across chunks. Boundaries are
// floored from a real-valued per-chunk duration so tokens stay contiguous,
// and the last token always ends exactly at endMs. No chunks yields no tokens.
func Distribute(startMs, endMs int64, chunks []string) []Token {
	if len(chunks) == 0 {
		return nil
	}

	perChunk := float64(endMs-startMs) / float64(len(chunks))
	tokens := make([]Token, len(chunks))
	for i, chunk := range chunks {
		tokens[i] = Token{
			Text:    chunk,
			StartMs: startMs + int64(math.Floor(float64(i)*perChunk)),
			EndMs:   startMs + int64(math.Floor(float64(i+1)*perChunk)),
		}
	}
	tokens[len(tokens)-1].EndMs = endMs
	return tokens
}
