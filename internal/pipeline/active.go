package pipeline

// FrameToMs converts a frame index to a playback time in milliseconds.
func FrameToMs(frame int, fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frame) * 1000 / fps
}

// ActiveToken returns the first token whose half-open window contains tMs.
// A time exactly on a boundary belongs to the later token.
func ActiveToken(page Page, tMs float64) (Token, bool) {
	for _, tok := range page.Tokens {
		if float64(tok.StartMs) <= tMs && tMs < float64(tok.EndMs) {
			return tok, true
		}
	}
	return Token{}, false
}

// ActivePages returns the pages whose caption span contains tMs.
func ActivePages(pages []Page, tMs float64) []Page {
	var active []Page
	for _, p := range pages {
		if float64(p.StartMs) <= tMs && tMs < float64(p.EndMs) {
			active = append(active, p)
		}
	}
	return active
}
