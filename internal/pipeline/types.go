package pipeline

// Token is one displayable chunk of a caption with its [StartMs, EndMs) window.
type Token struct {
	Text    string `json:"text"`
	StartMs int64  `json:"startMs"`
	EndMs   int64  `json:"endMs"`
}

// Caption represents one parsed subtitle cue.
type Caption struct {
	StartMs int64   `json:"startMs"`
	EndMs   int64   `json:"endMs"`
	Text    string  `json:"text"`
	Tokens  []Token `json:"tokens"`
}

// Page is a caption plus its tokens as consumed by the presentation layer.
type Page struct {
	Text       string  `json:"text"`
	StartMs    int64   `json:"startMs"`
	EndMs      int64   `json:"endMs"`
	DurationMs int64   `json:"durationMs"`
	Tokens     []Token `json:"tokens"`
}

// SkippedCue records a source block that was dropped as malformed.
type SkippedCue struct {
	Block  int // 1-based position of the block in the document
	Reason string
}

// ParseResult is the output of Parse.
type ParseResult struct {
	Captions []Caption
	Skipped  []SkippedCue
}
