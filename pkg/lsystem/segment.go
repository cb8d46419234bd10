package lsystem

import "strings"

// ForwardsPerBatch is how many forward moves one call to [Segmenter.Next] covers.
const ForwardsPerBatch = 5

// Chunk is a contiguous slice of an expanded string that ends on a Forward,
// or at the end of the string, tagged with the grammar's turn angle.
type Chunk struct {
	Commands string  `json:"commands"`
	Angle    float64 `json:"angle"`
}

type segmenterState int

const (
	segmenterActive segmenterState = iota
	segmenterExhausted
)

// Segmenter walks an expanded string once, handing it out in batches of
// chunks. Once exhausted it stays exhausted; callers replace it with a new
// Segmenter over a freshly generated grammar.
type Segmenter struct {
	s     string
	angle float64
	pos   int
	state segmenterState
}

// NewSegmenter creates a segmenter over s. An empty s starts exhausted.
func NewSegmenter(s string, angle float64) *Segmenter {
	seg := &Segmenter{s: s, angle: angle}
	if s == "" {
		seg.state = segmenterExhausted
	}
	return seg
}

// Next returns the next batch: consecutive chunks covering up to
// ForwardsPerBatch forward moves. It returns false once the string has been
// fully handed out, and on every call after that.
func (s *Segmenter) Next() ([]Chunk, bool) {
	if s.state == segmenterExhausted {
		return nil, false
	}

	var batch []Chunk
	forwards := 0
	for s.pos < len(s.s) && forwards < ForwardsPerBatch {
		end := len(s.s)
		if i := strings.IndexByte(s.s[s.pos:], Forward); i >= 0 {
			end = s.pos + i + 1
			forwards++
		}
		batch = append(batch, Chunk{Commands: s.s[s.pos:end], Angle: s.angle})
		s.pos = end
	}

	if s.pos >= len(s.s) {
		s.state = segmenterExhausted
	}
	return batch, len(batch) > 0
}

// Exhausted reports whether the whole string has been handed out.
func (s *Segmenter) Exhausted() bool { return s.state == segmenterExhausted }

// Remaining returns the number of bytes not yet handed out.
func (s *Segmenter) Remaining() int { return len(s.s) - s.pos }
