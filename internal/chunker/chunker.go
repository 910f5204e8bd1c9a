// Package chunker splits raw listing text into overlapping fixed-size
// chunks suitable for embedding and retrieval.
package chunker

import (
	"regexp"
	"strings"
)

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

var (
	newlineRuns    = regexp.MustCompile(`\n+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Chunker produces character-bounded chunks where each chunk after the
// first repeats the trailing Overlap characters of its predecessor.
type Chunker struct {
	Size    int
	Overlap int
}

// New creates a Chunker, falling back to defaults for non-positive
// values and clamping the overlap below the chunk size.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= size {
		overlap = size - 1
	}
	return &Chunker{Size: size, Overlap: overlap}
}

// Normalize collapses newline runs into a single newline, then
// whitespace runs into a single space. Listing exports carry irregular
// formatting; without this, chunk boundaries land inside blank blocks.
func Normalize(text string) string {
	text = newlineRuns.ReplaceAllString(text, "\n")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Chunk normalizes text and splits it into chunks of at most c.Size
// characters. Size and overlap count runes, not bytes, so multi-byte
// text never splits mid-character. Returns nil for empty input; text
// shorter than the chunk size yields a single chunk.
func (c *Chunker) Chunk(text string) []string {
	runes := []rune(Normalize(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= c.Size {
		return []string{string(runes)}
	}

	step := c.Size - c.Overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + c.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
