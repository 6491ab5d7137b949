// Package splitter segments normalised text into overlapping chunks for
// embedding and retrieval. Splitting prefers semantic boundaries: markdown
// section headings first, then paragraph breaks, line breaks and spaces,
// falling back to individual characters only when a segment still exceeds
// the chunk size at every coarser level.
package splitter

import (
	"strings"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of characters shared between
// consecutive chunks.
const DefaultOverlap = 100

// defaultSeparators is the boundary preference order. The empty string is
// the character-level fallback and must stay last.
var defaultSeparators = []string{"\n## ", "\n### ", "\n\n", "\n", " ", ""}

// Splitter splits text into overlapping chunks along semantic boundaries.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultOverlap,
		separators: defaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave room for new content in every chunk.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured maximum chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split segments text into chunks of at most the configured size.
// Consecutive chunks share trailing/leading context of up to the configured
// overlap. Text no longer than the chunk size yields exactly one chunk;
// empty text yields nil. Splitting is deterministic: identical input and
// parameters always produce the identical chunk sequence.
func (s *Splitter) Split(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	pieces := s.splitRecursive(text, s.separators)
	merged := s.merge(pieces)

	chunks := make([]domain.Chunk, len(merged))
	for i, m := range merged {
		chunks[i] = domain.Chunk{Text: m, Position: i}
	}
	return chunks
}

// splitRecursive splits text into pieces no longer than chunkSize, trying
// each separator in preference order and descending to a finer separator
// only for pieces that still exceed the size.
func (s *Splitter) splitRecursive(text string, separators []string) []string {
	if runeLen(text) <= s.chunkSize {
		return []string{text}
	}

	// Pick the first separator that occurs in this text. The final ""
	// entry always matches and splits by characters.
	sep := ""
	rest := []string{}
	for i, candidate := range separators {
		if candidate == "" {
			sep = candidate
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return splitRunes(text, s.chunkSize)
	}

	var pieces []string
	for _, part := range splitKeepSeparator(text, sep) {
		if runeLen(part) <= s.chunkSize {
			pieces = append(pieces, part)
		} else {
			pieces = append(pieces, s.splitRecursive(part, rest)...)
		}
	}
	return pieces
}

// merge greedily joins pieces into chunks bounded by chunkSize, carrying
// trailing context from the previous chunk into the next. The carry is the
// configured overlap except when a piece nearly fills the chunk on its own,
// in which case the carry shrinks so the size bound always holds.
func (s *Splitter) merge(pieces []string) []string {
	var (
		out []string
		buf strings.Builder
		n   int // rune length of buf
	)

	flush := func(next string) {
		chunk := buf.String()
		out = append(out, chunk)
		buf.Reset()
		n = 0

		carry := s.overlap
		if room := s.chunkSize - runeLen(next); room < carry {
			carry = room
		}
		if carry > 0 {
			tail := tailRunes(chunk, carry)
			buf.WriteString(tail)
			n = runeLen(tail)
		}
	}

	for _, piece := range pieces {
		pl := runeLen(piece)
		if n > 0 && n+pl > s.chunkSize {
			flush(piece)
		}
		buf.WriteString(piece)
		n += pl
	}

	if n > 0 {
		out = append(out, buf.String())
	}

	return out
}

// splitKeepSeparator splits text on sep, attaching the separator to the
// start of the following piece so that concatenating all pieces yields the
// original text exactly. Empty pieces are dropped.
func splitKeepSeparator(text, sep string) []string {
	segs := strings.Split(text, sep)
	pieces := make([]string, 0, len(segs))
	for i, seg := range segs {
		if i > 0 {
			seg = sep + seg
		}
		if seg != "" {
			pieces = append(pieces, seg)
		}
	}
	return pieces
}

// splitRunes splits text into consecutive pieces of at most size runes.
func splitRunes(text string, size int) []string {
	runes := []rune(text)
	pieces := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}

// tailRunes returns the trailing n runes of text.
func tailRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}

func runeLen(s string) int {
	return len([]rune(s))
}
