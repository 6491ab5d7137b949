package splitter

import (
	"strings"
	"testing"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s := New()
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, s.chunkSize)
		}
		if s.overlap != DefaultOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultOverlap, s.overlap)
		}
	})

	t.Run("custom sizes", func(t *testing.T) {
		s := New(WithChunkSize(500), WithOverlap(50))
		if s.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", s.chunkSize)
		}
		if s.overlap != 50 {
			t.Errorf("expected overlap 50, got %d", s.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		s := New(WithChunkSize(100), WithOverlap(150))
		if s.overlap >= s.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		s := New(WithChunkSize(0), WithOverlap(-1))
		if s.chunkSize != DefaultChunkSize || s.overlap != DefaultOverlap {
			t.Errorf("expected defaults, got size=%d overlap=%d", s.chunkSize, s.overlap)
		}
	})
}

func TestSplit_Empty(t *testing.T) {
	s := New()
	if chunks := s.Split(""); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestSplit_SingleChunk(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(20))
	text := "This fits comfortably in one chunk."

	chunks := s.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("expected chunk text to equal input, got %q", chunks[0].Text)
	}
	if chunks[0].Position != 0 {
		t.Errorf("expected position 0, got %d", chunks[0].Position)
	}
}

func TestSplit_SizeBound(t *testing.T) {
	s := New(WithChunkSize(50), WithOverlap(10))
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)

	for _, c := range s.Split(text) {
		if n := len([]rune(c.Text)); n > 50 {
			t.Errorf("chunk %d exceeds size bound: %d runes", c.Position, n)
		}
	}
}

func TestSplit_LongWordFallsBackToCharacters(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(2))
	text := strings.Repeat("x", 35)

	chunks := s.Split(text)
	if len(chunks) < 4 {
		t.Fatalf("expected at least 4 chunks for a 35-char token at size 10, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c.Text) > 10 {
			t.Errorf("chunk %d exceeds size bound: %d chars", c.Position, len(c.Text))
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := New(WithChunkSize(80), WithOverlap(15))
	text := "# Heading\n\nFirst paragraph with several words.\n\nSecond paragraph, also with words.\nA line.\n\nThird paragraph ends here."

	a := s.Split(text)
	b := s.Split(text)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_Positions(t *testing.T) {
	s := New(WithChunkSize(30), WithOverlap(5))
	text := strings.Repeat("alpha beta gamma delta epsilon ", 10)

	for i, c := range s.Split(text) {
		if c.Position != i {
			t.Errorf("chunk %d reports position %d", i, c.Position)
		}
	}
}

// TestSplit_HeadingPriority verifies that section headings are preferred
// split points: when a heading-level split is available, no heading line is
// cut across a chunk boundary.
func TestSplit_HeadingPriority(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Report\n")
	headings := []string{"## Alpha Section", "## Beta Section", "## Gamma Section"}
	for _, h := range headings {
		b.WriteString("\n" + h + "\nSome body text for this section, long enough to matter for the splitter.\n")
	}
	text := b.String()

	s := New(WithChunkSize(120), WithOverlap(20))
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for _, h := range headings {
		intact := false
		for _, c := range chunks {
			if strings.Contains(c.Text, h) {
				intact = true
				break
			}
		}
		if !intact {
			t.Errorf("heading %q was split across a chunk boundary", h)
		}
	}
}

// TestSplit_ThreeThousandChars mirrors ingesting a 3000-character document
// with the default-sized configuration: expect 3-4 chunks.
func TestSplit_ThreeThousandChars(t *testing.T) {
	text := strings.Repeat("Sentence with a handful of words in it. ", 75) // 3000 chars
	s := New(WithChunkSize(1000), WithOverlap(100))

	chunks := s.Split(text)
	if len(chunks) < 3 || len(chunks) > 4 {
		t.Errorf("expected 3-4 chunks for 3000 chars, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len([]rune(c.Text)) > 1000 {
			t.Errorf("chunk %d exceeds size bound", c.Position)
		}
	}
}

// TestSplit_Coverage verifies that concatenating chunks after removing the
// shared overlap regions reconstructs the input exactly: no characters are
// dropped or duplicated beyond the declared overlap.
func TestSplit_Coverage(t *testing.T) {
	cases := []struct {
		name    string
		size    int
		overlap int
		text    string
	}{
		{"paragraphs", 40, 8, "First paragraph here.\n\nSecond one follows.\n\nThird closes the document with a longer sentence."},
		{"headings", 60, 10, "# Title\n\nIntro text before sections.\n## Alpha\nContent of the alpha section goes here.\n## Beta\nContent of the beta section, somewhat longer than alpha."},
		{"lines", 25, 5, "line one is here\nline two follows it\nline three closes\nline four extra"},
		{"no overlap", 30, 0, "Plain text without any particular structure, just words and more words to force splitting."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(WithChunkSize(tc.size), WithOverlap(tc.overlap))
			chunks := s.Split(tc.text)
			if len(chunks) == 0 {
				t.Fatal("expected chunks")
			}

			if got := reconstruct(t, tc.text, chunks, tc.overlap); got != tc.text {
				t.Errorf("reconstruction mismatch:\n got: %q\nwant: %q", got, tc.text)
			}
		})
	}
}

// reconstruct walks the original text, consuming each chunk after skipping
// its leading overlap carry: the largest prefix (up to overlap runes) that
// the previous chunk already contributed.
func reconstruct(t *testing.T, original string, chunks []domain.Chunk, overlap int) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(chunks[0].Text)

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		cur := []rune(chunks[i].Text)

		matched := -1
		for k := min(overlap, min(len(prev), len(cur))); k >= 0; k-- {
			if string(cur[:k]) == string(prev[len(prev)-k:]) &&
				strings.HasPrefix(original[len(b.String()):], string(cur[k:])) {
				matched = k
				break
			}
		}
		if matched < 0 {
			t.Fatalf("chunk %d does not continue the original text: %q", i, chunks[i].Text)
		}
		b.WriteString(string(cur[matched:]))
	}

	return b.String()
}
