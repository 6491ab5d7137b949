package domain

// Document represents a normalised source text ready for ingestion.
// It is the canonical representation after PDF parsing or report generation:
// a single UTF-8 blob, optionally carrying markdown heading markers that the
// splitter uses as boundary hints.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title (paper title, report topic).
	Title string

	// Content is the full text content after normalisation.
	Content string

	// Metadata contains arbitrary key-value pairs (source URL, arXiv ID).
	Metadata map[string]any
}

// Chunk is the unit of retrieval: a bounded contiguous segment of a
// Document produced by the splitter. Chunks are immutable once created and
// identified by their position, which keeps splitting fully deterministic.
type Chunk struct {
	// Text is the chunk content.
	Text string

	// Position is the ordinal position within the source document.
	// It is the deterministic tie-breaker for equal similarity scores.
	Position int
}

// Message is a single conversation turn.
type Message struct {
	// Role is one of "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
