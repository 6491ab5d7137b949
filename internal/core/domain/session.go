package domain

// Session is the scope of one active ingestion and its conversation.
// It replaces process-wide mutable state: every operation that needs the
// active index or the chat history receives the session explicitly, which
// keeps concurrent sessions safe by construction.
//
// A session is owned by a single caller; nothing in the core shares
// sessions across goroutines.
type Session struct {
	// Topic is the subject of the most recent ingestion, for display.
	Topic string

	index    Index
	messages []Message
}

// Index is the read-only view of a built vector index that a session owns.
// The concrete implementation lives in the vector adapter; the session only
// needs enough surface to hand the index to the retriever and dispose of it.
type Index interface {
	// Len returns the number of indexed chunks.
	Len() int
}

// NewSession creates an empty session with no active index.
func NewSession() *Session {
	return &Session{}
}

// ReplaceIndex installs a freshly built index, discarding the previous one
// wholesale. This is the explicit discard-on-replace step: the design keeps
// one index per active context, never an accumulating corpus.
func (s *Session) ReplaceIndex(idx Index, topic string) {
	s.index = idx
	s.Topic = topic
}

// ActiveIndex returns the current index, or nil if nothing was ingested.
func (s *Session) ActiveIndex() Index {
	return s.index
}

// HasIndex reports whether an ingestion has happened in this session.
// An empty index (zero chunks) still counts: retrieval over it is a valid
// soft state, not an error.
func (s *Session) HasIndex() bool {
	return s.index != nil
}

// Messages returns the conversation history in order.
func (s *Session) Messages() []Message {
	return s.messages
}

// Append records a completed (question, answer) exchange.
// The composer calls this only after a successful model invocation.
func (s *Session) Append(question, answer string) {
	s.messages = append(s.messages,
		Message{Role: RoleUser, Content: question},
		Message{Role: RoleAssistant, Content: answer},
	)
}

// Reset clears the conversation and drops the active index.
func (s *Session) Reset() {
	s.index = nil
	s.messages = nil
	s.Topic = ""
}
