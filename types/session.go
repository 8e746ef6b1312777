package types

import "time"

// SessionContext is the canonical in-memory shape of one conversation
// session. It is serialized as a single JSON blob at the repository
// boundary; nothing outside the session package should mutate it directly.
type SessionContext struct {
	SessionID    string           `json:"session_id"`
	CreatedAt    time.Time        `json:"created_at"`
	LastUpdated  time.Time        `json:"last_updated"`
	ActiveAgents []string         `json:"active_agents"`
	Messages     []MessageContext `json:"messages"`
	Metadata     map[string]any   `json:"metadata"`
}

// NewSessionContext creates an empty session. A session with zero messages
// is valid but inert.
func NewSessionContext(sessionID string, now time.Time) *SessionContext {
	return &SessionContext{
		SessionID:    sessionID,
		CreatedAt:    now,
		LastUpdated:  now,
		ActiveAgents: make([]string, 0),
		Messages:     make([]MessageContext, 0),
		Metadata:     make(map[string]any),
	}
}

// Append adds a turn to the log and evicts the oldest entries beyond
// maxMessages. maxMessages <= 0 means unbounded. Insertion order is
// chronological order; callers must serialize appends per session.
func (s *SessionContext) Append(turn MessageContext, maxMessages int) {
	s.Messages = append(s.Messages, turn)
	if maxMessages > 0 && len(s.Messages) > maxMessages {
		s.Messages = s.Messages[len(s.Messages)-maxMessages:]
	}
	s.LastUpdated = turn.Timestamp
	if turn.AgentID != "" {
		s.AddActiveAgent(turn.AgentID)
	}
}

// AddActiveAgent records an agent as having replied in this session.
// The list keeps set semantics with first-insertion order.
func (s *SessionContext) AddActiveAgent(name string) {
	for _, a := range s.ActiveAgents {
		if a == name {
			return
		}
	}
	s.ActiveAgents = append(s.ActiveAgents, name)
}

// Recent returns the last n turns (all turns when n <= 0 or exceeds the log).
func (s *SessionContext) Recent(n int) []MessageContext {
	if n <= 0 || n >= len(s.Messages) {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// AgentScoped returns the turns relevant to one agent: its own replies plus
// every non-agent (user) turn.
func (s *SessionContext) AgentScoped(agentID string) []MessageContext {
	scoped := make([]MessageContext, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.AgentID == agentID || m.AgentID == "" {
			scoped = append(scoped, m)
		}
	}
	return scoped
}
