// Package types provides core types used across the agentchat service.
// This package has ZERO dependencies on other agentchat packages to avoid circular imports.
// All other packages should import types from here.
package types

import (
	"fmt"
	"time"
)

// SystemAgent is the pseudo-agent name used for responses synthesized by the
// router itself (unknown mention, no suitable agent, internal fault).
const SystemAgent = "system"

// DefaultConfidenceThreshold is the global routing floor applied when a
// message does not carry its own threshold.
const DefaultConfidenceThreshold = 0.3

// Message is one inbound chat message to be routed.
type Message struct {
	Content  string `json:"content"`
	SenderID string `json:"sender_id"`

	// Mention optionally forces routing to one agent, overriding any
	// @mentions embedded in Content.
	Mention string `json:"mention,omitempty"`

	// ContextID is the session key. Generated by the transport when absent.
	ContextID string `json:"context_id,omitempty"`

	// ConfidenceThreshold overrides the global routing floor for this
	// message. Zero means "use the default".
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"`
}

// Threshold returns the effective routing floor for the message.
func (m *Message) Threshold() float64 {
	if m.ConfidenceThreshold <= 0 {
		return DefaultConfidenceThreshold
	}
	return m.ConfidenceThreshold
}

// Validate checks the message is routable.
func (m *Message) Validate() error {
	if m.Content == "" {
		return NewError(ErrInvalidRequest, "content is required")
	}
	if m.SenderID == "" {
		return NewError(ErrInvalidRequest, "sender_id is required")
	}
	if m.ConfidenceThreshold < 0 || m.ConfidenceThreshold > 1 {
		return NewError(ErrInvalidRequest,
			fmt.Sprintf("confidence_threshold %v out of range [0,1]", m.ConfidenceThreshold))
	}
	return nil
}

// MessageContext is one stored conversation turn inside a session.
// AgentID is set when the turn is an agent's own reply; Confidence carries
// the agent's score for that reply.
type MessageContext struct {
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	SenderID   string    `json:"sender_id"`
	AgentID    string    `json:"agent_id,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
}

// Validate rejects turns that could corrupt the chronological log.
func (c *MessageContext) Validate(now time.Time) error {
	if c.Timestamp.After(now) {
		return NewError(ErrInvalidRequest, "message context timestamp is in the future")
	}
	return nil
}

// IsAgentTurn reports whether the turn was authored by an agent.
func (c *MessageContext) IsAgentTurn() bool {
	return c.AgentID != ""
}
