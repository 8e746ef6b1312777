package types

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turnAt(content, sender, agentID string, ts time.Time) MessageContext {
	return MessageContext{Content: content, Timestamp: ts, SenderID: sender, AgentID: agentID}
}

func TestSessionContextAppendOrder(t *testing.T) {
	now := time.Now()
	s := NewSessionContext("s1", now)

	for i, content := range []string{"A", "B", "C"} {
		s.Append(turnAt(content, "u1", "", now.Add(time.Duration(i)*time.Second)), 0)
	}

	require.Len(t, s.Messages, 3)
	assert.Equal(t, "A", s.Messages[0].Content)
	assert.Equal(t, "B", s.Messages[1].Content)
	assert.Equal(t, "C", s.Messages[2].Content)
}

func TestSessionContextEviction(t *testing.T) {
	now := time.Now()
	s := NewSessionContext("s1", now)

	for i := 0; i < 15; i++ {
		s.Append(turnAt(fmt.Sprintf("m%d", i), "u1", "", now), 10)
	}

	require.Len(t, s.Messages, 10)
	// oldest five evicted
	assert.Equal(t, "m5", s.Messages[0].Content)
	assert.Equal(t, "m14", s.Messages[9].Content)
}

func TestSessionContextActiveAgents(t *testing.T) {
	now := time.Now()
	s := NewSessionContext("s1", now)

	conf := 0.8
	s.Append(MessageContext{Content: "r1", Timestamp: now, SenderID: "sales", AgentID: "sales", Confidence: &conf}, 0)
	s.Append(MessageContext{Content: "r2", Timestamp: now, SenderID: "sales", AgentID: "sales", Confidence: &conf}, 0)
	s.Append(MessageContext{Content: "r3", Timestamp: now, SenderID: "brand", AgentID: "brand", Confidence: &conf}, 0)

	assert.Equal(t, []string{"sales", "brand"}, s.ActiveAgents)
}

func TestSessionContextRecent(t *testing.T) {
	now := time.Now()
	s := NewSessionContext("s1", now)
	for i := 0; i < 5; i++ {
		s.Append(turnAt(fmt.Sprintf("m%d", i), "u1", "", now), 0)
	}

	recent := s.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "m3", recent[0].Content)

	assert.Len(t, s.Recent(0), 5)
	assert.Len(t, s.Recent(100), 5)
}

func TestSessionContextAgentScoped(t *testing.T) {
	now := time.Now()
	s := NewSessionContext("s1", now)
	s.Append(turnAt("user question", "u1", "", now), 0)
	s.Append(turnAt("sales answer", "sales", "sales", now), 0)
	s.Append(turnAt("brand answer", "brand", "brand", now), 0)

	scoped := s.AgentScoped("sales")
	require.Len(t, scoped, 2)
	assert.Equal(t, "user question", scoped[0].Content)
	assert.Equal(t, "sales answer", scoped[1].Content)
}

func TestSessionContextZeroMessagesIsValid(t *testing.T) {
	s := NewSessionContext("empty", time.Now())
	assert.Empty(t, s.Messages)
	assert.Empty(t, s.ActiveAgents)
	assert.NotNil(t, s.Metadata)
}
