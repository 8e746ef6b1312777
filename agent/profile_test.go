package agent

import (
	"context"
	"testing"
	"time"

	"github.com/BaSui01/agentchat/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(Profile{Fallback: "x"})
	assert.Error(t, err, "missing name")

	_, err = New(Profile{Name: "a", Fallback: "x", MinConfidence: 1.5})
	assert.Error(t, err, "threshold out of range")

	_, err = New(Profile{Name: "a", MinConfidence: 0.3})
	assert.Error(t, err, "missing fallback")

	a, err := New(Profile{Name: "a", Fallback: "x", MinConfidence: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "a", a.Name())
}

func TestCalculateRelevance_KeywordScore(t *testing.T) {
	sales := MustNew(salesProfile())

	// 除数 3：三个关键词命中时达到 1.0
	assert.InDelta(t, 1.0/3.0, sales.CalculateRelevance("what is the price?"), 1e-9)
	assert.InDelta(t, 2.0/3.0, sales.CalculateRelevance("price and cost please"), 1e-9)
	assert.InDelta(t, 1.0, sales.CalculateRelevance("price cost discount deal"), 1e-9)
}

func TestCalculateRelevance_IsCaseInsensitive(t *testing.T) {
	sales := MustNew(salesProfile())
	assert.Equal(t,
		sales.CalculateRelevance("PRICE AND COST"),
		sales.CalculateRelevance("price and cost"),
	)
}

func TestCalculateRelevance_BaseRelevanceFloor(t *testing.T) {
	alex := MustNew(alexProfile())
	// 兜底 Agent 对完全无关的消息也保持基础相关度
	assert.InDelta(t, 0.2, alex.CalculateRelevance("zzzz qqqq"), 1e-9)
}

func TestCalculateRelevance_Deterministic(t *testing.T) {
	marketing := MustNew(marketingProfile())
	msg := "plan a social media campaign with analytics"
	first := marketing.CalculateRelevance(msg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, marketing.CalculateRelevance(msg))
	}
}

func TestProcessMessage_PatternReply(t *testing.T) {
	sales := MustNew(salesProfile())

	resp, err := sales.ProcessMessage(context.Background(), "What is the price of the pro package?", nil)
	require.NoError(t, err)
	assert.False(t, resp.NeedsRerouting)
	assert.Contains(t, resp.Content, "pricing information")
}

func TestProcessMessage_FirstMatchingRuleWins(t *testing.T) {
	sales := MustNew(salesProfile())

	// "price" 规则在 "product" 规则之前声明
	resp, err := sales.ProcessMessage(context.Background(), "price of the product", nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "pricing information")
}

func TestProcessMessage_Fallback(t *testing.T) {
	sales := MustNew(salesProfile())

	resp, err := sales.ProcessMessage(context.Background(), "quote for a subscription package", nil)
	require.NoError(t, err)
	assert.False(t, resp.NeedsRerouting)
	assert.Contains(t, resp.Content, "sales assistant")
}

func TestProcessMessage_DeflectsBelowThreshold(t *testing.T) {
	marketing := MustNew(marketingProfile())

	resp, err := marketing.ProcessMessage(context.Background(), "how do I bake bread", nil)
	require.NoError(t, err)
	assert.True(t, resp.NeedsRerouting)
	assert.Less(t, resp.Confidence, marketing.MinConfidence())
	assert.Equal(t, defaultDeflectReply, resp.Content)
}

func TestProcessMessage_GeneralAgentNeverReroutes(t *testing.T) {
	alex := MustNew(alexProfile())

	resp, err := alex.ProcessMessage(context.Background(), "zzzz qqqq", nil)
	require.NoError(t, err)
	assert.False(t, resp.NeedsRerouting)
}

func TestProcessMessage_ContextFallback(t *testing.T) {
	alex := MustNew(alexProfile())
	history := []types.MessageContext{
		{Content: "earlier question", Timestamp: time.Now(), SenderID: "u1"},
	}

	resp, err := alex.ProcessMessage(context.Background(), "zzzz qqqq", history)
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "following our conversation")
}

func TestProcessMessage_ContextTemplate(t *testing.T) {
	strategic := MustNew(strategicProfile())
	history := []types.MessageContext{
		{Content: "we talked about forecast and trend data", Timestamp: time.Now(), SenderID: "u1"},
	}

	// 高于阈值但不命中任何规则，走上下文模板
	resp, err := strategic.ProcessMessage(context.Background(), "strategy vision mission next?", history)
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "forecast")
	assert.Contains(t, resp.Content, "trend")
}

func TestProcessMessage_CanceledContext(t *testing.T) {
	sales := MustNew(salesProfile())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sales.ProcessMessage(ctx, "price?", nil)
	require.Error(t, err)
	assert.Equal(t, types.ErrTimeout, types.GetErrorCode(err))
}

func TestBuiltin_RosterComplete(t *testing.T) {
	agents := Builtin()
	require.Len(t, agents, 6)

	names := make([]string, 0, len(agents))
	for _, a := range agents {
		names = append(names, a.Name())
	}
	assert.Equal(t, []string{"alex", "marketing", "sales", "growth", "brand", "strategic"}, names)
}
