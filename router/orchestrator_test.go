package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/agent"
	"github.com/BaSui01/agentchat/internal/kv"
	"github.com/BaSui01/agentchat/session"
	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 🧪 编排器测试
// =============================================================================

// stubAgent 行为完全可控的测试 Agent
type stubAgent struct {
	name      string
	relevance float64
	reply     string
	reroutes  bool
	fails     bool
	panics    bool
}

func (s *stubAgent) Name() string           { return s.name }
func (s *stubAgent) Description() string    { return "stub " + s.name }
func (s *stubAgent) Capabilities() []string { return []string{"stub"} }
func (s *stubAgent) MinConfidence() float64 { return 0.3 }

func (s *stubAgent) CalculateRelevance(_ string) float64 { return s.relevance }

func (s *stubAgent) ProcessMessage(_ context.Context, _ string, _ []types.MessageContext) (types.AgentResponse, error) {
	if s.panics {
		panic("stub agent exploded")
	}
	if s.fails {
		return types.AgentResponse{}, errors.New("stub agent failed")
	}
	return types.AgentResponse{
		Content:        s.reply,
		Confidence:     s.relevance,
		NeedsRerouting: s.reroutes,
	}, nil
}

type testEnv struct {
	mr       *miniredis.Miniredis
	registry *agent.Registry
	sessions *session.Manager
	orch     *Orchestrator
}

func setupTestOrchestrator(t *testing.T, agents ...agent.Agent) *testEnv {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	kvm, err := kv.NewManager(kv.Config{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		kvm.Close()
		mr.Close()
	})

	registry := agent.NewRegistry(zap.NewNop())
	for _, a := range agents {
		registry.Register(a)
	}

	repo := session.NewRedisRepository(kvm, nil, zap.NewNop())
	sessions := session.NewManager(repo, nil, session.DefaultConfig(), zap.NewNop())

	return &testEnv{
		mr:       mr,
		registry: registry,
		sessions: sessions,
		orch:     NewOrchestrator(registry, sessions, nil, zap.NewNop()),
	}
}

func testMessage(content string) *types.Message {
	return &types.Message{
		Content:   content,
		SenderID:  "user-1",
		ContextID: "s1",
	}
}

func TestRoute_InvalidMessage(t *testing.T) {
	env := setupTestOrchestrator(t)

	_, err := env.orch.Route(context.Background(), &types.Message{SenderID: "user-1"})
	assert.Equal(t, types.ErrInvalidRequest, types.GetErrorCode(err))

	_, err = env.orch.Route(context.Background(), &types.Message{Content: "hi"})
	assert.Equal(t, types.ErrInvalidRequest, types.GetErrorCode(err))
}

func TestRoute_GeneratesContextID(t *testing.T) {
	env := setupTestOrchestrator(t, &stubAgent{name: "sales", relevance: 0.8, reply: "hi"})

	msg := &types.Message{Content: "hello", SenderID: "user-1"}
	_, err := env.orch.Route(context.Background(), msg)
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ContextID)
}

func TestRoute_MentionToRegisteredAgent(t *testing.T) {
	env := setupTestOrchestrator(t,
		&stubAgent{name: "sales", relevance: 0.8, reply: "Our pricing starts at $99."},
		&stubAgent{name: "marketing", relevance: 0.9, reply: "Campaigns!"},
	)

	result, err := env.orch.Route(context.Background(), testMessage("@sales how much does it cost?"))
	require.NoError(t, err)

	assert.Equal(t, "sales", result.Agent)
	assert.Equal(t, "Our pricing starts at $99.", result.Content)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestRoute_MentionFieldOverridesContent(t *testing.T) {
	env := setupTestOrchestrator(t,
		&stubAgent{name: "sales", relevance: 0.8, reply: "sales here"},
		&stubAgent{name: "marketing", relevance: 0.9, reply: "marketing here"},
	)

	msg := testMessage("@sales question")
	msg.Mention = "Marketing"

	result, err := env.orch.Route(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "marketing", result.Agent)
}

func TestRoute_MentionNotFound(t *testing.T) {
	env := setupTestOrchestrator(t, &stubAgent{name: "sales", relevance: 0.8, reply: "hi"})

	result, err := env.orch.Route(context.Background(), testMessage("@ghost are you there?"))
	require.NoError(t, err)

	assert.Equal(t, types.SystemAgent, result.Agent)
	assert.Equal(t, "Agent @ghost not found", result.Content)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestRoute_MultiMention(t *testing.T) {
	env := setupTestOrchestrator(t,
		&stubAgent{name: "sales", relevance: 0.7, reply: "Pricing info."},
		&stubAgent{name: "marketing", relevance: 0.9, reply: "Campaign info."},
	)

	result, err := env.orch.Route(context.Background(), testMessage("@sales price? @marketing campaign?"))
	require.NoError(t, err)

	assert.Equal(t, "multiple(sales, marketing)", result.Agent)
	assert.Contains(t, result.Content, "[sales]: Pricing info.")
	assert.Contains(t, result.Content, "[marketing]: Campaign info.")
	assert.Equal(t, 0.9, result.Confidence)
}

func TestRoute_MultiMentionUnknownDoesNotAbort(t *testing.T) {
	env := setupTestOrchestrator(t, &stubAgent{name: "sales", relevance: 0.7, reply: "Pricing info."})

	result, err := env.orch.Route(context.Background(), testMessage("@ghost hi @sales price?"))
	require.NoError(t, err)

	assert.Equal(t, "multiple(system, sales)", result.Agent)
	assert.Contains(t, result.Content, "[system]: Agent @ghost not found")
	assert.Contains(t, result.Content, "[sales]: Pricing info.")
}

func TestRoute_RelevanceDispatch(t *testing.T) {
	env := setupTestOrchestrator(t,
		&stubAgent{name: "low", relevance: 0.1, reply: "never"},
		&stubAgent{name: "high", relevance: 0.9, reply: "high reply"},
	)

	result, err := env.orch.Route(context.Background(), testMessage("plain message"))
	require.NoError(t, err)

	assert.Equal(t, "high", result.Agent)
	assert.Equal(t, "high reply", result.Content)
}

func TestRoute_RelevanceTiesKeepRegistrationOrder(t *testing.T) {
	env := setupTestOrchestrator(t,
		&stubAgent{name: "first", relevance: 0.6, reply: "from first"},
		&stubAgent{name: "second", relevance: 0.6, reply: "from second"},
	)

	result, err := env.orch.Route(context.Background(), testMessage("plain message"))
	require.NoError(t, err)

	assert.Equal(t, "multiple(first, second)", result.Agent)
}

func TestRoute_NoSuitableAgent(t *testing.T) {
	env := setupTestOrchestrator(t,
		&stubAgent{name: "a", relevance: 0.1, reply: "x"},
		&stubAgent{name: "b", relevance: 0.2, reply: "y"},
	)

	result, err := env.orch.Route(context.Background(), testMessage("plain message"))
	require.NoError(t, err)

	assert.Equal(t, types.SystemAgent, result.Agent)
	assert.Equal(t, "No agent found suitable to handle this message", result.Content)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestRoute_EmptyRegistry(t *testing.T) {
	env := setupTestOrchestrator(t)

	result, err := env.orch.Route(context.Background(), testMessage("anyone home?"))
	require.NoError(t, err)
	assert.Equal(t, types.SystemAgent, result.Agent)
}

func TestRoute_ThresholdOverride(t *testing.T) {
	env := setupTestOrchestrator(t, &stubAgent{name: "mid", relevance: 0.5, reply: "mid reply"})

	msg := testMessage("plain message")
	msg.ConfidenceThreshold = 0.6

	result, err := env.orch.Route(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, types.SystemAgent, result.Agent)

	msg2 := testMessage("plain message")
	msg2.ConfidenceThreshold = 0.4

	result, err = env.orch.Route(context.Background(), msg2)
	require.NoError(t, err)
	assert.Equal(t, "mid", result.Agent)
}

func TestRoute_ReroutingPicksAlternative(t *testing.T) {
	env := setupTestOrchestrator(t,
		&stubAgent{name: "deflector", relevance: 0.9, reply: "can't help", reroutes: true},
		&stubAgent{name: "helper", relevance: 0.8, reply: "helper reply"},
	)

	result, err := env.orch.Route(context.Background(), testMessage("@deflector please"))
	require.NoError(t, err)

	assert.Equal(t, "helper", result.Agent, "a rerouting agent must not remain final when an alternative exists")
	assert.Equal(t, "helper reply", result.Content)
}

func TestRoute_ReroutingExhaustedReturnsLastResponse(t *testing.T) {
	env := setupTestOrchestrator(t,
		&stubAgent{name: "only", relevance: 0.9, reply: "deflection", reroutes: true},
	)

	result, err := env.orch.Route(context.Background(), testMessage("@only please"))
	require.NoError(t, err)

	assert.Equal(t, "only", result.Agent)
	assert.Equal(t, "deflection", result.Content)
}

func TestRoute_ReroutingChainTerminates(t *testing.T) {
	// 全员要求转派也必须终止，且不会重试同一个 Agent
	env := setupTestOrchestrator(t,
		&stubAgent{name: "a", relevance: 0.9, reply: "a deflects", reroutes: true},
		&stubAgent{name: "b", relevance: 0.8, reply: "b deflects", reroutes: true},
		&stubAgent{name: "c", relevance: 0.7, reply: "c deflects", reroutes: true},
	)

	done := make(chan types.RouteResult, 1)
	go func() {
		result, _ := env.orch.Route(context.Background(), testMessage("@a please"))
		done <- result
	}()

	select {
	case result := <-done:
		assert.Equal(t, "c", result.Agent, "the last tried agent's deflection is returned as-is")
	case <-time.After(2 * time.Second):
		t.Fatal("rerouting chain did not terminate")
	}
}

func TestRoute_AgentFailureBecomesSystemResponse(t *testing.T) {
	env := setupTestOrchestrator(t, &stubAgent{name: "broken", relevance: 0.9, fails: true})

	result, err := env.orch.Route(context.Background(), testMessage("@broken hello"))
	require.NoError(t, err)

	assert.Equal(t, types.SystemAgent, result.Agent)
	assert.Contains(t, result.Content, "broken")
	assert.Equal(t, 0.0, result.Confidence)
}

func TestRoute_AgentPanicBecomesSystemResponse(t *testing.T) {
	env := setupTestOrchestrator(t, &stubAgent{name: "bomb", relevance: 0.9, panics: true})

	result, err := env.orch.Route(context.Background(), testMessage("@bomb hello"))
	require.NoError(t, err)

	assert.Equal(t, types.SystemAgent, result.Agent)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestRoute_StoreFailureBecomesSystemResponse(t *testing.T) {
	env := setupTestOrchestrator(t, &stubAgent{name: "sales", relevance: 0.9, reply: "hi"})
	env.mr.Close()

	result, err := env.orch.Route(context.Background(), testMessage("hello"))
	require.NoError(t, err, "store failure must not surface as an error")
	assert.Equal(t, types.SystemAgent, result.Agent)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestRoute_UpdatesSessionContext(t *testing.T) {
	env := setupTestOrchestrator(t, &stubAgent{name: "sales", relevance: 0.9, reply: "sales reply"})
	ctx := context.Background()

	_, err := env.orch.Route(ctx, testMessage("@sales hello"))
	require.NoError(t, err)

	sess, err := env.sessions.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2)

	assert.Equal(t, "@sales hello", sess.Messages[0].Content)
	assert.Equal(t, "user-1", sess.Messages[0].SenderID)
	assert.False(t, sess.Messages[0].IsAgentTurn())

	assert.Equal(t, "sales reply", sess.Messages[1].Content)
	assert.Equal(t, "sales", sess.Messages[1].AgentID)
	require.NotNil(t, sess.Messages[1].Confidence)
	assert.Equal(t, 0.9, *sess.Messages[1].Confidence)

	assert.Equal(t, []string{"sales"}, sess.ActiveAgents)
}

func TestRoute_SystemResponseNotStoredAsTurn(t *testing.T) {
	env := setupTestOrchestrator(t, &stubAgent{name: "sales", relevance: 0.9, reply: "hi"})
	ctx := context.Background()

	_, err := env.orch.Route(ctx, testMessage("@ghost hello"))
	require.NoError(t, err)

	sess, err := env.sessions.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 1, "only the inbound turn is stored")
	assert.Empty(t, sess.ActiveAgents)
}

func TestRoute_RefreshesTTL(t *testing.T) {
	env := setupTestOrchestrator(t, &stubAgent{name: "sales", relevance: 0.9, reply: "hi"})
	ctx := context.Background()

	_, err := env.orch.Route(ctx, testMessage("hello"))
	require.NoError(t, err)

	env.mr.FastForward(50 * time.Minute)

	_, err = env.orch.Route(ctx, testMessage("still here"))
	require.NoError(t, err)

	env.mr.FastForward(50 * time.Minute)

	sess, err := env.sessions.GetSession(ctx, "s1")
	require.NoError(t, err, "second route should have renewed the ttl")
	assert.NotEmpty(t, sess.Messages)
}

// =============================================================================
// 🧪 内置 roster 端到端
// =============================================================================

func TestRoute_BuiltinRoster(t *testing.T) {
	env := setupTestOrchestrator(t, agent.Builtin()...)

	result, err := env.orch.Route(context.Background(), testMessage("@sales what is the price of the premium plan?"))
	require.NoError(t, err)
	assert.Equal(t, "sales", result.Agent)
	assert.Greater(t, result.Confidence, 0.0)

	result, err = env.orch.Route(context.Background(), testMessage("tell me about your marketing campaign strategy for social media"))
	require.NoError(t, err)
	assert.NotEqual(t, types.SystemAgent, result.Agent)
	assert.Contains(t, result.Agent, "marketing")
}
