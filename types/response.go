package types

import "fmt"

// AgentResponse is the immutable result of one agent invocation.
// Construct via NewAgentResponse so the field invariants hold everywhere;
// a confidence outside [0,1] indicates an agent bug and fails construction
// instead of being clamped.
type AgentResponse struct {
	Content        string  `json:"content"`
	Confidence     float64 `json:"confidence"`
	NeedsRerouting bool    `json:"needs_rerouting"`
}

// NewAgentResponse validates and builds an AgentResponse.
func NewAgentResponse(content string, confidence float64, needsRerouting bool) (AgentResponse, error) {
	if content == "" {
		return AgentResponse{}, NewError(ErrInvalidResponse, "response content must not be empty")
	}
	if confidence < 0 || confidence > 1 {
		return AgentResponse{}, NewError(ErrInvalidResponse,
			fmt.Sprintf("confidence %v out of range [0,1]", confidence))
	}
	return AgentResponse{
		Content:        content,
		Confidence:     confidence,
		NeedsRerouting: needsRerouting,
	}, nil
}

// RouteResult is the aggregated reply returned to the caller. Agent is a
// single agent name, "system", or a composite label of the form
// "multiple(a, b)" when several agents contributed.
type RouteResult struct {
	Agent      string  `json:"agent"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}

// SystemResult builds a router-synthesized result with zero confidence.
func SystemResult(content string) RouteResult {
	return RouteResult{
		Agent:      SystemAgent,
		Content:    content,
		Confidence: 0.0,
	}
}
