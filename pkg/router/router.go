// Package router turns one user message into one routing decision by
// asking the model. A decision is a string label: the specialist an
// orchestrator hands off to, or the tool the operational agent calls.
// The evaluator grades these labels against the dataset.
package router

import (
	"context"
	"fmt"

	"github.com/jdgilhuly/agent_evals/pkg/agents"
	"github.com/jdgilhuly/agent_evals/pkg/provider"
)

// NoToolCalled is the decision recorded when the operational agent answers
// a message without calling any tool.
const NoToolCalled = "None"

// Decider produces the system's actual decision for a single message.
// Implementations wrap a live model call; tests substitute deterministic
// stubs.
type Decider interface {
	Decide(ctx context.Context, message string) (string, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, message string) (string, error)

// Decide calls f.
func (f DeciderFunc) Decide(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

// HandoffRouter asks the orchestrator to route a message and reports which
// specialist it handed off to. If the orchestrator answers directly without
// a handoff, the decision is the orchestrator's own name.
type HandoffRouter struct {
	client  provider.Client
	catalog *agents.Catalog
	model   string
}

// NewHandoffRouter builds a handoff router. The catalog's tool schemas are
// validated up front so a malformed schema fails before any model call.
func NewHandoffRouter(client provider.Client, catalog *agents.Catalog, model string) (*HandoffRouter, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &HandoffRouter{client: client, catalog: catalog, model: model}, nil
}

// Decide sends the message to the orchestrator with one handoff tool per
// specialist and returns the name of the agent it routed to.
func (r *HandoffRouter) Decide(ctx context.Context, message string) (string, error) {
	resp, err := r.client.Complete(ctx, &provider.Request{
		Model:  r.model,
		System: r.catalog.Orchestrator.Instructions,
		User:   message,
		Tools:  toProviderTools(r.catalog.HandoffTools()),
	})
	if err != nil {
		return "", fmt.Errorf("handoff decision for %q: %w", message, err)
	}

	for _, tc := range resp.ToolCalls {
		if target, ok := r.catalog.HandoffTarget(tc.Name); ok {
			return target, nil
		}
	}

	// No handoff: the orchestrator answered the user itself.
	return r.catalog.Orchestrator.Name, nil
}

// ToolRouter asks the operational agent to handle a message and reports
// the first tool it called, or NoToolCalled when it answered in plain text.
type ToolRouter struct {
	client provider.Client
	agent  agents.Agent
	model  string
}

// NewToolRouter builds a tool router for the catalog's operational agent.
func NewToolRouter(client provider.Client, catalog *agents.Catalog, model string) (*ToolRouter, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	agent, ok := catalog.Specialist(agents.Operational)
	if !ok {
		return nil, fmt.Errorf("catalog has no %s agent", agents.Operational)
	}
	return &ToolRouter{client: client, agent: agent, model: model}, nil
}

// Decide sends the message to the operational agent with its banking tools
// and returns the name of the first tool it called.
func (r *ToolRouter) Decide(ctx context.Context, message string) (string, error) {
	resp, err := r.client.Complete(ctx, &provider.Request{
		Model:  r.model,
		System: r.agent.Instructions,
		User:   message,
		Tools:  toProviderTools(r.agent.Tools),
	})
	if err != nil {
		return "", fmt.Errorf("tool decision for %q: %w", message, err)
	}

	if len(resp.ToolCalls) == 0 {
		return NoToolCalled, nil
	}
	return resp.ToolCalls[0].Name, nil
}

func toProviderTools(ts []agents.Tool) []provider.Tool {
	out := make([]provider.Tool, len(ts))
	for i, t := range ts {
		out[i] = provider.Tool{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		}
	}
	return out
}
