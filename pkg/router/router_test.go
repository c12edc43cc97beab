package router

import (
	"context"
	"errors"
	"testing"

	"github.com/jdgilhuly/agent_evals/pkg/agents"
	"github.com/jdgilhuly/agent_evals/pkg/provider"
)

// fakeClient returns canned responses and records the last request.
type fakeClient struct {
	resp    *provider.Response
	err     error
	lastReq *provider.Request
}

func (f *fakeClient) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeClient) Name() string { return "fake" }

func TestHandoffRouter_RoutesToSpecialist(t *testing.T) {
	client := &fakeClient{resp: &provider.Response{
		ToolCalls: []provider.ToolCall{
			{ID: "call_1", Name: "transfer_to_FinancialCoach"},
		},
	}}

	r, err := NewHandoffRouter(client, agents.Build(), "gpt-4.1-mini")
	if err != nil {
		t.Fatalf("NewHandoffRouter() error = %v", err)
	}

	got, err := r.Decide(context.Background(), "Help me budget")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if got != agents.FinancialCoach {
		t.Errorf("decision = %q, want %q", got, agents.FinancialCoach)
	}

	// The orchestrator should see one handoff tool per specialist.
	if len(client.lastReq.Tools) != 3 {
		t.Errorf("tools sent = %d, want 3", len(client.lastReq.Tools))
	}
	if client.lastReq.User != "Help me budget" {
		t.Errorf("user message = %q", client.lastReq.User)
	}
	if client.lastReq.System == "" {
		t.Error("system prompt is empty")
	}
}

func TestHandoffRouter_NoHandoff(t *testing.T) {
	client := &fakeClient{resp: &provider.Response{
		Content: "Could you clarify what you need?",
	}}

	r, err := NewHandoffRouter(client, agents.Build(), "gpt-4.1-mini")
	if err != nil {
		t.Fatalf("NewHandoffRouter() error = %v", err)
	}

	got, err := r.Decide(context.Background(), "hmm")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if got != agents.Orchestrator {
		t.Errorf("decision = %q, want %q when no handoff happens", got, agents.Orchestrator)
	}
}

func TestHandoffRouter_IgnoresUnknownToolCall(t *testing.T) {
	client := &fakeClient{resp: &provider.Response{
		ToolCalls: []provider.ToolCall{
			{ID: "call_1", Name: "transfer_to_Nobody"},
			{ID: "call_2", Name: "transfer_to_Operational"},
		},
	}}

	r, err := NewHandoffRouter(client, agents.Build(), "gpt-4.1-mini")
	if err != nil {
		t.Fatalf("NewHandoffRouter() error = %v", err)
	}

	got, err := r.Decide(context.Background(), "transfer money")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if got != agents.Operational {
		t.Errorf("decision = %q, want %q", got, agents.Operational)
	}
}

func TestHandoffRouter_PropagatesError(t *testing.T) {
	wantErr := errors.New("rate limited")
	client := &fakeClient{err: wantErr}

	r, err := NewHandoffRouter(client, agents.Build(), "gpt-4.1-mini")
	if err != nil {
		t.Fatalf("NewHandoffRouter() error = %v", err)
	}

	_, err = r.Decide(context.Background(), "hi")
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want wrapped %v", err, wantErr)
	}
}

func TestToolRouter_FirstToolCall(t *testing.T) {
	client := &fakeClient{resp: &provider.Response{
		ToolCalls: []provider.ToolCall{
			{ID: "call_1", Name: "transfer_funds", Parameters: map[string]any{"amount": 300.0}},
			{ID: "call_2", Name: "pay_bill"},
		},
	}}

	r, err := NewToolRouter(client, agents.Build(), "gpt-4.1-mini")
	if err != nil {
		t.Fatalf("NewToolRouter() error = %v", err)
	}

	got, err := r.Decide(context.Background(), "Move $300 to savings")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if got != "transfer_funds" {
		t.Errorf("decision = %q, want %q", got, "transfer_funds")
	}

	// The operational agent should see its three banking tools.
	if len(client.lastReq.Tools) != 3 {
		t.Errorf("tools sent = %d, want 3", len(client.lastReq.Tools))
	}
}

func TestToolRouter_NoToolCalled(t *testing.T) {
	client := &fakeClient{resp: &provider.Response{
		Content: "A routing number identifies your bank.",
	}}

	r, err := NewToolRouter(client, agents.Build(), "gpt-4.1-mini")
	if err != nil {
		t.Fatalf("NewToolRouter() error = %v", err)
	}

	got, err := r.Decide(context.Background(), "What is a routing number?")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if got != NoToolCalled {
		t.Errorf("decision = %q, want %q", got, NoToolCalled)
	}
}

func TestDeciderFunc(t *testing.T) {
	var d Decider = DeciderFunc(func(ctx context.Context, message string) (string, error) {
		return "echo:" + message, nil
	})
	got, err := d.Decide(context.Background(), "hi")
	if err != nil || got != "echo:hi" {
		t.Errorf("Decide() = %q, %v", got, err)
	}
}
