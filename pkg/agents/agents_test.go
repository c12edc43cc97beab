package agents

import (
	"strings"
	"testing"
)

func TestBuild_TeamComposition(t *testing.T) {
	c := Build()

	if c.Orchestrator.Name != Orchestrator {
		t.Errorf("orchestrator name = %q, want %q", c.Orchestrator.Name, Orchestrator)
	}
	if len(c.Specialists) != 3 {
		t.Fatalf("len(specialists) = %d, want 3", len(c.Specialists))
	}

	for _, name := range []string{Operational, Informational, FinancialCoach} {
		if _, ok := c.Specialist(name); !ok {
			t.Errorf("missing specialist %q", name)
		}
	}
	if _, ok := c.Specialist("Imaginary"); ok {
		t.Error("Specialist returned true for unknown agent")
	}
}

func TestBuild_OperationalTools(t *testing.T) {
	c := Build()
	op, ok := c.Specialist(Operational)
	if !ok {
		t.Fatal("no operational agent")
	}

	want := []string{"transfer_funds", "pay_bill", "update_account_info"}
	if len(op.Tools) != len(want) {
		t.Fatalf("len(tools) = %d, want %d", len(op.Tools), len(want))
	}
	for i, name := range want {
		if op.Tools[i].Name != name {
			t.Errorf("tools[%d].Name = %q, want %q", i, op.Tools[i].Name, name)
		}
	}

	for _, other := range []string{Informational, FinancialCoach} {
		a, _ := c.Specialist(other)
		if len(a.Tools) != 0 {
			t.Errorf("%s has %d tools, want 0", other, len(a.Tools))
		}
	}
}

func TestHandoffTools(t *testing.T) {
	c := Build()
	tools := c.HandoffTools()

	if len(tools) != 3 {
		t.Fatalf("len(handoff tools) = %d, want 3", len(tools))
	}
	for _, tool := range tools {
		if !strings.HasPrefix(tool.Name, HandoffToolPrefix) {
			t.Errorf("tool %q missing prefix %q", tool.Name, HandoffToolPrefix)
		}
		target, ok := c.HandoffTarget(tool.Name)
		if !ok {
			t.Errorf("HandoffTarget(%q) not found", tool.Name)
			continue
		}
		if tool.Name != HandoffToolPrefix+target {
			t.Errorf("tool %q maps to %q", tool.Name, target)
		}
	}
}

func TestHandoffTarget_NotAHandoff(t *testing.T) {
	c := Build()
	if _, ok := c.HandoffTarget("pay_bill"); ok {
		t.Error("pay_bill should not resolve to a handoff target")
	}
	if _, ok := c.HandoffTarget("transfer_to_Nobody"); ok {
		t.Error("unknown handoff suffix should not resolve")
	}
}

func TestValidate_BuiltCatalog(t *testing.T) {
	if err := Build().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidate_BadSchema(t *testing.T) {
	c := Build()
	c.Specialists[0].Tools = append(c.Specialists[0].Tools, Tool{
		Name: "broken",
		Parameters: map[string]any{
			"type": 12345, // type must be a string or array of strings
		},
	})

	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for malformed schema")
	}
}
