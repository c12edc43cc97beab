// Package agents defines the banking agent team the router is evaluated
// against: one orchestrator that only routes, plus three specialists. The
// catalog is the single source of truth for agent names, instructions, and
// the operational agent's tools.
package agents

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Agent names. Dataset targets for handoff evaluation must be one of the
// specialist names (or the orchestrator's, when no handoff happens).
const (
	Orchestrator   = "Orchestrator"
	Operational    = "Operational"
	Informational  = "Informational"
	FinancialCoach = "FinancialCoach"
)

// HandoffToolPrefix is the function-name prefix the orchestrator uses to
// hand a conversation to a specialist. The suffix is the specialist name.
const HandoffToolPrefix = "transfer_to_"

// Tool describes a function the operational agent can call. Parameters is
// a JSON Schema document for the function arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Agent is one member of the team.
type Agent struct {
	Name         string
	Instructions string
	Tools        []Tool
	Handoffs     []string
}

// Catalog holds the full agent team.
type Catalog struct {
	Orchestrator Agent
	Specialists  []Agent
}

// Build constructs the banking agent catalog.
func Build() *Catalog {
	operational := Agent{
		Name: Operational,
		Instructions: "You are the Banking Operations Specialist.\n" +
			"You handle: transfers between accounts, bill payments, account updates (address, phone, email),\n" +
			"setting up automatic transfers, ordering checks, card replacements, account maintenance tasks,\n" +
			"and executing specific banking transactions.\n" +
			"Use the available tools to perform operations when the user requests them.\n" +
			"If the user is asking general questions about banking services or seeking financial advice, hand off back to the Orchestrator.",
		Tools: bankingTools(),
	}

	informational := Agent{
		Name: Informational,
		Instructions: "You are the Banking Information Specialist.\n" +
			"You handle: branch hours, account types and features, product information, application processes,\n" +
			"service descriptions, fees and rates, online banking capabilities, and answering general banking questions.\n" +
			"If the user wants to perform a transaction or needs financial coaching/advice, hand off back to the Orchestrator.",
	}

	coach := Agent{
		Name: FinancialCoach,
		Instructions: "You are the Financial Coach Specialist.\n" +
			"You handle: budgeting advice, saving strategies, debt payoff plans, retirement planning,\n" +
			"investment guidance, financial goal setting, money management tips, and providing personalized financial coaching.\n" +
			"If the user wants to perform a banking operation or ask about banking services/products, hand off back to the Orchestrator.",
	}

	orchestrator := Agent{
		Name: Orchestrator,
		Instructions: "You are the Orchestrator. Your ONLY job is to route the user to the correct specialist via handoff.\n" +
			"Rules:\n" +
			"- If the request is to perform a banking operation (transfer, payment, account update, set up automation) -> handoff to Operational.\n" +
			"- If the request is asking about banking services, products, hours, processes, or general information -> handoff to Informational.\n" +
			"- If the request is seeking financial advice, budgeting help, saving strategies, or financial coaching -> handoff to FinancialCoach.\n" +
			"- Do NOT answer the user directly unless absolutely necessary; prefer handing off.\n" +
			"When uncertain, ask ONE short clarifying question, then handoff.",
		Handoffs: []string{Operational, Informational, FinancialCoach},
	}

	return &Catalog{
		Orchestrator: orchestrator,
		Specialists:  []Agent{operational, informational, coach},
	}
}

// Specialist returns the specialist with the given name, or false if the
// catalog has no such agent.
func (c *Catalog) Specialist(name string) (Agent, bool) {
	for _, a := range c.Specialists {
		if a.Name == name {
			return a, true
		}
	}
	return Agent{}, false
}

// HandoffTools returns one tool per orchestrator handoff target, named
// transfer_to_<Agent>. Calling one of these is how the model expresses a
// routing decision.
func (c *Catalog) HandoffTools() []Tool {
	tools := make([]Tool, 0, len(c.Orchestrator.Handoffs))
	for _, name := range c.Orchestrator.Handoffs {
		a, ok := c.Specialist(name)
		if !ok {
			continue
		}
		tools = append(tools, Tool{
			Name:        HandoffToolPrefix + a.Name,
			Description: fmt.Sprintf("Handoff to the %s agent. %s", a.Name, firstLine(a.Instructions)),
			Parameters: map[string]any{
				"type":                 "object",
				"properties":           map[string]any{},
				"additionalProperties": false,
			},
		})
	}
	return tools
}

// HandoffTarget maps a handoff tool name back to the specialist it routes
// to. It returns false when the tool name is not a handoff.
func (c *Catalog) HandoffTarget(toolName string) (string, bool) {
	for _, name := range c.Orchestrator.Handoffs {
		if toolName == HandoffToolPrefix+name {
			return name, true
		}
	}
	return "", false
}

// Validate compiles every tool parameter schema in the catalog and returns
// an error naming the first invalid one. Run this at startup so a broken
// schema fails before any model call is made.
func (c *Catalog) Validate() error {
	agents := append([]Agent{c.Orchestrator}, c.Specialists...)
	for _, a := range agents {
		for _, t := range a.Tools {
			if err := compileSchema(t.Parameters); err != nil {
				return fmt.Errorf("agent %s: tool %s: invalid parameter schema: %w", a.Name, t.Name, err)
			}
		}
	}
	for _, t := range c.HandoffTools() {
		if err := compileSchema(t.Parameters); err != nil {
			return fmt.Errorf("handoff tool %s: invalid parameter schema: %w", t.Name, err)
		}
	}
	return nil
}

func compileSchema(doc map[string]any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", map[string]any(doc)); err != nil {
		return err
	}
	_, err := compiler.Compile("schema.json")
	return err
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
