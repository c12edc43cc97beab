package agents

// bankingTools returns the operational agent's function tools. Tool names
// are the labels the tool-call dataset grades against.
func bankingTools() []Tool {
	return []Tool{
		{
			Name:        "transfer_funds",
			Description: "Transfer funds from one account to another.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"amount": map[string]any{
						"type":        "number",
						"description": "The amount to transfer",
					},
					"from_account": map[string]any{
						"type":        "string",
						"description": "Source account identifier",
					},
					"to_account": map[string]any{
						"type":        "string",
						"description": "Destination account identifier",
					},
				},
				"required":             []any{"amount", "from_account", "to_account"},
				"additionalProperties": false,
			},
		},
		{
			Name:        "pay_bill",
			Description: "Pay a bill to a specified payee.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"amount": map[string]any{
						"type":        "number",
						"description": "The amount to pay",
					},
					"payee": map[string]any{
						"type":        "string",
						"description": "Name or identifier of the payee",
					},
					"account_number": map[string]any{
						"type":        "string",
						"description": "Optional account number for the payee",
					},
				},
				"required":             []any{"amount", "payee"},
				"additionalProperties": false,
			},
		},
		{
			Name:        "update_account_info",
			Description: "Update account information such as address, phone number, or email.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"field": map[string]any{
						"type":        "string",
						"description": "The field to update (e.g. \"address\", \"phone\", \"email\")",
					},
					"new_value": map[string]any{
						"type":        "string",
						"description": "The new value for the field",
					},
				},
				"required":             []any{"field", "new_value"},
				"additionalProperties": false,
			},
		},
	}
}
