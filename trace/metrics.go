package trace

// Metrics carries optional token usage and cost accounting for a run. Fields
// are pointers so absent values are omitted from the wire payload.
type Metrics struct {
	PromptTokens     *int64   `json:"prompt_tokens,omitempty"`
	CompletionTokens *int64   `json:"completion_tokens,omitempty"`
	TotalTokens      *int64   `json:"total_tokens,omitempty"`
	PromptCost       *float64 `json:"prompt_cost,omitempty"`
	CompletionCost   *float64 `json:"completion_cost,omitempty"`
	TotalCost        *float64 `json:"total_cost,omitempty"`
}

// TokenUsage builds Metrics from prompt and completion token counts.
func TokenUsage(prompt, completion int64) Metrics {
	total := prompt + completion
	return Metrics{
		PromptTokens:     &prompt,
		CompletionTokens: &completion,
		TotalTokens:      &total,
	}
}

// WithCosts attaches prompt and completion costs, deriving the total.
func (m Metrics) WithCosts(prompt, completion float64) Metrics {
	total := prompt + completion
	m.PromptCost = &prompt
	m.CompletionCost = &completion
	m.TotalCost = &total
	return m
}
