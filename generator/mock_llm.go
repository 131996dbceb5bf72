package generator

import (
	"context"
	"strings"
)

// MockLLM is an offline stand-in for local development; it never calls a model.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if prompt.Schema != nil {
		return `[{"type":"keyInfo","content":"Generated offline by the mock model"},` +
			`{"type":"suggestion","content":"Configure a real llm.provider for useful analysis"}]`, nil
	}
	var sb strings.Builder
	sb.WriteString("# Mock document\n\n")
	sb.WriteString("Generated offline by the mock model.\n\n")
	sb.WriteString("## Request\n\n")
	sb.WriteString("```\n")
	sb.WriteString(prompt.User)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}
