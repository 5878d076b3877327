package adk

import (
	_ "embed"
)

//go:embed prompts/system_prompt.md
var systemPrompt string

//go:embed prompts/summary_prompt.md
var summaryPrompt string

// GetSystemPrompt returns the default system prompt for the agent
func GetSystemPrompt() string {
	return systemPrompt
}
