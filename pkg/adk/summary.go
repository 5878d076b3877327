package adk

import (
	"context"
	"fmt"
	"strings"

	"github.com/rajdefenseye/CMMC-lens3/pkg/engine"
	"github.com/rajdefenseye/CMMC-lens3/pkg/logger"
	"github.com/rajdefenseye/CMMC-lens3/pkg/report"
)

// Summarize asks the model for a 3PAO-style narrative of rep. The report
// itself stays the source of truth; this only adds prose around it.
func Summarize(ctx context.Context, llm LLMProvider, rep *engine.Report) (string, error) {
	data, err := report.JSON(rep)
	if err != nil {
		return "", err
	}

	prompt := summaryPrompt + "\n" + string(data)
	text, toolCall, err := llm.GenerateResponse(ctx, []Message{{Role: "user", Content: prompt}}, nil)
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}
	if toolCall != nil {
		logger.Debugf("Ignoring tool call %s during summary", toolCall.ToolName)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("summary generation returned no text")
	}
	return text, nil
}
