package wrappers

import (
	"context"
	"fmt"
	"strings"

	"github.com/rajdefenseye/CMMC-lens3/pkg/engine"
)

// AnalyzeWrapper implements the Tool interface for running the row checks on a CSV file
type AnalyzeWrapper struct {
	Evaluator *engine.Evaluator
}

func (a *AnalyzeWrapper) Name() string {
	return "AnalyzeComplianceCSV"
}

func (a *AnalyzeWrapper) Description() string {
	return "Analyzes a local CSV file (columns such as username, password, website_content, audit_log_present, system_component) against CMMC controls and returns the findings and overall posture."
}

func (a *AnalyzeWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the CSV file to analyze.",
			},
		},
		"required": []string{"path"},
	}
}

func (a *AnalyzeWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if a.Evaluator == nil {
		return "Error: Evaluator not initialized.", nil
	}

	path, _ := args["path"].(string)
	if path == "" {
		return "Error: 'path' is required.", nil
	}

	if progress != nil {
		progress(fmt.Sprintf("Analyzing %s...", path))
	}

	rep, err := a.Evaluator.Analyze(path)
	if err != nil {
		// The model gets the same message an HTTP caller would
		return fmt.Sprintf("Error: %s", err), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compliance analysis of %s:\n", path))
	sb.WriteString(fmt.Sprintf("Overall posture: %s\n", rep.Posture))
	sb.WriteString(fmt.Sprintf("Findings: %d\n\n", len(rep.Findings)))

	for i, f := range rep.Findings {
		sb.WriteString(fmt.Sprintf("%d. [%s/%s] %s\n", i+1, f.Assessment.RiskLevel, f.Assessment.Severity, f.ControlID))
		sb.WriteString(fmt.Sprintf("   %s\n", f.Description))
		sb.WriteString(fmt.Sprintf("   Recommendations: %s\n", strings.Join(f.Assessment.Recommendations, " ")))
		sb.WriteString(fmt.Sprintf("   Evidence required: %s\n", strings.Join(f.EvidenceRequired, " ")))
	}

	return sb.String(), nil
}
