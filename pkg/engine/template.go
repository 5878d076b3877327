package engine

import (
	"bytes"
	"fmt"
	"text/template"
)

// FindingTemplate is the fixed part of a finding. Description is a
// text/template rendered against the triggering Row, so
// {{.Value "username"}} expands to the cell or to "N/A".
type FindingTemplate struct {
	ControlID              string
	Description            string
	RiskLevel              RiskLevel
	Severity               Severity
	Recommendations        []string
	EvidenceRequired       []string
	ExpectedCompliantState string
}

type compiledTemplate struct {
	FindingTemplate
	desc *template.Template
}

func compileTemplate(name string, ft FindingTemplate) (compiledTemplate, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(ft.Description)
	if err != nil {
		return compiledTemplate{}, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return compiledTemplate{FindingTemplate: ft, desc: t}, nil
}

// render builds a Finding for row. Slices are copied so findings never share
// backing arrays with the rule table.
func (c compiledTemplate) render(row Row) (Finding, error) {
	var buf bytes.Buffer
	if err := c.desc.Execute(&buf, row); err != nil {
		return Finding{}, fmt.Errorf("failed to execute template %s: %w", c.desc.Name(), err)
	}
	return Finding{
		ControlID:   c.ControlID,
		Description: buf.String(),
		Assessment: Assessment{
			RiskLevel:       c.RiskLevel,
			Severity:        c.Severity,
			Recommendations: cloneStrings(c.Recommendations),
		},
		EvidenceRequired:       cloneStrings(c.EvidenceRequired),
		ExpectedCompliantState: c.ExpectedCompliantState,
	}, nil
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
