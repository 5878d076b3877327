package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rajdefenseye/CMMC-lens3/pkg/catalog"
	"github.com/rajdefenseye/CMMC-lens3/pkg/engine"
)

// ErrorPayload is what callers receive instead of a report when analysis fails
type ErrorPayload struct {
	Error string `json:"error"`
}

// JSON encodes a report in the wire shape, indented by two spaces
func JSON(rep *engine.Report) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("nil report")
	}
	if rep.Findings == nil {
		cp := *rep
		cp.Findings = []engine.Finding{}
		rep = &cp
	}
	return json.MarshalIndent(rep, "", "  ")
}

// Encode returns the report JSON, or the error payload when err is set.
// Any error, classified or not, ends up as {"error": "<message>"}.
func Encode(rep *engine.Report, err error) ([]byte, error) {
	if err != nil {
		return json.MarshalIndent(ErrorPayload{Error: engine.Classify(err).Error()}, "", "  ")
	}
	return JSON(rep)
}

// Markdown renders a human-readable report. Control descriptions come from
// the catalog; ids it does not know are shown bare.
func Markdown(rep *engine.Report, cat *catalog.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# CMMC compliance report\n\n")
	fmt.Fprintf(&b, "- Overall posture: **%s**\n", rep.Posture)
	fmt.Fprintf(&b, "- Findings: `%d`\n\n", len(rep.Findings))

	if len(rep.Findings) == 0 {
		b.WriteString("No findings or gaps identified.\n")
		return b.String()
	}

	writeSummary(&b, rep, cat)

	for i, f := range rep.Findings {
		fmt.Fprintf(&b, "## %d. [%s] %s\n\n", i+1, strings.ToUpper(string(f.Assessment.Severity)), f.ControlID)
		fmt.Fprintf(&b, "%s\n\n", f.Description)
		for _, ctl := range cat.Resolve(f.ControlID) {
			fmt.Fprintf(&b, "> `%s` %s\n", ctl.ID, ctl.Description)
		}
		fmt.Fprintf(&b, "\n- Risk level: %s\n", f.Assessment.RiskLevel)
		fmt.Fprintf(&b, "- Severity: %s\n", f.Assessment.Severity)
		writeList(&b, "Recommendations", f.Assessment.Recommendations)
		writeList(&b, "Evidence required", f.EvidenceRequired)
		fmt.Fprintf(&b, "- Expected compliant state: %s\n\n", f.ExpectedCompliantState)
	}
	return b.String()
}

func writeSummary(b *strings.Builder, rep *engine.Report, cat *catalog.Catalog) {
	bySeverity := map[engine.Severity]int{}
	byDomain := map[string]int{}
	for _, f := range rep.Findings {
		bySeverity[f.Assessment.Severity]++
		seen := map[string]bool{}
		for _, id := range catalog.SplitIDs(f.ControlID) {
			name := "Unknown"
			if d, ok := cat.DomainOf(id); ok {
				name = d.Name
			}
			if !seen[name] {
				byDomain[name]++
				seen[name] = true
			}
		}
	}

	b.WriteString("| Severity | Count |\n|----------|-------|\n")
	for _, s := range []engine.Severity{engine.SeverityCritical, engine.SeverityHigh, engine.SeverityMedium, engine.SeverityLow} {
		if n := bySeverity[s]; n > 0 {
			fmt.Fprintf(b, "| %s | %d |\n", s, n)
		}
	}
	b.WriteString("\n| Domain | Findings |\n|--------|----------|\n")
	domains := make([]string, 0, len(byDomain))
	for d := range byDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	for _, d := range domains {
		fmt.Fprintf(b, "| %s | %d |\n", d, byDomain[d])
	}
	b.WriteString("\n")
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "- %s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}
