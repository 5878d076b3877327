package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func finding(risk RiskLevel) Finding {
	return Finding{ControlID: "X.1", Assessment: Assessment{RiskLevel: risk}}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		findings []Finding
		want     Posture
	}{
		{"no findings", nil, PostureCompliant},
		{"empty slice", []Finding{}, PostureCompliant},
		{"any high wins", []Finding{finding(RiskLow), finding(RiskMedium), finding(RiskHigh)}, PostureRequiresSignificantImprovement},
		{"medium without high", []Finding{finding(RiskLow), finding(RiskMedium)}, PostureRequiresImprovement},
		{"only low", []Finding{finding(RiskLow), finding(RiskLow)}, PostureMinorIssues},
		{"unknown risk falls through", []Finding{finding("")}, PostureMinorIssues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.findings))
		})
	}
}

func TestNewReport_CompliantIffNoFindings(t *testing.T) {
	empty := NewReport(nil)
	assert.Equal(t, PostureCompliant, empty.Posture)
	assert.NotNil(t, empty.Findings)
	assert.Empty(t, empty.Findings)

	withFinding := NewReport([]Finding{finding(RiskLow)})
	assert.NotEqual(t, PostureCompliant, withFinding.Posture)
}

func TestNewReport_CopiesFindings(t *testing.T) {
	in := []Finding{finding(RiskHigh)}
	rep := NewReport(in)

	in[0].ControlID = "changed"
	assert.Equal(t, "X.1", rep.Findings[0].ControlID)
}
