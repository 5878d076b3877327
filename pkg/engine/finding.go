package engine

// RiskLevel is the 3PAO risk rating attached to a finding
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Severity is the 3PAO severity rating attached to a finding
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Assessment is the assessor's view of a single gap
type Assessment struct {
	RiskLevel       RiskLevel `json:"risk_level"`
	Severity        Severity  `json:"severity"`
	Recommendations []string  `json:"recommendations"`
}

// Finding represents one compliance gap raised by a rule against a row
type Finding struct {
	ControlID              string     `json:"control_id"` // one or more catalog ids, comma-joined
	Description            string     `json:"description"`
	Assessment             Assessment `json:"3pao_assessment"`
	EvidenceRequired       []string   `json:"evidence_required"`
	ExpectedCompliantState string     `json:"expected_compliant_state"`
}

// Posture is the report-level compliance verdict
type Posture string

const (
	PostureCompliant                      Posture = "Compliant"
	PostureMinorIssues                    Posture = "Minor Issues Identified"
	PostureRequiresImprovement            Posture = "Requires Improvement"
	PostureRequiresSignificantImprovement Posture = "Requires Significant Improvement"
)

// Report is the result of one analysis
type Report struct {
	Posture  Posture   `json:"overall_compliance_posture"`
	Findings []Finding `json:"findings_and_gaps"`
}

// NewReport derives the posture from findings. The slice is copied so the
// report never aliases caller state.
func NewReport(findings []Finding) *Report {
	owned := make([]Finding, len(findings))
	copy(owned, findings)
	return &Report{
		Posture:  Aggregate(owned),
		Findings: owned,
	}
}
