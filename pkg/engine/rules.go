package engine

import (
	"strings"
	"unicode/utf8"
)

// NotApplicable stands in for a column the row does not carry
const NotApplicable = "N/A"

// MinPasswordLength is the shortest password the weak_password rule accepts
const MinPasswordLength = 12

// Row is one CSV record keyed by header column name. A missing key means
// the column is absent for this row.
type Row map[string]string

// Get returns the cell for column and whether the row carries it
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Value returns the cell for column, or NotApplicable when absent
func (r Row) Value(column string) string {
	if v, ok := r[column]; ok {
		return v
	}
	return NotApplicable
}

// Predicate decides whether a rule fires for a row. Predicates must be pure
// and must return false when a column they need is absent.
type Predicate func(Row) bool

// Rule pairs a named predicate with the finding it emits
type Rule struct {
	Name      string
	Predicate Predicate
	template  compiledTemplate
}

// NewRule compiles the description template of ft
func NewRule(name string, p Predicate, ft FindingTemplate) (Rule, error) {
	ct, err := compileTemplate(name, ft)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Name: name, Predicate: p, template: ct}, nil
}

// MustRule is NewRule for static rule tables
func MustRule(name string, p Predicate, ft FindingTemplate) Rule {
	r, err := NewRule(name, p, ft)
	if err != nil {
		panic(err)
	}
	return r
}

// Apply returns the rule's finding for row, or nil if the predicate does not hold
func (r Rule) Apply(row Row) (*Finding, error) {
	if r.Predicate == nil || !r.Predicate(row) {
		return nil, nil
	}
	f, err := r.template.render(row)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Template returns the finding template the rule was built from
func (r Rule) Template() FindingTemplate {
	return r.template.FindingTemplate
}

var defaultRules = []Rule{
	MustRule("public_website_content", publicWebsiteContent, FindingTemplate{
		ControlID:   "AC.L1-3.5.7",
		Description: "Website content contains potentially sensitive information and lacks appropriate controls for public access.",
		RiskLevel:   RiskHigh,
		Severity:    SeverityCritical,
		Recommendations: []string{
			"Review all website content for CUI.  Implement access controls to protect sensitive data.",
			"Conduct regular audits of website content to ensure compliance.",
		},
		EvidenceRequired: []string{
			"Documentation of website content review process.",
			"Access control policies and configurations.",
			"Website audit logs.",
		},
		ExpectedCompliantState: "Website content containing CUI is protected by appropriate access controls and regularly reviewed.",
	}),
	MustRule("weak_password", weakPassword, FindingTemplate{
		ControlID:   "AC.L2-3.1.1, AC.L2-3.1.2",
		Description: `Weak password found for user '{{.Value "username"}}' (length < 12 characters).`,
		RiskLevel:   RiskHigh,
		Severity:    SeverityHigh,
		Recommendations: []string{
			"Enforce strong password policies (minimum 12 characters, complexity requirements).",
			"Implement multi-factor authentication (MFA).",
		},
		EvidenceRequired: []string{
			"Password policy documentation.",
			"System configuration showing MFA enabled (if applicable).",
			"Evidence of password reset/change for affected user.",
		},
		ExpectedCompliantState: "All user passwords meet strong password policy requirements.",
	}),
	MustRule("missing_audit_logging", missingAuditLogging, FindingTemplate{
		ControlID:   "AU.L2-3.3.1, AU.L2-3.3.2",
		Description: `Audit logging is not enabled for '{{.Value "system_component"}}' or audit logs are missing.`,
		RiskLevel:   RiskHigh,
		Severity:    SeverityCritical,
		Recommendations: []string{
			"Enable audit logging for all relevant system components.",
			"Ensure audit logs capture sufficient detail to trace events back to their initiators.",
		},
		EvidenceRequired: []string{
			"System configuration demonstrating audit logging enabled.",
			"Sample audit logs showing event traceability.",
			"Audit log retention policy.",
		},
		ExpectedCompliantState: "Comprehensive audit logs are enabled and retained, capturing all relevant security events with traceability.",
	}),
}

// DefaultRules returns the built-in rules in evaluation order
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

func publicWebsiteContent(row Row) bool {
	v, ok := row.Get("website_content")
	return ok && strings.Contains(strings.ToLower(v), "public")
}

func weakPassword(row Row) bool {
	v, ok := row.Get("password")
	return ok && utf8.RuneCountInString(v) < MinPasswordLength
}

func missingAuditLogging(row Row) bool {
	v, ok := row.Get("audit_log_present")
	return ok && strings.ToLower(v) == "no"
}
