package engine

// Aggregate rolls findings up into one posture. The checks run in priority
// order and the first match wins.
func Aggregate(findings []Finding) Posture {
	if len(findings) == 0 {
		return PostureCompliant
	}
	if anyRisk(findings, RiskHigh) {
		return PostureRequiresSignificantImprovement
	}
	if anyRisk(findings, RiskMedium) {
		return PostureRequiresImprovement
	}
	return PostureMinorIssues
}

func anyRisk(findings []Finding, level RiskLevel) bool {
	for _, f := range findings {
		if f.Assessment.RiskLevel == level {
			return true
		}
	}
	return false
}
