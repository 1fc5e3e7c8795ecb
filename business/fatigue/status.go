package fatigue

import "adFatigue/domain"

// StatusFor bands a 0-100 total. With the defaults: <30 healthy, 30-49 caution,
// 50-74 warning, >=75 critical.
func (cfg Config) StatusFor(total int) domain.FatigueStatus {
	s := cfg.Status
	switch {
	case total >= s.CriticalFrom:
		return domain.StatusCritical
	case total >= s.WarningFrom:
		return domain.StatusWarning
	case total >= s.CautionFrom:
		return domain.StatusCaution
	default:
		return domain.StatusHealthy
	}
}

// PrimaryIssue returns the highest sub-score. Ties go to audience, then creative,
// then algorithm.
func PrimaryIssue(creative, audience, algorithm float64) domain.FatigueIssue {
	issue, top := domain.IssueAudience, audience
	if creative > top {
		issue, top = domain.IssueCreative, creative
	}
	if algorithm > top {
		issue = domain.IssueAlgorithm
	}
	return issue
}
