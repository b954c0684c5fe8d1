// Package matching computes how well a candidate fits a shift's stated
// requirements. It is purely informational: the result is rendered to the
// applicant and never blocks a submission.
package matching

import (
	"strings"

	"shiftdesk/internal/models"
)

// RoleCheckLabel is the label of the first check in every result.
const RoleCheckLabel = "role"

// Check is one requirement line in the evaluation output.
type Check struct {
	Label   string
	Matched bool
}

// Result is the ordered evaluation of a candidate against a shift. Checks
// always starts with the role check, followed by one entry per shift
// requirement in the shift's own order.
type Result struct {
	Checks         []Check
	FullyQualified bool
}

// Evaluate compares the applicant's declared role and skills against the
// shift. The role check is a case-sensitive exact match; each requirement
// matches when it appears, case-insensitively, as a substring of any of
// the applicant's skills. Missing data degrades to false, never an error.
func Evaluate(applicant *models.User, shift *models.Shift) Result {
	checks := make([]Check, 0, len(shift.Requirements)+1)

	roleMatched := applicant != nil && applicant.WorkRole == shift.Role
	checks = append(checks, Check{Label: RoleCheckLabel, Matched: roleMatched})

	var skills []string
	if applicant != nil {
		skills = applicant.Skills
	}

	for _, requirement := range shift.Requirements {
		checks = append(checks, Check{
			Label:   requirement,
			Matched: skillsCover(skills, requirement),
		})
	}

	fully := true
	for _, c := range checks {
		if !c.Matched {
			fully = false
			break
		}
	}

	return Result{Checks: checks, FullyQualified: fully}
}

func skillsCover(skills []string, requirement string) bool {
	needle := strings.ToLower(strings.TrimSpace(requirement))
	if needle == "" {
		return false
	}
	for _, skill := range skills {
		if strings.Contains(strings.ToLower(skill), needle) {
			return true
		}
	}
	return false
}
