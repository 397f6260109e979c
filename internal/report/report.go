// Package report derives dashboard statistics from the complaint set. It is a
// pure read-side view recomputed on every request; nothing here is persisted.
package report

import (
	"strings"

	"github.com/suPer8Hu/helpdesk/internal/kb"
	"github.com/suPer8Hu/helpdesk/internal/models"
)

type DepartmentStats struct {
	Name           string   `json:"name"`
	TotalIssues    int      `json:"total_issues"`
	CommonProblems []string `json:"common_problems"`
	Trend          string   `json:"trend"`
}

type HardwareStats struct {
	Type           string   `json:"type"`
	TotalIssues    int      `json:"total_issues"`
	CommonProblems []string `json:"common_problems"`
	ResolutionRate int      `json:"resolution_rate"`
}

type Prediction struct {
	Employee         string `json:"employee"`
	Department       string `json:"department"`
	Hardware         string `json:"hardware"`
	PredictedFailure string `json:"predicted_failure"`
	RiskLevel        string `json:"risk_level"`
	RiskLevelColor   string `json:"risk_level_color"`
}

// complaintDepartment prefers the intake snapshot, falling back to the
// reporter's current profile.
func complaintDepartment(c *models.Complaint) string {
	if c.EmployeeDepartment != "" {
		return c.EmployeeDepartment
	}
	return c.User.Department
}

// ByDepartment groups complaints by department with their distinct issues.
func ByDepartment(complaints []models.Complaint) []DepartmentStats {
	order := []string{}
	byName := map[string]*DepartmentStats{}

	for i := range complaints {
		c := &complaints[i]
		dept := complaintDepartment(c)
		st, ok := byName[dept]
		if !ok {
			st = &DepartmentStats{Name: dept, Trend: "stable"}
			byName[dept] = st
			order = append(order, dept)
		}
		st.TotalIssues++
		if !contains(st.CommonProblems, c.Issue) {
			st.CommonProblems = append(st.CommonProblems, c.Issue)
		}
	}

	out := make([]DepartmentStats, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

// ByHardware buckets complaints with the knowledge-base classifier and
// computes a resolution rate per bucket.
func ByHardware(complaints []models.Complaint) []HardwareStats {
	order := []string{}
	byType := map[string]*HardwareStats{}
	resolved := map[string]int{}

	for i := range complaints {
		c := &complaints[i]
		hw := string(kb.Classify(c.Issue))
		st, ok := byType[hw]
		if !ok {
			st = &HardwareStats{Type: hw}
			byType[hw] = st
			order = append(order, hw)
		}
		st.TotalIssues++
		if !contains(st.CommonProblems, c.Issue) {
			st.CommonProblems = append(st.CommonProblems, c.Issue)
		}
		if c.Status == models.StatusResolved {
			resolved[hw]++
		}
	}

	out := make([]HardwareStats, 0, len(order))
	for _, hw := range order {
		st := byType[hw]
		if st.TotalIssues > 0 {
			st.ResolutionRate = int(float64(resolved[hw])/float64(st.TotalIssues)*100 + 0.5)
		}
		out = append(out, *st)
	}
	return out
}

// Predictions flags repeat offenders: an employee filing the same issue text
// repeatedly gets a rising risk tier and a projected failure window.
func Predictions(complaints []models.Complaint) []Prediction {
	type key struct{ name, dept, issue string }
	counts := map[key]int{}
	for i := range complaints {
		c := &complaints[i]
		if c.EmployeeName == "" || c.EmployeeDepartment == "" {
			continue
		}
		counts[key{c.EmployeeName, c.EmployeeDepartment, strings.ToLower(c.Issue)}]++
	}

	seen := map[string]bool{}
	var out []Prediction
	for i := range complaints {
		c := &complaints[i]
		if c.EmployeeName == "" || c.EmployeeDepartment == "" || seen[c.EmployeeName] {
			continue
		}
		seen[c.EmployeeName] = true

		similar := counts[key{c.EmployeeName, c.EmployeeDepartment, strings.ToLower(c.Issue)}]

		risk, color, window := "Low", "success", "No immediate risk"
		switch {
		case similar > 3:
			risk, color, window = "High", "danger", "Within 30 days"
		case similar > 1:
			risk, color, window = "Medium", "warning", "Within 90 days"
		}

		out = append(out, Prediction{
			Employee:         c.EmployeeName,
			Department:       c.EmployeeDepartment,
			Hardware:         string(kb.Classify(c.Issue)),
			PredictedFailure: window,
			RiskLevel:        risk,
			RiskLevelColor:   color,
		})
	}
	return out
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
