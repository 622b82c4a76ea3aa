package repositories

import "context"

// DashboardCounts are the aggregate numbers shown on the supervisor
// dashboard.
type DashboardCounts struct {
	TotalStudents        int64 `json:"total_students"`
	TotalTeachers        int64 `json:"total_teachers"`
	TotalAllowedStudents int64 `json:"total_allowed_students"`
	TotalAllowedTeachers int64 `json:"total_allowed_teachers"`
	TotalFiles           int64 `json:"total_files"`
	TotalResults         int64 `json:"total_results"`
}

// DashboardRepository answers the aggregate queries behind dashboards.
type DashboardRepository interface {
	GetCounts(ctx context.Context) (*DashboardCounts, error)
}
