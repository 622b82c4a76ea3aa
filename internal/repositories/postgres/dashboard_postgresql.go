package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
)

type dashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardPostgreSQL{db: db}
}

func (r *dashboardPostgreSQL) GetCounts(ctx context.Context) (*repositories.DashboardCounts, error) {
	counts := &repositories.DashboardCounts{}

	type countQuery struct {
		dest  *int64
		model interface{}
		where []interface{}
	}

	queries := []countQuery{
		{&counts.TotalStudents, &models.User{}, []interface{}{"role = ?", models.RoleStudent}},
		{&counts.TotalTeachers, &models.User{}, []interface{}{"role = ?", models.RoleTeacher}},
		{&counts.TotalAllowedStudents, &models.AllowedStudent{}, nil},
		{&counts.TotalAllowedTeachers, &models.AllowedTeacher{}, nil},
		{&counts.TotalFiles, &models.UploadedFile{}, nil},
		{&counts.TotalResults, &models.SemesterResult{}, nil},
	}

	for _, q := range queries {
		query := r.db.WithContext(ctx).Model(q.model)
		if q.where != nil {
			query = query.Where(q.where[0], q.where[1:]...)
		}
		if err := query.Count(q.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count dashboard totals: %w", err)
		}
	}

	return counts, nil
}
