// internal/domain/staff/service.go
package staff

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Service handles employee lookups
type Service struct {
	db *gorm.DB
}

// NewService creates a new staff service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// FindByEmail returns the employee for an authenticated email, or nil when
// the identity is not linked to an employee record.
func (s *Service) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}

	var employee Employee
	err := s.db.WithContext(ctx).Where("LOWER(email) = ?", email).First(&employee).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}
	return &employee, nil
}
