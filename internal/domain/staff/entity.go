// internal/domain/staff/entity.go
package staff

import (
	"time"

	"gorm.io/gorm"
)

// Employee links an authenticated identity to inventory activity. Stock
// transactions and orders carry a nullable employee id; commands from
// unauthenticated or unlinked callers still proceed with a null actor.
type Employee struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string         `gorm:"not null;size:255" json:"-"`
	IsAdmin      bool           `gorm:"default:false" json:"is_admin"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
