package entities

import (
	"time"

	"chathub/internal/domain/space"
)

// Space represents the database schema for workspaces.
type Space struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID    string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name        string `gorm:"type:varchar(128);not null"`
	Instruction string `gorm:"type:text"`
}

// TableName specifies the table name for Space.
func (Space) TableName() string {
	return "spaces"
}

// EtoD converts the database entity to the domain model.
func (s *Space) EtoD() *space.Space {
	return &space.Space{
		ID:          s.ID,
		PublicID:    s.PublicID,
		Name:        s.Name,
		Instruction: s.Instruction,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// NewSchemaSpace creates a database entity from the domain model.
func NewSchemaSpace(s *space.Space) *Space {
	return &Space{
		ID:          s.ID,
		PublicID:    s.PublicID,
		Name:        s.Name,
		Instruction: s.Instruction,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
