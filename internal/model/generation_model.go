package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GenerationStatusProcessing = "processing"
	GenerationStatusCompleted  = "completed"
	GenerationStatusFailed     = "failed"
)

type Generation struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResumeName       string    `gorm:"type:varchar(255)" json:"resume_name"`
	ResumeText       string    `gorm:"type:text" json:"resume_text"`
	JobDescription   string    `gorm:"type:text" json:"job_description"`
	RecruiterMessage string    `gorm:"type:text" json:"recruiter_message"`
	CoverLetter      string    `gorm:"type:text" json:"cover_letter"`
	Provider         string    `gorm:"type:varchar(50)" json:"provider"`
	Model            string    `gorm:"type:varchar(100)" json:"model"`
	Status           string    `gorm:"type:varchar(50)" json:"status"` // processing, completed, failed
	Error            string    `gorm:"type:text" json:"error"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (g *Generation) TableName() string {
	return "generations"
}

func (g *Generation) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
