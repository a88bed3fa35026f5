package dbmodels

import (
	"hr-pipeline-backend/models"
	"time"
)

type JobApplication struct {
	VersionedModel
	CandidateID        string                   `gorm:"type:varchar(36);not null;uniqueIndex:idx_application_candidate_position,priority:1"`
	Candidate          *Candidate               `gorm:"foreignKey:CandidateID"`
	JobPositionID      string                   `gorm:"type:varchar(36);not null;uniqueIndex:idx_application_candidate_position,priority:2"`
	JobPosition        *JobPosition             `gorm:"foreignKey:JobPositionID"`
	Status             models.ApplicationStatus `gorm:"type:varchar(50);index"`
	AppliedAt          time.Time
	AssignedReviewerID *string `gorm:"type:varchar(36)"`
	RejectionReason    *string
	IsActive           bool
}

type ApplicationFilter struct {
	JobPositionID string
	CandidateID   string
	Status        models.ApplicationStatus
	ActiveOnly    bool
	Page          int
	Limit         int
}
