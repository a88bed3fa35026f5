package dbmodels

import (
	"hr-pipeline-backend/models"
	"time"
)

type Interview struct {
	VersionedModel
	ApplicationID    string                  `gorm:"type:varchar(36);not null;uniqueIndex:idx_interview_round,priority:1"`
	RoundNumber      int                     `gorm:"not null;uniqueIndex:idx_interview_round,priority:2"`
	Title            string                  `gorm:"type:varchar(255)"`
	InterviewType    models.InterviewType    `gorm:"type:varchar(50)"`
	Status           models.InterviewStatus  `gorm:"type:varchar(50);index"`
	ScheduledAt      time.Time
	DurationMinutes  int
	Mode             models.InterviewMode `gorm:"type:varchar(50)"`
	MeetingDetails   string
	Instructions     string
	ScheduledBy      string                   `gorm:"type:varchar(64)"`
	Outcome          *models.InterviewOutcome `gorm:"type:varchar(50)"`
	Summary          string
	CancelReason     string
	RescheduleReason string
	RescheduleCount  int
	IsActive         bool
	Participants     []InterviewParticipant `gorm:"foreignKey:InterviewID"`
}

type InterviewParticipant struct {
	BaseModel
	InterviewID   string `gorm:"type:varchar(36);not null;uniqueIndex:idx_interview_participant,priority:1"`
	ParticipantID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_interview_participant,priority:2"`
	Role          string `gorm:"type:varchar(100)"`
	IsLead        bool
	Notes         string
}

type InterviewEvaluation struct {
	BaseModel
	InterviewID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_interview_evaluator,priority:1"`
	EvaluatorID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_interview_evaluator,priority:2"`
	Rating         *int
	Strengths      string
	Concerns       string
	Comments       string
	Recommendation models.Recommendation `gorm:"type:varchar(50)"`
}
