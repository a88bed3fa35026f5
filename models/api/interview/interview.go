package interviewapimodels

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"strings"
	"time"
)

type ParticipantData struct {
	ParticipantID string `json:"participant_id"`
	Role          string `json:"role"`
	IsLead        bool   `json:"is_lead"`
	Notes         string `json:"notes"`
}

func (p ParticipantData) Validate() error {
	if p.ParticipantID == "" {
		return pipelineerrors.InvalidArgument("не указан участник интервью")
	}
	return nil
}

type ScheduleRequest struct {
	RoundNumber     int                  `json:"round_number"`
	Title           string               `json:"title"`
	InterviewType   models.InterviewType `json:"interview_type"`
	ScheduledAt     time.Time            `json:"scheduled_at"`
	DurationMinutes int                  `json:"duration_minutes"`
	Mode            models.InterviewMode `json:"mode"`
	MeetingDetails  string               `json:"meeting_details"`
	Instructions    string               `json:"instructions"`
	Participants    []ParticipantData    `json:"participants"`
}

// Validate проверяет состав участников: без участников и без ведущего интервью не назначается
func (r ScheduleRequest) Validate() error {
	if r.RoundNumber <= 0 {
		return pipelineerrors.InvalidRoundNumber(r.RoundNumber, 1)
	}
	if r.ScheduledAt.IsZero() {
		return pipelineerrors.InvalidArgument("не указано время интервью")
	}
	if r.DurationMinutes <= 0 {
		return pipelineerrors.InvalidArgument("длительность интервью должна быть положительной")
	}
	if !r.Mode.IsValid() {
		return pipelineerrors.InvalidArgument("неизвестный формат интервью %q", r.Mode)
	}
	if r.InterviewType != "" && !r.InterviewType.IsValid() {
		return pipelineerrors.InvalidArgument("неизвестный тип интервью %q", r.InterviewType)
	}
	leads := 0
	seen := map[string]bool{}
	for _, p := range r.Participants {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.ParticipantID] {
			return pipelineerrors.DuplicateParticipant(p.ParticipantID)
		}
		seen[p.ParticipantID] = true
		if p.IsLead {
			leads++
		}
	}
	if leads != 1 {
		return pipelineerrors.NoLeadDesignated(leads)
	}
	return nil
}

type RescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
}

func (r RescheduleRequest) Validate() error {
	if r.ScheduledAt.IsZero() {
		return pipelineerrors.InvalidArgument("не указано новое время интервью")
	}
	return nil
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type CompleteRequest struct {
	Outcome models.InterviewOutcome `json:"outcome"`
	Summary string                  `json:"summary"`
}

func (r CompleteRequest) Validate() error {
	if r.Outcome != "" && !r.Outcome.IsValid() {
		return pipelineerrors.InvalidArgument("неизвестный результат интервью %q", r.Outcome)
	}
	return nil
}

type ReassignLeadRequest struct {
	ParticipantID string `json:"participant_id"`
}

func (r ReassignLeadRequest) Validate() error {
	if r.ParticipantID == "" {
		return pipelineerrors.InvalidArgument("не указан новый ведущий интервьюер")
	}
	return nil
}

type EvaluationRequest struct {
	EvaluatorID    string                `json:"evaluator_id"` // по умолчанию текущий пользователь
	Rating         *int                  `json:"rating"`
	Recommendation models.Recommendation `json:"recommendation"`
	Strengths      string                `json:"strengths"`
	Concerns       string                `json:"concerns"`
	Comments       string                `json:"comments"`
}

func (r EvaluationRequest) Validate() error {
	if r.EvaluatorID == "" {
		return pipelineerrors.InvalidArgument("не указан оценивающий сотрудник")
	}
	if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
		return pipelineerrors.InvalidArgument("оценка должна быть от 1 до 5")
	}
	if !r.Recommendation.IsValid() {
		return pipelineerrors.InvalidArgument("неизвестная рекомендация %q", r.Recommendation)
	}
	return nil
}

type ParticipantView struct {
	ParticipantData
	ID string `json:"id"`
}

type InterviewView struct {
	ID               string                   `json:"id"`
	ApplicationID    string                   `json:"application_id"`
	RoundNumber      int                      `json:"round_number"`
	Title            string                   `json:"title"`
	InterviewType    models.InterviewType     `json:"interview_type"`
	Status           models.InterviewStatus   `json:"status"`
	StatusName       string                   `json:"status_name"`
	ScheduledAt      time.Time                `json:"scheduled_at"`
	DurationMinutes  int                      `json:"duration_minutes"`
	Mode             models.InterviewMode     `json:"mode"`
	MeetingDetails   string                   `json:"meeting_details"`
	Instructions     string                   `json:"instructions"`
	ScheduledBy      string                   `json:"scheduled_by"`
	Outcome          *models.InterviewOutcome `json:"outcome"`
	Summary          string                   `json:"summary"`
	CancelReason     string                   `json:"cancel_reason"`
	RescheduleReason string                   `json:"reschedule_reason"`
	RescheduleCount  int                      `json:"reschedule_count"`
	Version          int64                    `json:"version"`
	Participants     []ParticipantView        `json:"participants"`
}

func InterviewConvert(rec dbmodels.Interview) InterviewView {
	result := InterviewView{
		ID:               rec.ID,
		ApplicationID:    rec.ApplicationID,
		RoundNumber:      rec.RoundNumber,
		Title:            rec.Title,
		InterviewType:    rec.InterviewType,
		Status:           rec.Status,
		StatusName:       rec.Status.ToHuman(),
		ScheduledAt:      rec.ScheduledAt,
		DurationMinutes:  rec.DurationMinutes,
		Mode:             rec.Mode,
		MeetingDetails:   rec.MeetingDetails,
		Instructions:     rec.Instructions,
		ScheduledBy:      rec.ScheduledBy,
		Outcome:          rec.Outcome,
		Summary:          rec.Summary,
		CancelReason:     rec.CancelReason,
		RescheduleReason: rec.RescheduleReason,
		RescheduleCount:  rec.RescheduleCount,
		Version:          rec.Version,
		Participants:     make([]ParticipantView, 0, len(rec.Participants)),
	}
	for _, p := range rec.Participants {
		result.Participants = append(result.Participants, ParticipantConvert(p))
	}
	return result
}

func ParticipantConvert(rec dbmodels.InterviewParticipant) ParticipantView {
	return ParticipantView{
		ParticipantData: ParticipantData{
			ParticipantID: rec.ParticipantID,
			Role:          rec.Role,
			IsLead:        rec.IsLead,
			Notes:         rec.Notes,
		},
		ID: rec.ID,
	}
}

type EvaluationView struct {
	ID             string                `json:"id"`
	EvaluatorID    string                `json:"evaluator_id"`
	Rating         *int                  `json:"rating"`
	Recommendation models.Recommendation `json:"recommendation"`
	Strengths      string                `json:"strengths"`
	Concerns       string                `json:"concerns"`
	Comments       string                `json:"comments"`
	CreatedAt      time.Time             `json:"created_at"`
}

func EvaluationConvert(rec dbmodels.InterviewEvaluation) EvaluationView {
	return EvaluationView{
		ID:             rec.ID,
		EvaluatorID:    rec.EvaluatorID,
		Rating:         rec.Rating,
		Recommendation: rec.Recommendation,
		Strengths:      strings.TrimSpace(rec.Strengths),
		Concerns:       strings.TrimSpace(rec.Concerns),
		Comments:       strings.TrimSpace(rec.Comments),
		CreatedAt:      rec.CreatedAt,
	}
}

type EvaluationSummaryView struct {
	InterviewID   string                        `json:"interview_id"`
	Participants  int                           `json:"participants"`
	Submitted     int                           `json:"submitted"`
	Pending       []string                      `json:"pending"` // участники без оценки
	Tally         map[models.Recommendation]int `json:"tally"`
	AverageRating *float64                      `json:"average_rating"`
	LeadEvaluated bool                          `json:"lead_evaluated"`
	Quorum        models.EvaluationQuorum       `json:"quorum"`
	QuorumReached bool                          `json:"quorum_reached"`
	Verdict       models.EvaluationVerdict      `json:"verdict"`
	Evaluations   []EvaluationView              `json:"evaluations"`
}
