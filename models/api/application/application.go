package applicationapimodels

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	"hr-pipeline-backend/models"
	apimodels "hr-pipeline-backend/models/api"
	dbmodels "hr-pipeline-backend/models/db"
	"strings"
	"time"
)

type SubmitRequest struct {
	CandidateID   string `json:"candidate_id"`
	JobPositionID string `json:"job_position_id"`
}

func (r SubmitRequest) Validate() error {
	if r.CandidateID == "" {
		return pipelineerrors.InvalidArgument("не указан кандидат")
	}
	if r.JobPositionID == "" {
		return pipelineerrors.InvalidArgument("не указана вакансия")
	}
	return nil
}

type AdvanceRequest struct {
	Status  models.ApplicationStatus `json:"status"`
	Comment string                   `json:"comment"`
}

func (r AdvanceRequest) Validate() error {
	if !r.Status.IsValid() {
		return pipelineerrors.InvalidArgument("неизвестный статус %q", r.Status)
	}
	return nil
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r RejectRequest) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return pipelineerrors.ReasonRequired()
	}
	return nil
}

type WithdrawRequest struct {
	Reason string `json:"reason"`
}

type AssignReviewerRequest struct {
	ReviewerID string `json:"reviewer_id"`
}

func (r AssignReviewerRequest) Validate() error {
	if r.ReviewerID == "" {
		return pipelineerrors.InvalidArgument("не указан ответственный сотрудник")
	}
	return nil
}

type ListFilter struct {
	apimodels.Pagination
	JobPositionID string                   `json:"job_position_id"`
	CandidateID   string                   `json:"candidate_id"`
	Status        models.ApplicationStatus `json:"status"`
	ActiveOnly    bool                     `json:"active_only"`
}

func (r ListFilter) Validate() error {
	if r.Status != "" && !r.Status.IsValid() {
		return pipelineerrors.InvalidArgument("неизвестный статус %q", r.Status)
	}
	return nil
}

func (r ListFilter) ToDB() dbmodels.ApplicationFilter {
	page, limit := r.GetPage()
	return dbmodels.ApplicationFilter{
		JobPositionID: r.JobPositionID,
		CandidateID:   r.CandidateID,
		Status:        r.Status,
		ActiveOnly:    r.ActiveOnly,
		Page:          page,
		Limit:         limit,
	}
}

type ApplicationView struct {
	ID                 string                   `json:"id"`
	CandidateID        string                   `json:"candidate_id"`
	CandidateName      string                   `json:"candidate_name"`
	JobPositionID      string                   `json:"job_position_id"`
	JobTitle           string                   `json:"job_title"`
	Status             models.ApplicationStatus `json:"status"`
	StatusName         string                   `json:"status_name"`
	AppliedAt          time.Time                `json:"applied_at"`
	AssignedReviewerID *string                  `json:"assigned_reviewer_id"`
	RejectionReason    *string                  `json:"rejection_reason"`
	IsActive           bool                     `json:"is_active"`
	Version            int64                    `json:"version"`
}

func ApplicationConvert(rec dbmodels.JobApplication) ApplicationView {
	result := ApplicationView{
		ID:                 rec.ID,
		CandidateID:        rec.CandidateID,
		JobPositionID:      rec.JobPositionID,
		Status:             rec.Status,
		StatusName:         rec.Status.ToHuman(),
		AppliedAt:          rec.AppliedAt,
		AssignedReviewerID: rec.AssignedReviewerID,
		RejectionReason:    rec.RejectionReason,
		IsActive:           rec.IsActive,
		Version:            rec.Version,
	}
	if rec.Candidate != nil {
		result.CandidateName = rec.Candidate.GetFullName()
	}
	if rec.JobPosition != nil {
		result.JobTitle = rec.JobPosition.Title
	}
	return result
}
