package participantstore

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.InterviewParticipant) (id string, err error)
	List(interviewID string) (list []dbmodels.InterviewParticipant, err error)
	Get(interviewID, participantID string) (rec *dbmodels.InterviewParticipant, err error)
	SetLead(interviewID, participantID string, isLead bool) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.InterviewParticipant) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", pipelineerrors.DuplicateParticipant(rec.ParticipantID)
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(interviewID string) (list []dbmodels.InterviewParticipant, err error) {
	list = []dbmodels.InterviewParticipant{}
	err = i.db.
		Model(&dbmodels.InterviewParticipant{}).
		Where("interview_id = ?", interviewID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Get(interviewID, participantID string) (*dbmodels.InterviewParticipant, error) {
	rec := dbmodels.InterviewParticipant{}
	err := i.db.
		Model(&dbmodels.InterviewParticipant{}).
		Where("interview_id = ? and participant_id = ?", interviewID, participantID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) SetLead(interviewID, participantID string, isLead bool) error {
	tx := i.db.
		Model(&dbmodels.InterviewParticipant{}).
		Where("interview_id = ? and participant_id = ?", interviewID, participantID).
		Update("is_lead", isLead)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return pipelineerrors.ParticipantNotFound(participantID)
	}
	return nil
}
