package evaluationstore

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.InterviewEvaluation) (id string, err error)
	Exists(interviewID, evaluatorID string) (bool, error)
	List(interviewID string) (list []dbmodels.InterviewEvaluation, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.InterviewEvaluation) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", pipelineerrors.DuplicateEvaluation(rec.EvaluatorID)
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Exists(interviewID, evaluatorID string) (bool, error) {
	var exists bool
	err := i.db.Model(&dbmodels.InterviewEvaluation{}).
		Select("count(*) > 0").
		Where("interview_id = ? and evaluator_id = ?", interviewID, evaluatorID).
		Find(&exists).
		Error
	return exists, err
}

func (i impl) List(interviewID string) (list []dbmodels.InterviewEvaluation, err error) {
	list = []dbmodels.InterviewEvaluation{}
	err = i.db.
		Model(&dbmodels.InterviewEvaluation{}).
		Where("interview_id = ?", interviewID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
