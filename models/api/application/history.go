package applicationapimodels

import (
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"time"
)

type HistoryView struct {
	Sequence       int                      `json:"sequence"`
	FromStatus     models.ApplicationStatus `json:"from_status"`
	FromStatusName string                   `json:"from_status_name"`
	ToStatus       models.ApplicationStatus `json:"to_status"`
	ToStatusName   string                   `json:"to_status_name"`
	ActorID        string                   `json:"actor_id"`
	ChangedAt      time.Time                `json:"changed_at"`
	Comment        string                   `json:"comment"`
}

func HistoryConvert(rec dbmodels.ApplicationStatusHistory) HistoryView {
	return HistoryView{
		Sequence:       rec.Sequence,
		FromStatus:     rec.FromStatus,
		FromStatusName: rec.FromStatus.ToHuman(),
		ToStatus:       rec.ToStatus,
		ToStatusName:   rec.ToStatus.ToHuman(),
		ActorID:        rec.ActorID,
		ChangedAt:      rec.ChangedAt,
		Comment:        rec.Comment,
	}
}
