package memorytx

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"sort"
	"time"
)

type applicationStore struct{ tx *txState }

func (s *applicationStore) Create(rec dbmodels.JobApplication) (string, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, app := range d.applications {
		if app.CandidateID == rec.CandidateID && app.JobPositionID == rec.JobPositionID {
			return "", pipelineerrors.ApplicationAlreadyExists()
		}
	}
	d.initBase(&rec.BaseModel)
	if rec.Version == 0 {
		rec.Version = 1
	}
	rec.Candidate, rec.JobPosition = nil, nil
	s.tx.addUndo(restoreFn(d.applications, rec.ID))
	d.applications[rec.ID] = rec
	return rec.ID, nil
}

func (s *applicationStore) GetByID(id string) (*dbmodels.JobApplication, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.applications[id]
	if !ok {
		return nil, nil
	}
	if c, ok := d.candidates[rec.CandidateID]; ok {
		rec.Candidate = &c
	}
	if p, ok := d.positions[rec.JobPositionID]; ok {
		rec.JobPosition = &p
	}
	return &rec, nil
}

func (s *applicationStore) ExistsForPair(candidateID, jobPositionID string) (bool, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, app := range d.applications {
		if app.CandidateID == candidateID && app.JobPositionID == jobPositionID {
			return true, nil
		}
	}
	return false, nil
}

func (s *applicationStore) Update(id string, version int64, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	d := s.tx.db
	d.beforeUpdate("application", id)
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.applications[id]
	if !ok || rec.Version != version {
		return pipelineerrors.ConcurrentModification("отклик", id)
	}
	updMap["Version"] = version + 1
	if err := applyUpdates(&rec, updMap); err != nil {
		return err
	}
	s.tx.addUndo(restoreFn(d.applications, id))
	d.applications[id] = rec
	return nil
}

func (s *applicationStore) List(filter dbmodels.ApplicationFilter) ([]dbmodels.JobApplication, int64, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []dbmodels.JobApplication{}
	for _, app := range d.applications {
		if filter.JobPositionID != "" && app.JobPositionID != filter.JobPositionID {
			continue
		}
		if filter.CandidateID != "" && app.CandidateID != filter.CandidateID {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.ActiveOnly && !app.IsActive {
			continue
		}
		list = append(list, app)
	}
	sort.SliceStable(list, func(a, b int) bool {
		return list[a].AppliedAt.After(list[b].AppliedAt)
	})
	count := int64(len(list))
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		from := (page - 1) * filter.Limit
		if from > len(list) {
			from = len(list)
		}
		to := from + filter.Limit
		if to > len(list) {
			to = len(list)
		}
		list = list[from:to]
	}
	return list, count, nil
}

type historyStore struct{ tx *txState }

func (s *historyStore) Create(rec dbmodels.ApplicationStatusHistory) (string, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.history {
		if h.ApplicationID == rec.ApplicationID && h.Sequence == rec.Sequence {
			return "", pipelineerrors.ConcurrentModification("история отклика", rec.ApplicationID)
		}
	}
	d.initBase(&rec.BaseModel)
	s.tx.addUndo(restoreFn(d.history, rec.ID))
	d.history[rec.ID] = rec
	return rec.ID, nil
}

func (s *historyStore) LastSequence(applicationID string) (int, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	last := 0
	for _, h := range d.history {
		if h.ApplicationID == applicationID && h.Sequence > last {
			last = h.Sequence
		}
	}
	return last, nil
}

func (s *historyStore) List(applicationID string) ([]dbmodels.ApplicationStatusHistory, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []dbmodels.ApplicationStatusHistory{}
	for _, h := range d.history {
		if h.ApplicationID == applicationID {
			list = append(list, h)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Sequence < list[b].Sequence })
	return list, nil
}

type interviewStore struct{ tx *txState }

func (s *interviewStore) Create(rec dbmodels.Interview) (string, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, iv := range d.interviews {
		if iv.ApplicationID == rec.ApplicationID && iv.RoundNumber == rec.RoundNumber {
			return "", pipelineerrors.DuplicateRound(rec.RoundNumber)
		}
	}
	d.initBase(&rec.BaseModel)
	if rec.Version == 0 {
		rec.Version = 1
	}
	rec.Participants = nil
	s.tx.addUndo(restoreFn(d.interviews, rec.ID))
	d.interviews[rec.ID] = rec
	return rec.ID, nil
}

func (s *interviewStore) GetByID(id string) (*dbmodels.Interview, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.interviews[id]
	if !ok {
		return nil, nil
	}
	rec.Participants = d.participantsOf(id)
	return &rec, nil
}

func (s *interviewStore) ListByApplication(applicationID string) ([]dbmodels.Interview, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []dbmodels.Interview{}
	for _, iv := range d.interviews {
		if iv.ApplicationID == applicationID {
			iv.Participants = d.participantsOf(iv.ID)
			list = append(list, iv)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].RoundNumber < list[b].RoundNumber })
	return list, nil
}

func (s *interviewStore) MaxRound(applicationID string) (int, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	maxRound := 0
	for _, iv := range d.interviews {
		if iv.ApplicationID == applicationID && iv.RoundNumber > maxRound {
			maxRound = iv.RoundNumber
		}
	}
	return maxRound, nil
}

func (s *interviewStore) CountByStatus(applicationID string, status models.InterviewStatus) (int64, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	var count int64
	for _, iv := range d.interviews {
		if iv.ApplicationID == applicationID && iv.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *interviewStore) Update(id string, version int64, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	d := s.tx.db
	d.beforeUpdate("interview", id)
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.interviews[id]
	if !ok || rec.Version != version {
		return pipelineerrors.ConcurrentModification("интервью", id)
	}
	updMap["Version"] = version + 1
	if err := applyUpdates(&rec, updMap); err != nil {
		return err
	}
	s.tx.addUndo(restoreFn(d.interviews, id))
	d.interviews[id] = rec
	return nil
}

// participantsOf вызывается под блокировкой
func (d *DB) participantsOf(interviewID string) []dbmodels.InterviewParticipant {
	list := []dbmodels.InterviewParticipant{}
	for _, p := range d.participants {
		if p.InterviewID == interviewID {
			list = append(list, p)
		}
	}
	sortByCreated(list, func(r dbmodels.InterviewParticipant) dbmodels.BaseModel { return r.BaseModel })
	return list
}

type participantStore struct{ tx *txState }

func (s *participantStore) Create(rec dbmodels.InterviewParticipant) (string, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.participants {
		if p.InterviewID == rec.InterviewID && p.ParticipantID == rec.ParticipantID {
			return "", pipelineerrors.DuplicateParticipant(rec.ParticipantID)
		}
	}
	d.initBase(&rec.BaseModel)
	s.tx.addUndo(restoreFn(d.participants, rec.ID))
	d.participants[rec.ID] = rec
	return rec.ID, nil
}

func (s *participantStore) List(interviewID string) ([]dbmodels.InterviewParticipant, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.participantsOf(interviewID), nil
}

func (s *participantStore) Get(interviewID, participantID string) (*dbmodels.InterviewParticipant, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.participants {
		if p.InterviewID == interviewID && p.ParticipantID == participantID {
			return &p, nil
		}
	}
	return nil, nil
}

func (s *participantStore) SetLead(interviewID, participantID string, isLead bool) error {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, p := range d.participants {
		if p.InterviewID == interviewID && p.ParticipantID == participantID {
			s.tx.addUndo(restoreFn(d.participants, id))
			p.IsLead = isLead
			p.UpdatedAt = time.Now()
			d.participants[id] = p
			return nil
		}
	}
	return pipelineerrors.ParticipantNotFound(participantID)
}

type evaluationStore struct{ tx *txState }

func (s *evaluationStore) Create(rec dbmodels.InterviewEvaluation) (string, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.evaluations {
		if e.InterviewID == rec.InterviewID && e.EvaluatorID == rec.EvaluatorID {
			return "", pipelineerrors.DuplicateEvaluation(rec.EvaluatorID)
		}
	}
	d.initBase(&rec.BaseModel)
	s.tx.addUndo(restoreFn(d.evaluations, rec.ID))
	d.evaluations[rec.ID] = rec
	return rec.ID, nil
}

func (s *evaluationStore) Exists(interviewID, evaluatorID string) (bool, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.evaluations {
		if e.InterviewID == interviewID && e.EvaluatorID == evaluatorID {
			return true, nil
		}
	}
	return false, nil
}

func (s *evaluationStore) List(interviewID string) ([]dbmodels.InterviewEvaluation, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []dbmodels.InterviewEvaluation{}
	for _, e := range d.evaluations {
		if e.InterviewID == interviewID {
			list = append(list, e)
		}
	}
	sortByCreated(list, func(r dbmodels.InterviewEvaluation) dbmodels.BaseModel { return r.BaseModel })
	return list, nil
}

type offerStore struct{ tx *txState }

func (s *offerStore) Create(rec dbmodels.JobOffer) (string, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, o := range d.offers {
		if o.ApplicationID == rec.ApplicationID {
			return "", pipelineerrors.OfferAlreadyExists(rec.ApplicationID)
		}
	}
	d.initBase(&rec.BaseModel)
	if rec.Version == 0 {
		rec.Version = 1
	}
	s.tx.addUndo(restoreFn(d.offers, rec.ID))
	d.offers[rec.ID] = rec
	return rec.ID, nil
}

func (s *offerStore) GetByID(id string) (*dbmodels.JobOffer, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.offers[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *offerStore) GetByApplication(applicationID string) (*dbmodels.JobOffer, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, o := range d.offers {
		if o.ApplicationID == applicationID {
			return &o, nil
		}
	}
	return nil, nil
}

func (s *offerStore) Update(id string, version int64, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	d := s.tx.db
	d.beforeUpdate("offer", id)
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.offers[id]
	if !ok || rec.Version != version {
		return pipelineerrors.ConcurrentModification("оффер", id)
	}
	updMap["Version"] = version + 1
	if err := applyUpdates(&rec, updMap); err != nil {
		return err
	}
	s.tx.addUndo(restoreFn(d.offers, id))
	d.offers[id] = rec
	return nil
}

func (s *offerStore) ListExpired(now time.Time, limit int) ([]dbmodels.JobOffer, error) {
	return s.filter(limit, func(o dbmodels.JobOffer) bool {
		return o.Status == models.OfferStatusPending && !o.ExpiryDate.After(now)
	}), nil
}

func (s *offerStore) ListForReminder(now, deadline time.Time, limit int) ([]dbmodels.JobOffer, error) {
	return s.filter(limit, func(o dbmodels.JobOffer) bool {
		return o.Status.IsNegotiable() &&
			o.ExpiryDate.After(now) &&
			!o.ExpiryDate.After(deadline) &&
			o.ReminderSentAt == nil
	}), nil
}

func (s *offerStore) filter(limit int, match func(o dbmodels.JobOffer) bool) []dbmodels.JobOffer {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []dbmodels.JobOffer{}
	for _, o := range d.offers {
		if match(o) {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].ExpiryDate.Before(list[b].ExpiryDate) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

type outboxStore struct{ tx *txState }

func (s *outboxStore) Enqueue(recs ...dbmodels.NotificationOutbox) error {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, rec := range recs {
		d.initBase(&rec.BaseModel)
		s.tx.addUndo(restoreFn(d.outbox, rec.ID))
		d.outbox[rec.ID] = rec
	}
	return nil
}

func (s *outboxStore) ListDue(now time.Time, limit int) ([]dbmodels.NotificationOutbox, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []dbmodels.NotificationOutbox{}
	for _, rec := range d.outbox {
		if rec.Status == models.OutboxStatusPending && !rec.NextAttemptAt.After(now) {
			list = append(list, rec)
		}
	}
	sortByCreated(list, func(r dbmodels.NotificationOutbox) dbmodels.BaseModel { return r.BaseModel })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *outboxStore) Lease(ids []string, until time.Time) error {
	return s.update(ids, func(rec *dbmodels.NotificationOutbox) {
		rec.NextAttemptAt = until
	})
}

func (s *outboxStore) MarkSent(id string, sentAt time.Time) error {
	return s.update([]string{id}, func(rec *dbmodels.NotificationOutbox) {
		rec.Status = models.OutboxStatusSent
		rec.SentAt = &sentAt
		rec.LastError = ""
	})
}

func (s *outboxStore) MarkFailed(id string, attempts int, nextAttemptAt time.Time, lastError string, dead bool) error {
	return s.update([]string{id}, func(rec *dbmodels.NotificationOutbox) {
		rec.Status = models.OutboxStatusPending
		if dead {
			rec.Status = models.OutboxStatusDead
		}
		rec.Attempts = attempts
		rec.NextAttemptAt = nextAttemptAt
		rec.LastError = lastError
	})
}

func (s *outboxStore) update(ids []string, apply func(rec *dbmodels.NotificationOutbox)) error {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		rec, ok := d.outbox[id]
		if !ok {
			continue
		}
		s.tx.addUndo(restoreFn(d.outbox, id))
		apply(&rec)
		d.outbox[id] = rec
	}
	return nil
}

func (s *outboxStore) ListByApplication(applicationID string) ([]dbmodels.NotificationOutbox, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []dbmodels.NotificationOutbox{}
	for _, rec := range d.outbox {
		if rec.ApplicationID == applicationID {
			list = append(list, rec)
		}
	}
	sortByCreated(list, func(r dbmodels.NotificationOutbox) dbmodels.BaseModel { return r.BaseModel })
	return list, nil
}

type directoryStore struct{ tx *txState }

func (s *directoryStore) GetCandidate(id string) (*dbmodels.Candidate, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	if rec, ok := d.candidates[id]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (s *directoryStore) GetStaffUser(id string) (*dbmodels.StaffUser, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	if rec, ok := d.staff[id]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (s *directoryStore) GetJobPosition(id string) (*dbmodels.JobPosition, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	if rec, ok := d.positions[id]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (s *directoryStore) FindStaffByEmail(email string) (*dbmodels.StaffUser, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, rec := range d.staff {
		if rec.Email == email {
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *directoryStore) CreateStaffUser(rec dbmodels.StaffUser) (string, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initBase(&rec.BaseModel)
	s.tx.addUndo(restoreFn(d.staff, rec.ID))
	d.staff[rec.ID] = rec
	return rec.ID, nil
}

func (s *directoryStore) CountJobPositions() (int64, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.positions)), nil
}

func (s *directoryStore) CreateJobPosition(rec dbmodels.JobPosition) (string, error) {
	d := s.tx.db
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initBase(&rec.BaseModel)
	s.tx.addUndo(restoreFn(d.positions, rec.ID))
	d.positions[rec.ID] = rec
	return rec.ID, nil
}
