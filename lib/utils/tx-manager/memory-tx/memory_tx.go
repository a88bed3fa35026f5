package memorytx

import (
	"context"
	txmanager "hr-pipeline-backend/lib/utils/tx-manager"
	dbmodels "hr-pipeline-backend/models/db"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DB хранилище в памяти с уникальными ограничениями и проверкой версий, для тестов обработчиков
type DB struct {
	mu           sync.Mutex
	applications map[string]dbmodels.JobApplication
	history      map[string]dbmodels.ApplicationStatusHistory
	interviews   map[string]dbmodels.Interview
	participants map[string]dbmodels.InterviewParticipant
	evaluations  map[string]dbmodels.InterviewEvaluation
	offers       map[string]dbmodels.JobOffer
	outbox       map[string]dbmodels.NotificationOutbox
	candidates   map[string]dbmodels.Candidate
	staff        map[string]dbmodels.StaffUser
	positions    map[string]dbmodels.JobPosition
	seq          int64

	// BeforeUpdate вызывается перед каждым обновлением с проверкой версии
	BeforeUpdate func(entity, id string)
}

func New() *DB {
	return &DB{
		applications: map[string]dbmodels.JobApplication{},
		history:      map[string]dbmodels.ApplicationStatusHistory{},
		interviews:   map[string]dbmodels.Interview{},
		participants: map[string]dbmodels.InterviewParticipant{},
		evaluations:  map[string]dbmodels.InterviewEvaluation{},
		offers:       map[string]dbmodels.JobOffer{},
		outbox:       map[string]dbmodels.NotificationOutbox{},
		candidates:   map[string]dbmodels.Candidate{},
		staff:        map[string]dbmodels.StaffUser{},
		positions:    map[string]dbmodels.JobPosition{},
	}
}

func (d *DB) InTx(ctx context.Context, fn func(stores txmanager.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txState{db: d}
	err := fn(tx.stores())
	if err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (d *DB) Stores() txmanager.Stores {
	return (&txState{db: d, autocommit: true}).stores()
}

func (d *DB) AddCandidate(rec dbmodels.Candidate) dbmodels.Candidate {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initBase(&rec.BaseModel)
	d.candidates[rec.ID] = rec
	return rec
}

func (d *DB) AddStaffUser(rec dbmodels.StaffUser) dbmodels.StaffUser {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initBase(&rec.BaseModel)
	d.staff[rec.ID] = rec
	return rec
}

func (d *DB) AddJobPosition(rec dbmodels.JobPosition) dbmodels.JobPosition {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initBase(&rec.BaseModel)
	d.positions[rec.ID] = rec
	return rec
}

// Notifications все записи outbox в порядке добавления
func (d *DB) Notifications() []dbmodels.NotificationOutbox {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]dbmodels.NotificationOutbox, 0, len(d.outbox))
	for _, rec := range d.outbox {
		list = append(list, rec)
	}
	sortByCreated(list, func(r dbmodels.NotificationOutbox) dbmodels.BaseModel { return r.BaseModel })
	return list
}

// initBase вызывается под блокировкой
func (d *DB) initBase(m *dbmodels.BaseModel) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	d.seq++
	// порядок вставки сохраняется даже при одинаковом времени
	m.CreatedAt = time.Unix(0, 0).Add(time.Duration(d.seq) * time.Microsecond)
	m.UpdatedAt = time.Now()
}

func (d *DB) beforeUpdate(entity, id string) {
	if d.BeforeUpdate != nil {
		d.BeforeUpdate(entity, id)
	}
}

type txState struct {
	db         *DB
	autocommit bool
	undoMu     sync.Mutex
	undo       []func()
}

// addUndo вызывается под блокировкой db
func (t *txState) addUndo(f func()) {
	if t.autocommit {
		return
	}
	t.undoMu.Lock()
	defer t.undoMu.Unlock()
	t.undo = append(t.undo, f)
}

func (t *txState) rollback() {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.undoMu.Lock()
	defer t.undoMu.Unlock()
	for k := len(t.undo) - 1; k >= 0; k-- {
		t.undo[k]()
	}
	t.undo = nil
}

func (t *txState) stores() txmanager.Stores {
	return txmanager.Stores{
		Applications: &applicationStore{tx: t},
		History:      &historyStore{tx: t},
		Interviews:   &interviewStore{tx: t},
		Participants: &participantStore{tx: t},
		Evaluations:  &evaluationStore{tx: t},
		Offers:       &offerStore{tx: t},
		Outbox:       &outboxStore{tx: t},
		Directory:    &directoryStore{tx: t},
	}
}

// restoreFn возвращает функцию отката записи в map
func restoreFn[T any](m map[string]T, id string) func() {
	prev, existed := m[id]
	return func() {
		if existed {
			m[id] = prev
		} else {
			delete(m, id)
		}
	}
}

// applyUpdates применяет карту изменений к структуре по именам полей, как это делает gorm
func applyUpdates(dest interface{}, updMap map[string]interface{}) error {
	v := reflect.ValueOf(dest).Elem()
	for key, val := range updMap {
		f := v.FieldByName(key)
		if !f.IsValid() || !f.CanSet() {
			return errors.Errorf("неизвестное поле %s", key)
		}
		if val == nil {
			f.Set(reflect.Zero(f.Type()))
			continue
		}
		rv := reflect.ValueOf(val)
		switch {
		case rv.Type().AssignableTo(f.Type()):
			f.Set(rv)
		case f.Kind() == reflect.Ptr && rv.Type().AssignableTo(f.Type().Elem()):
			p := reflect.New(f.Type().Elem())
			p.Elem().Set(rv)
			f.Set(p)
		case f.Kind() != reflect.String && rv.Type().ConvertibleTo(f.Type()):
			f.Set(rv.Convert(f.Type()))
		default:
			return errors.Errorf("несовместимый тип поля %s: %T", key, val)
		}
	}
	if f := v.FieldByName("UpdatedAt"); f.IsValid() && f.CanSet() {
		f.Set(reflect.ValueOf(time.Now()))
	}
	return nil
}

func sortByCreated[T any](list []T, base func(T) dbmodels.BaseModel) {
	sort.SliceStable(list, func(a, b int) bool {
		return base(list[a]).CreatedAt.Before(base(list[b]).CreatedAt)
	})
}
