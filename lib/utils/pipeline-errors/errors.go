package pipelineerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation  Kind = "validation"
	KindConcurrency Kind = "concurrency"
	KindNotFound    Kind = "not_found"
)

type Code string

const (
	CodeInvalidTransition        Code = "InvalidTransition"
	CodeDuplicateRound           Code = "DuplicateRound"
	CodeInvalidRoundNumber       Code = "InvalidRoundNumber"
	CodeNoLeadDesignated         Code = "NoLeadDesignated"
	CodeDuplicateParticipant     Code = "DuplicateParticipant"
	CodeParticipantNotFound      Code = "ParticipantNotFound"
	CodeDuplicateEvaluation      Code = "DuplicateEvaluation"
	CodeExpiryNotExtended        Code = "ExpiryNotExtended"
	CodeOfferAlreadyExists       Code = "OfferAlreadyExists"
	CodeApplicationAlreadyExists Code = "ApplicationAlreadyExists"
	CodeReasonRequired           Code = "ReasonRequired"
	CodeInvalidArgument          Code = "InvalidArgument"
	CodeConcurrentModification   Code = "ConcurrentModification"
	CodeNotFound                 Code = "NotFound"
)

// Error типизированная ошибка конвейера, сравнивается через errors.Is по коду
type Error struct {
	Kind    Kind
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrInvalidTransition        = &Error{Kind: KindValidation, Code: CodeInvalidTransition}
	ErrDuplicateRound           = &Error{Kind: KindValidation, Code: CodeDuplicateRound}
	ErrInvalidRoundNumber       = &Error{Kind: KindValidation, Code: CodeInvalidRoundNumber}
	ErrNoLeadDesignated         = &Error{Kind: KindValidation, Code: CodeNoLeadDesignated}
	ErrDuplicateParticipant     = &Error{Kind: KindValidation, Code: CodeDuplicateParticipant}
	ErrParticipantNotFound      = &Error{Kind: KindNotFound, Code: CodeParticipantNotFound}
	ErrDuplicateEvaluation      = &Error{Kind: KindValidation, Code: CodeDuplicateEvaluation}
	ErrExpiryNotExtended        = &Error{Kind: KindValidation, Code: CodeExpiryNotExtended}
	ErrOfferAlreadyExists       = &Error{Kind: KindValidation, Code: CodeOfferAlreadyExists}
	ErrApplicationAlreadyExists = &Error{Kind: KindValidation, Code: CodeApplicationAlreadyExists}
	ErrReasonRequired           = &Error{Kind: KindValidation, Code: CodeReasonRequired}
	ErrInvalidArgument          = &Error{Kind: KindValidation, Code: CodeInvalidArgument}
	ErrConcurrentModification   = &Error{Kind: KindConcurrency, Code: CodeConcurrentModification}
	ErrNotFound                 = &Error{Kind: KindNotFound, Code: CodeNotFound}
)

func newError(base *Error, format string, args ...any) *Error {
	return &Error{Kind: base.Kind, Code: base.Code, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(format string, args ...any) error {
	return newError(ErrInvalidTransition, format, args...)
}

func DuplicateRound(round int) error {
	return newError(ErrDuplicateRound, "раунд %d уже существует", round)
}

func InvalidRoundNumber(round, expected int) error {
	return newError(ErrInvalidRoundNumber, "некорректный номер раунда %d, ожидается %d", round, expected)
}

func NoLeadDesignated(leads int) error {
	return newError(ErrNoLeadDesignated, "должен быть назначен ровно один ведущий интервьюер, указано: %d", leads)
}

func DuplicateParticipant(participantID string) error {
	return newError(ErrDuplicateParticipant, "участник %s уже добавлен в интервью", participantID)
}

func ParticipantNotFound(participantID string) error {
	return newError(ErrParticipantNotFound, "участник %s не найден в интервью", participantID)
}

func DuplicateEvaluation(evaluatorID string) error {
	return newError(ErrDuplicateEvaluation, "оценка от %s уже отправлена", evaluatorID)
}

func ExpiryNotExtended(format string, args ...any) error {
	return newError(ErrExpiryNotExtended, format, args...)
}

func OfferAlreadyExists(applicationID string) error {
	return newError(ErrOfferAlreadyExists, "оффер по отклику %s уже существует", applicationID)
}

func ApplicationAlreadyExists() error {
	return newError(ErrApplicationAlreadyExists, "кандидат уже откликнулся на эту вакансию")
}

func ReasonRequired() error {
	return newError(ErrReasonRequired, "не указана причина")
}

func InvalidArgument(format string, args ...any) error {
	return newError(ErrInvalidArgument, format, args...)
}

func ConcurrentModification(entity, id string) error {
	return newError(ErrConcurrentModification, "%s %s изменен параллельно, перечитайте данные", entity, id)
}

func NotFound(entity, id string) error {
	return newError(ErrNotFound, "%s %s не найден", entity, id)
}

// As извлекает типизированную ошибку из цепочки
func As(err error) (*Error, bool) {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr, true
	}
	return nil, false
}

func IsValidation(err error) bool {
	pErr, ok := As(err)
	return ok && pErr.Kind == KindValidation
}

func IsConcurrency(err error) bool {
	pErr, ok := As(err)
	return ok && pErr.Kind == KindConcurrency
}

func IsNotFound(err error) bool {
	pErr, ok := As(err)
	return ok && pErr.Kind == KindNotFound
}
