package models

import (
	log "github.com/sirupsen/logrus"
)

type InterviewStatus string

const (
	InterviewStatusScheduled InterviewStatus = "SCHEDULED"
	InterviewStatusCompleted InterviewStatus = "COMPLETED"
	InterviewStatusCancelled InterviewStatus = "CANCELLED"
	InterviewStatusNoShow    InterviewStatus = "NO_SHOW"
)

func (s InterviewStatus) ToHuman() string {
	switch s {
	case InterviewStatusScheduled:
		return "Scheduled"
	case InterviewStatusCompleted:
		return "Completed"
	case InterviewStatusCancelled:
		return "Cancelled"
	case InterviewStatusNoShow:
		return "No show"
	}
	log.WithField("interview_status", string(s)).Warn("неизвестный статус интервью")
	return string(s)
}

type InterviewType string

const (
	InterviewTypeScreening  InterviewType = "SCREENING"
	InterviewTypeTechnical  InterviewType = "TECHNICAL"
	InterviewTypeBehavioral InterviewType = "BEHAVIORAL"
	InterviewTypeManager    InterviewType = "MANAGER"
	InterviewTypeFinal      InterviewType = "FINAL"
)

func (t InterviewType) IsValid() bool {
	switch t {
	case InterviewTypeScreening, InterviewTypeTechnical, InterviewTypeBehavioral, InterviewTypeManager, InterviewTypeFinal:
		return true
	}
	return false
}

type InterviewMode string

const (
	InterviewModeOnsite InterviewMode = "ONSITE"
	InterviewModeVideo  InterviewMode = "VIDEO"
	InterviewModePhone  InterviewMode = "PHONE"
)

func (m InterviewMode) IsValid() bool {
	switch m {
	case InterviewModeOnsite, InterviewModeVideo, InterviewModePhone:
		return true
	}
	return false
}

type InterviewOutcome string

const (
	InterviewOutcomePassed       InterviewOutcome = "PASSED"
	InterviewOutcomeFailed       InterviewOutcome = "FAILED"
	InterviewOutcomeInconclusive InterviewOutcome = "INCONCLUSIVE"
)

func (o InterviewOutcome) IsValid() bool {
	switch o {
	case InterviewOutcomePassed, InterviewOutcomeFailed, InterviewOutcomeInconclusive:
		return true
	}
	return false
}

type Recommendation string

const (
	RecommendationStrongHire   Recommendation = "STRONG_HIRE"
	RecommendationHire         Recommendation = "HIRE"
	RecommendationNoHire       Recommendation = "NO_HIRE"
	RecommendationStrongNoHire Recommendation = "STRONG_NO_HIRE"
)

func (r Recommendation) IsValid() bool {
	switch r {
	case RecommendationStrongHire, RecommendationHire, RecommendationNoHire, RecommendationStrongNoHire:
		return true
	}
	return false
}

func (r Recommendation) IsPositive() bool {
	return r == RecommendationStrongHire || r == RecommendationHire
}

type EvaluationVerdict string

const (
	VerdictPending   EvaluationVerdict = "PENDING" // кворум не набран
	VerdictHire      EvaluationVerdict = "HIRE"
	VerdictNoHire    EvaluationVerdict = "NO_HIRE"
	VerdictUndecided EvaluationVerdict = "UNDECIDED"
)

type EvaluationQuorum string

const (
	EvaluationQuorumAll      EvaluationQuorum = "all"
	EvaluationQuorumLead     EvaluationQuorum = "lead"
	EvaluationQuorumMajority EvaluationQuorum = "majority"
)

func (q EvaluationQuorum) IsValid() bool {
	switch q {
	case EvaluationQuorumAll, EvaluationQuorumLead, EvaluationQuorumMajority:
		return true
	}
	return false
}
