package models

import "time"

type PipelinePolicy struct {
	CounterRejectPolicy      CounterRejectPolicy
	EvaluationQuorum         EvaluationQuorum
	AutoAdvanceOnEvaluations bool
	ExpiryReminderWindow     time.Duration
}

func DefaultPipelinePolicy() PipelinePolicy {
	return PipelinePolicy{
		CounterRejectPolicy:      CounterRejectPolicyReject,
		EvaluationQuorum:         EvaluationQuorumAll,
		AutoAdvanceOnEvaluations: false,
		ExpiryReminderWindow:     48 * time.Hour,
	}
}
