package interviewhandler

import (
	"hr-pipeline-backend/models"
	interviewapimodels "hr-pipeline-backend/models/api/interview"
	dbmodels "hr-pipeline-backend/models/db"
)

// Aggregate сводит оценки участников интервью и выносит решение по правилу кворума
func Aggregate(interviewID string, participants []dbmodels.InterviewParticipant, evaluations []dbmodels.InterviewEvaluation,
	quorum models.EvaluationQuorum) interviewapimodels.EvaluationSummaryView {
	summary := interviewapimodels.EvaluationSummaryView{
		InterviewID:  interviewID,
		Participants: len(participants),
		Pending:      []string{},
		Tally:        map[models.Recommendation]int{},
		Quorum:       quorum,
		Verdict:      models.VerdictPending,
		Evaluations:  make([]interviewapimodels.EvaluationView, 0, len(evaluations)),
	}

	byEvaluator := map[string]dbmodels.InterviewEvaluation{}
	for _, e := range evaluations {
		byEvaluator[e.EvaluatorID] = e
	}

	var (
		leadRecommendation models.Recommendation
		ratingSum          int
		ratingCount        int
		positive           int
		negative           int
		veto               bool
	)
	for _, p := range participants {
		e, ok := byEvaluator[p.ParticipantID]
		if !ok {
			summary.Pending = append(summary.Pending, p.ParticipantID)
			continue
		}
		summary.Submitted++
		summary.Tally[e.Recommendation]++
		summary.Evaluations = append(summary.Evaluations, interviewapimodels.EvaluationConvert(e))
		if p.IsLead {
			summary.LeadEvaluated = true
			leadRecommendation = e.Recommendation
		}
		if e.Rating != nil {
			ratingSum += *e.Rating
			ratingCount++
		}
		switch {
		case e.Recommendation == models.RecommendationStrongNoHire:
			veto = true
			negative++
		case e.Recommendation.IsPositive():
			positive++
		default:
			negative++
		}
	}
	if ratingCount > 0 {
		avg := float64(ratingSum) / float64(ratingCount)
		summary.AverageRating = &avg
	}

	switch quorum {
	case models.EvaluationQuorumLead:
		summary.QuorumReached = summary.LeadEvaluated
	case models.EvaluationQuorumMajority:
		summary.QuorumReached = summary.Participants > 0 && summary.Submitted*2 > summary.Participants
	default:
		summary.QuorumReached = summary.Participants > 0 && summary.Submitted == summary.Participants
	}
	if !summary.QuorumReached {
		return summary
	}

	switch {
	case quorum == models.EvaluationQuorumLead:
		if leadRecommendation.IsPositive() {
			summary.Verdict = models.VerdictHire
		} else {
			summary.Verdict = models.VerdictNoHire
		}
	case veto:
		summary.Verdict = models.VerdictNoHire
	case positive > negative:
		summary.Verdict = models.VerdictHire
	case negative > positive:
		summary.Verdict = models.VerdictNoHire
	default:
		summary.Verdict = models.VerdictUndecided
	}
	return summary
}
