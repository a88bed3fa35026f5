package notification

// ключи параметров шаблонов уведомлений
const (
	ParamCandidateName  = "candidate_name"
	ParamJobTitle       = "job_title"
	ParamFromStatus     = "from_status"
	ParamToStatus       = "to_status"
	ParamComment        = "comment"
	ParamInterviewID    = "interview_id"
	ParamInterviewTitle = "interview_title"
	ParamRound          = "round"
	ParamScheduledAt    = "scheduled_at"
	ParamPreviousTime   = "previous_time"
	ParamDuration       = "duration"
	ParamMode           = "mode"
	ParamMeetingDetails = "meeting_details"
	ParamInstructions   = "instructions"
	ParamReason         = "reason"
	ParamOfferID        = "offer_id"
	ParamSalary         = "salary"
	ParamBenefits       = "benefits"
	ParamExpiryDate     = "expiry_date"
	ParamJoiningDate    = "joining_date"
	ParamCounterAmount  = "counter_amount"
	ParamCounterNotes   = "counter_notes"
	ParamAccepted       = "accepted"
	ParamResponseText   = "response_text"
)

// DateTimeLayout формат времени в текстах уведомлений
const DateTimeLayout = "02.01.2006 15:04 MST"

const DateLayout = "02.01.2006"
