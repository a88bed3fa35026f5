package notification

import (
	"bytes"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"text/template"

	"github.com/pkg/errors"
)

// Message готовое к доставке уведомление
type Message struct {
	Subject string
	Body    string
}

type templateKey struct {
	kind          models.NotificationKind
	recipientType models.RecipientType
}

type messageTemplate struct {
	subject *template.Template
	body    *template.Template
}

var templates = map[templateKey]messageTemplate{}

func register(kind models.NotificationKind, recipientType models.RecipientType, subject, body string) {
	name := string(kind) + "/" + string(recipientType)
	templates[templateKey{kind: kind, recipientType: recipientType}] = messageTemplate{
		subject: template.Must(template.New(name + "/subject").Option("missingkey=zero").Parse(subject)),
		body:    template.Must(template.New(name + "/body").Option("missingkey=zero").Parse(body)),
	}
}

func init() {
	register(models.NotificationApplicationStatusChanged, models.RecipientCandidate,
		"Your application for {{.job_title}}",
		"Dear {{.candidate_name}},\n\nthe status of your application for {{.job_title}} has changed from {{.from_status}} to {{.to_status}}."+
			"{{if .reason}}\nReason: {{.reason}}{{end}}")
	register(models.NotificationApplicationStatusChanged, models.RecipientStaff,
		"{{.candidate_name}}: {{.to_status}}",
		"Application of {{.candidate_name}} for {{.job_title}} moved from {{.from_status}} to {{.to_status}}."+
			"{{if .comment}}\nComment: {{.comment}}{{end}}")

	register(models.NotificationInterviewScheduled, models.RecipientCandidate,
		"Interview scheduled: {{.interview_title}}",
		"Dear {{.candidate_name}},\n\nround {{.round}} of your interview for {{.job_title}} is scheduled at {{.scheduled_at}} ({{.duration}} min, {{.mode}})."+
			"{{if .meeting_details}}\nMeeting details: {{.meeting_details}}{{end}}"+
			"{{if .instructions}}\nInstructions: {{.instructions}}{{end}}")
	register(models.NotificationInterviewScheduled, models.RecipientStaff,
		"Interview with {{.candidate_name}}: {{.interview_title}}",
		"You are invited to interview {{.candidate_name}} for {{.job_title}} (round {{.round}}) at {{.scheduled_at}}, {{.duration}} min, {{.mode}}."+
			"{{if .meeting_details}}\nMeeting details: {{.meeting_details}}{{end}}")

	register(models.NotificationInterviewRescheduled, models.RecipientCandidate,
		"Interview rescheduled: {{.interview_title}}",
		"Dear {{.candidate_name}},\n\nyour interview for {{.job_title}} has been moved from {{.previous_time}} to {{.scheduled_at}}."+
			"{{if .reason}}\nReason: {{.reason}}{{end}}")
	register(models.NotificationInterviewRescheduled, models.RecipientStaff,
		"Interview with {{.candidate_name}} rescheduled",
		"Interview \"{{.interview_title}}\" with {{.candidate_name}} has been moved from {{.previous_time}} to {{.scheduled_at}}."+
			"{{if .reason}}\nReason: {{.reason}}{{end}}")

	register(models.NotificationInterviewCancelled, models.RecipientCandidate,
		"Interview cancelled: {{.interview_title}}",
		"Dear {{.candidate_name}},\n\nyour interview for {{.job_title}} scheduled at {{.scheduled_at}} has been cancelled."+
			"{{if .reason}}\nReason: {{.reason}}{{end}}")
	register(models.NotificationInterviewCancelled, models.RecipientStaff,
		"Interview with {{.candidate_name}} cancelled",
		"Interview \"{{.interview_title}}\" with {{.candidate_name}} at {{.scheduled_at}} has been cancelled."+
			"{{if .reason}}\nReason: {{.reason}}{{end}}")

	register(models.NotificationEvaluationReminder, models.RecipientStaff,
		"Please submit your evaluation of {{.candidate_name}}",
		"Interview \"{{.interview_title}}\" with {{.candidate_name}} for {{.job_title}} is completed. Please submit your evaluation.")

	register(models.NotificationLeadAssigned, models.RecipientStaff,
		"You lead the interview with {{.candidate_name}}",
		"You have been assigned as the lead interviewer for \"{{.interview_title}}\" with {{.candidate_name}} at {{.scheduled_at}}.")

	register(models.NotificationOfferExtended, models.RecipientCandidate,
		"Job offer: {{.job_title}}",
		"Dear {{.candidate_name}},\n\nwe are pleased to offer you the position of {{.job_title}} with a salary of {{.salary}}."+
			"{{if .benefits}}\nBenefits: {{.benefits}}{{end}}"+
			"{{if .joining_date}}\nJoining date: {{.joining_date}}{{end}}"+
			"\nThe offer is valid until {{.expiry_date}}.")

	register(models.NotificationOfferExpiryExtended, models.RecipientCandidate,
		"Offer deadline extended: {{.job_title}}",
		"Dear {{.candidate_name}},\n\nthe deadline of your offer for {{.job_title}} has been extended to {{.expiry_date}}."+
			"{{if .reason}}\nReason: {{.reason}}{{end}}")

	register(models.NotificationOfferRevised, models.RecipientCandidate,
		"Offer revised: {{.job_title}}",
		"Dear {{.candidate_name}},\n\nthe terms of your offer for {{.job_title}} have been revised. Salary: {{.salary}}."+
			"{{if .benefits}}\nBenefits: {{.benefits}}{{end}}"+
			"{{if .joining_date}}\nJoining date: {{.joining_date}}{{end}}")

	register(models.NotificationCounterOfferReceived, models.RecipientStaff,
		"Counter-offer from {{.candidate_name}}",
		"{{.candidate_name}} has proposed {{.counter_amount}} instead of {{.salary}} for {{.job_title}}."+
			"{{if .counter_notes}}\nNotes: {{.counter_notes}}{{end}}")

	register(models.NotificationCounterOfferResponse, models.RecipientCandidate,
		"Response to your counter-offer: {{.job_title}}",
		"Dear {{.candidate_name}},\n\n{{if eq .accepted \"true\"}}your counter-offer has been accepted. The offered salary is now {{.salary}}.{{else}}your counter-offer has not been accepted.{{end}}"+
			"{{if .response_text}}\n{{.response_text}}{{end}}")

	register(models.NotificationOfferAccepted, models.RecipientCandidate,
		"Welcome aboard",
		"Dear {{.candidate_name}},\n\nthank you for accepting our offer for {{.job_title}}."+
			"{{if .joining_date}} We look forward to seeing you on {{.joining_date}}.{{end}}")
	register(models.NotificationOfferAccepted, models.RecipientStaff,
		"Offer accepted by {{.candidate_name}}",
		"{{.candidate_name}} has accepted the offer for {{.job_title}} ({{.salary}}).")

	register(models.NotificationOfferDeclined, models.RecipientStaff,
		"Offer declined by {{.candidate_name}}",
		"{{.candidate_name}} has declined the offer for {{.job_title}}."+
			"{{if .reason}}\nReason: {{.reason}}{{end}}")

	register(models.NotificationOfferWithdrawn, models.RecipientCandidate,
		"Offer withdrawn: {{.job_title}}",
		"Dear {{.candidate_name}},\n\nwe regret to inform you that the offer for {{.job_title}} has been withdrawn."+
			"{{if .reason}}\nReason: {{.reason}}{{end}}")

	register(models.NotificationOfferExpired, models.RecipientCandidate,
		"Offer expired: {{.job_title}}",
		"Dear {{.candidate_name}},\n\nthe offer for {{.job_title}} expired on {{.expiry_date}}.")
	register(models.NotificationOfferExpired, models.RecipientStaff,
		"Offer to {{.candidate_name}} expired",
		"The offer to {{.candidate_name}} for {{.job_title}} expired on {{.expiry_date}} without a response.")

	register(models.NotificationOfferExpiryReminder, models.RecipientCandidate,
		"Reminder: your offer expires on {{.expiry_date}}",
		"Dear {{.candidate_name}},\n\nthis is a reminder that the offer for {{.job_title}} expires on {{.expiry_date}}.")
	register(models.NotificationOfferExpiryReminder, models.RecipientStaff,
		"Offer to {{.candidate_name}} expires soon",
		"The offer to {{.candidate_name}} for {{.job_title}} expires on {{.expiry_date}} and has no response yet.")
}

var ErrNoTemplate = errors.New("нет шаблона для уведомления")

// Render собирает тему и текст уведомления по типу и получателю
func Render(rec dbmodels.NotificationOutbox) (Message, error) {
	tpl, ok := templates[templateKey{kind: rec.Kind, recipientType: rec.RecipientType}]
	if !ok {
		return Message{}, errors.Wrapf(ErrNoTemplate, "%s/%s", rec.Kind, rec.RecipientType)
	}
	params := map[string]string(rec.Params)
	if params == nil {
		params = map[string]string{}
	}
	subject := new(bytes.Buffer)
	if err := tpl.subject.Execute(subject, params); err != nil {
		return Message{}, errors.Wrap(err, "ошибка формирования темы уведомления")
	}
	body := new(bytes.Buffer)
	if err := tpl.body.Execute(body, params); err != nil {
		return Message{}, errors.Wrap(err, "ошибка формирования текста уведомления")
	}
	return Message{Subject: subject.String(), Body: body.String()}, nil
}
