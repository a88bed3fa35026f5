package models

type UserRole string

const (
	AdminRole         UserRole = "ADMIN"
	RecruiterRole     UserRole = "RECRUITER"
	HiringManagerRole UserRole = "HIRING_MANAGER"
	InterviewerRole   UserRole = "INTERVIEWER"
)

var roleHumanName = map[UserRole]string{
	AdminRole:         "Administrator",
	RecruiterRole:     "Recruiter",
	HiringManagerRole: "Hiring manager",
	InterviewerRole:   "Interviewer",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

// SystemUser автор действий, выполненных фоновыми задачами
const SystemUser = "system"
