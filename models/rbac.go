package models

type RbacFunc func(userID string, role UserRole, path string) bool

type Module string

const (
	ApplicationModule Module = "APPLICATION"
	InterviewModule   Module = "INTERVIEW"
	OfferModule       Module = "OFFER"
)

type Permission string

const (
	CreatePermission   Permission = "CREATE"
	ViewPermission     Permission = "VIEW"
	FlowPermission     Permission = "FLOW"
	ManagePermission   Permission = "MANAGE"
	EvaluatePermission Permission = "EVALUATE"
	ExportPermission   Permission = "EXPORT"
)
