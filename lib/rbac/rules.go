package rbac

import (
	"hr-pipeline-backend/models"
)

var (
	AllRoles                     = []models.UserRole{models.AdminRole, models.RecruiterRole, models.HiringManagerRole, models.InterviewerRole}
	AdminRecruiterRoleSet        = []models.UserRole{models.AdminRole, models.RecruiterRole}
	AdminRecruiterManagerRoleSet = []models.UserRole{models.AdminRole, models.RecruiterRole, models.HiringManagerRole}
)

func (i *impl) initRules() {
	i.application()
	i.interview()
	i.offer()
}

func (i *impl) application() {
	//VIEW
	i.RegisterRule(models.ApplicationModule, models.ViewPermission, AllRoles, "/api/v1/space/application/list [post]", nil)
	i.RegisterRule(models.ApplicationModule, models.ViewPermission, AllRoles, "/api/v1/space/application/{id} [get]", nil)
	i.RegisterRule(models.ApplicationModule, models.ViewPermission, AllRoles, "/api/v1/space/application/{id}/history [get]", nil)
	//CREATE
	i.RegisterRule(models.ApplicationModule, models.CreatePermission, AdminRecruiterRoleSet, "/api/v1/space/application [post]", nil)
	//FLOW
	i.RegisterRule(models.ApplicationModule, models.FlowPermission, AdminRecruiterManagerRoleSet, "/api/v1/space/application/{id}/advance [put]", nil)
	i.RegisterRule(models.ApplicationModule, models.FlowPermission, AdminRecruiterManagerRoleSet, "/api/v1/space/application/{id}/reject [put]", nil)
	i.RegisterRule(models.ApplicationModule, models.FlowPermission, AdminRecruiterRoleSet, "/api/v1/space/application/{id}/withdraw [put]", nil)
	//MANAGE
	i.RegisterRule(models.ApplicationModule, models.ManagePermission, AdminRecruiterRoleSet, "/api/v1/space/application/{id}/reviewer [put]", nil)
	i.RegisterRule(models.ApplicationModule, models.ManagePermission, []models.UserRole{models.AdminRole}, "/api/v1/space/application/{id} [delete]", nil)
	//EXPORT
	i.RegisterRule(models.ApplicationModule, models.ExportPermission, AdminRecruiterManagerRoleSet, "/api/v1/space/application/{id}/history/export [get]", nil)
}

func (i *impl) interview() {
	//VIEW
	i.RegisterRule(models.InterviewModule, models.ViewPermission, AllRoles, "/api/v1/space/application/{id}/interview/list [get]", nil)
	i.RegisterRule(models.InterviewModule, models.ViewPermission, AllRoles, "/api/v1/space/interview/{id} [get]", nil)
	i.RegisterRule(models.InterviewModule, models.ViewPermission, AllRoles, "/api/v1/space/interview/{id}/evaluation/summary [get]", nil)
	//MANAGE
	i.RegisterRule(models.InterviewModule, models.ManagePermission, AdminRecruiterManagerRoleSet, "/api/v1/space/application/{id}/interview [post]", nil)
	i.RegisterRule(models.InterviewModule, models.ManagePermission, AdminRecruiterManagerRoleSet, "/api/v1/space/interview/{id}/reschedule [put]", nil)
	i.RegisterRule(models.InterviewModule, models.ManagePermission, AdminRecruiterManagerRoleSet, "/api/v1/space/interview/{id}/cancel [put]", nil)
	i.RegisterRule(models.InterviewModule, models.ManagePermission, AdminRecruiterManagerRoleSet, "/api/v1/space/interview/{id}/participant [post]", nil)
	i.RegisterRule(models.InterviewModule, models.ManagePermission, AdminRecruiterManagerRoleSet, "/api/v1/space/interview/{id}/lead [put]", nil)
	//FLOW
	i.RegisterRule(models.InterviewModule, models.FlowPermission, AllRoles, "/api/v1/space/interview/{id}/complete [put]", nil)
	i.RegisterRule(models.InterviewModule, models.FlowPermission, AllRoles, "/api/v1/space/interview/{id}/no_show [put]", nil)
	//EVALUATE
	i.RegisterRule(models.InterviewModule, models.EvaluatePermission, AllRoles, "/api/v1/space/interview/{id}/evaluation [post]", nil)
}

func (i *impl) offer() {
	//VIEW
	i.RegisterRule(models.OfferModule, models.ViewPermission, AdminRecruiterManagerRoleSet, "/api/v1/space/application/{id}/offer [get]", nil)
	i.RegisterRule(models.OfferModule, models.ViewPermission, AdminRecruiterManagerRoleSet, "/api/v1/space/offer/{id} [get]", nil)
	i.RegisterRule(models.OfferModule, models.ViewPermission, AdminRecruiterManagerRoleSet, "/api/v1/space/offer/{id}/letter [get]", nil)
	//MANAGE
	i.RegisterRule(models.OfferModule, models.ManagePermission, AdminRecruiterManagerRoleSet, "/api/v1/space/application/{id}/offer [post]", nil)
	i.RegisterRule(models.OfferModule, models.ManagePermission, AdminRecruiterManagerRoleSet, "/api/v1/space/offer/{id}/expiry [put]", nil)
	i.RegisterRule(models.OfferModule, models.ManagePermission, AdminRecruiterManagerRoleSet, "/api/v1/space/offer/{id}/revise [put]", nil)
	i.RegisterRule(models.OfferModule, models.ManagePermission, AdminRecruiterManagerRoleSet, "/api/v1/space/offer/{id}/counter/response [put]", nil)
	i.RegisterRule(models.OfferModule, models.ManagePermission, AdminRecruiterManagerRoleSet, "/api/v1/space/offer/{id}/withdraw [put]", nil)
	i.RegisterRule(models.OfferModule, models.ManagePermission, []models.UserRole{models.AdminRole}, "/api/v1/space/offer/{id}/expire [put]", nil)
	//FLOW ответы кандидата фиксирует рекрутер
	i.RegisterRule(models.OfferModule, models.FlowPermission, AdminRecruiterRoleSet, "/api/v1/space/offer/{id}/counter [put]", nil)
	i.RegisterRule(models.OfferModule, models.FlowPermission, AdminRecruiterRoleSet, "/api/v1/space/offer/{id}/accept [put]", nil)
	i.RegisterRule(models.OfferModule, models.FlowPermission, AdminRecruiterRoleSet, "/api/v1/space/offer/{id}/decline [put]", nil)
}
