package authapimodels

import (
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"net/mail"

	"github.com/pkg/errors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errors.New("почта имеет неправильный формат")
	}
	if r.Password == "" {
		return errors.New("не указан пароль")
	}
	return nil
}

type StaffUserView struct {
	ID          string                                `json:"id"`
	FirstName   string                                `json:"first_name"`
	LastName    string                                `json:"last_name"`
	Email       string                                `json:"email"`
	Role        models.UserRole                       `json:"role"`
	RoleName    string                                `json:"role_name"`
	Permissions map[models.Module][]models.Permission `json:"permissions"`
}

func StaffUserConvert(rec dbmodels.StaffUser) StaffUserView {
	return StaffUserView{
		ID:        rec.ID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Role:      rec.Role,
		RoleName:  rec.Role.ToHuman(),
	}
}
