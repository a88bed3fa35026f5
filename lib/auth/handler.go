package authhandler

import (
	"context"
	"hr-pipeline-backend/lib/rbac"
	authutils "hr-pipeline-backend/lib/utils/auth-utils"
	"hr-pipeline-backend/lib/utils/clock"
	txmanager "hr-pipeline-backend/lib/utils/tx-manager"
	authapimodels "hr-pipeline-backend/models/api/auth"
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrUnauthorized = errors.New("пользователь не авторизован")

type Provider interface {
	Login(ctx context.Context, email, password string) (authapimodels.JWTResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (authapimodels.JWTResponse, error)
	Me(ctx context.Context, userID string) (*authapimodels.StaffUserView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(txmanager.Instance, clock.Instance, rbac.Instance)
}

func NewInstance(tx txmanager.Provider, clk clock.Provider, rbacProvider rbac.Provider) Provider {
	return impl{
		tx:    tx,
		clock: clk,
		rbac:  rbacProvider,
	}
}

type impl struct {
	tx    txmanager.Provider
	clock clock.Provider
	rbac  rbac.Provider
}

func (i impl) Login(ctx context.Context, email, password string) (authapimodels.JWTResponse, error) {
	logger := log.WithField("email", email)
	user, err := i.tx.Stores().Directory.FindStaffByEmail(email)
	if err != nil {
		logger.WithError(err).Error("ошибка поиска пользователя по почте")
		return authapimodels.JWTResponse{}, err
	}
	if user == nil || !user.IsActive {
		logger.Debug("активный пользователь с такой почтой не найден")
		return authapimodels.JWTResponse{}, ErrUnauthorized
	}
	if user.Password == "" || !authutils.CheckPassword(user.Password, password) {
		logger.Debug("пользователь не прошел проверку пароля")
		return authapimodels.JWTResponse{}, ErrUnauthorized
	}
	return i.issue(*user)
}

func (i impl) RefreshToken(ctx context.Context, refreshToken string) (authapimodels.JWTResponse, error) {
	userID, err := authutils.ParseRefreshToken(refreshToken)
	if err != nil {
		log.WithError(err).Debug("refresh token не прошел проверку")
		return authapimodels.JWTResponse{}, ErrUnauthorized
	}
	user, err := i.tx.Stores().Directory.GetStaffUser(userID)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	if user == nil || !user.IsActive {
		return authapimodels.JWTResponse{}, ErrUnauthorized
	}
	return i.issue(*user)
}

func (i impl) Me(ctx context.Context, userID string) (*authapimodels.StaffUserView, error) {
	user, err := i.tx.Stores().Directory.GetStaffUser(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthorized
	}
	view := authapimodels.StaffUserConvert(*user)
	if i.rbac != nil {
		view.Permissions = i.rbac.GetPermissions(user.Role)
	}
	return &view, nil
}

func (i impl) issue(user dbmodels.StaffUser) (authapimodels.JWTResponse, error) {
	now := i.clock.Now()
	token, err := authutils.GetToken(user.ID, user.GetFullName(), user.Role, now)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("ошибка генерации JWT")
		return authapimodels.JWTResponse{}, err
	}
	refreshToken, err := authutils.GetRefreshToken(user.ID, now)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("ошибка генерации refresh JWT")
		return authapimodels.JWTResponse{}, err
	}
	return authapimodels.JWTResponse{
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}
