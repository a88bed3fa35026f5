package authhandler

import (
	"context"
	"hr-pipeline-backend/config"
	"hr-pipeline-backend/lib/rbac"
	authutils "hr-pipeline-backend/lib/utils/auth-utils"
	"hr-pipeline-backend/lib/utils/clock"
	memorytx "hr-pipeline-backend/lib/utils/tx-manager/memory-tx"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	config.Conf = &config.Configuration{}
	config.Conf.Auth.JWTSecret = "test-secret"
	config.Conf.Auth.JWTExpireInSec = 3600
	config.Conf.Auth.JWTRefreshExpireInSec = 7200

	db := memorytx.New()
	hash, err := authutils.HashPassword("s3cret")
	require.NoError(t, err)
	user := db.AddStaffUser(dbmodels.StaffUser{
		FirstName: "Анна",
		LastName:  "Смирнова",
		Email:     "anna@example.com",
		Role:      models.RecruiterRole,
		Password:  hash,
		IsActive:  true,
	})
	db.AddStaffUser(dbmodels.StaffUser{Email: "old@example.com", Password: hash})
	rbac.NewHandler()
	handler := NewInstance(db, clock.NewFixed(time.Now()), rbac.Instance)

	t.Run(`успешный вход`, func(t *testing.T) {
		resp, err := handler.Login(context.Background(), "anna@example.com", "s3cret")
		require.NoError(t, err)
		claims := jwt.MapClaims{}
		_, err = jwt.ParseWithClaims(resp.Token, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		require.Equal(t, user.ID, claims["sub"])
		require.Equal(t, string(models.RecruiterRole), claims["role"])

		refreshed, err := handler.RefreshToken(context.Background(), resp.RefreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, refreshed.Token)
	})
	t.Run(`неверный пароль и неактивный пользователь`, func(t *testing.T) {
		_, err := handler.Login(context.Background(), "anna@example.com", "wrong")
		require.ErrorIs(t, err, ErrUnauthorized)
		_, err = handler.Login(context.Background(), "old@example.com", "s3cret")
		require.ErrorIs(t, err, ErrUnauthorized)
		_, err = handler.Login(context.Background(), "nobody@example.com", "s3cret")
		require.ErrorIs(t, err, ErrUnauthorized)
	})
	t.Run(`access токен не принимается как refresh`, func(t *testing.T) {
		resp, err := handler.Login(context.Background(), "anna@example.com", "s3cret")
		require.NoError(t, err)
		_, err = handler.RefreshToken(context.Background(), resp.Token)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
	t.Run(`профиль с разрешениями`, func(t *testing.T) {
		view, err := handler.Me(context.Background(), user.ID)
		require.NoError(t, err)
		require.Equal(t, "Recruiter", view.RoleName)
		require.Contains(t, view.Permissions[models.OfferModule], models.FlowPermission)
	})
}
