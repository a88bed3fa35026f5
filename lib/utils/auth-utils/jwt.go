package authutils

import (
	"hr-pipeline-backend/config"
	"hr-pipeline-backend/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const refreshTokenType = "refresh"

// IsRefreshClaims refresh токен не дает доступа к API
func IsRefreshClaims(claims jwt.MapClaims) bool {
	typ, _ := claims["typ"].(string)
	return typ == refreshTokenType
}

func GetToken(userID, name string, role models.UserRole, now time.Time) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"name": name,
		"sub":  userID,
		"role": string(role),
		"exp":  now.Add(time.Second * time.Duration(config.Conf.Auth.JWTExpireInSec)).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

func GetRefreshToken(userID string, now time.Time) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": refreshTokenType,
		"exp": now.Add(time.Second * time.Duration(config.Conf.Auth.JWTRefreshExpireInSec)).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

// ParseRefreshToken проверяет подпись и срок refresh токена и возвращает ИД пользователя
func ParseRefreshToken(tokenString string) (userID string, err error) {
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Conf.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Wrap(err, "некорректный refresh token")
	}
	if typ, _ := claims["typ"].(string); typ != refreshTokenType {
		return "", errors.New("токен не является refresh токеном")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("в токене нет пользователя")
	}
	return sub, nil
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	return token.Claims.(jwt.MapClaims)
}
