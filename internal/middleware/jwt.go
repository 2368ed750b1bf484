package middleware

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/service"
)

// AdminSubjectKey holds the subject of a verified admin token.
const AdminSubjectKey = "adminSubject"

// AdminJWT requires a bearer token that tokens accepts. A token that verifies
// but lacks the admin role gets 403; anything else that fails gets 401.
func AdminJWT(tokens service.JWTGenerator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: AdminSubjectKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return tokens.ValidateToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, service.ErrAdminRoleRequired) {
				log.Warn().Err(err).Str("path", c.Path()).Msg("Token without admin role used on admin route")
				return c.JSON(http.StatusForbidden, models.StatusResponse{Status: "forbidden"})
			}
			log.Debug().Err(err).Str("path", c.Path()).Msg("Admin token rejected")
			return c.JSON(http.StatusUnauthorized, models.StatusResponse{Status: "unauthorized"})
		},
	})
}
