package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
)

// APIKeyHeader carries the shared secret on every protected request.
const APIKeyHeader = "x-api-key"

// APIKey rejects requests whose x-api-key header does not equal key.
func APIKey(key string) echo.MiddlewareFunc {
	return echomw.KeyAuthWithConfig(echomw.KeyAuthConfig{
		KeyLookup: "header:" + APIKeyHeader,
		Validator: func(provided string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(provided), []byte(key)) == 1, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			log.Warn().Str("path", c.Request().URL.Path).Str("ip", c.RealIP()).Msg("Rejected request with missing or wrong API key")
			return c.JSON(http.StatusUnauthorized, models.StatusResponse{Status: "unauthorized"})
		},
	})
}
