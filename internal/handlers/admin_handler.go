package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/middleware"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/service"
)

// AdminHandler exposes reset token housekeeping to operators.
type AdminHandler struct {
	Registry service.ResetTokenRegistry
}

func NewAdminHandler(registry service.ResetTokenRegistry) *AdminHandler {
	return &AdminHandler{Registry: registry}
}

func (h *AdminHandler) ResetTokenStats(c echo.Context) error {
	n, err := h.Registry.Outstanding(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to count reset tokens")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read token store")
	}
	return c.JSON(http.StatusOK, models.ResetTokenStatsResponse{Outstanding: n})
}

// SweepResetTokens runs an expiry sweep immediately.
func (h *AdminHandler) SweepResetTokens(c echo.Context) error {
	removed, err := h.Registry.SweepExpired(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Manual reset token sweep failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sweep token store")
	}
	subject, _ := c.Get(middleware.AdminSubjectKey).(string)
	log.Info().Str("admin", subject).Int("removed", removed).Msg("Manual reset token sweep")
	return c.JSON(http.StatusOK, models.SweepResponse{Removed: removed})
}
