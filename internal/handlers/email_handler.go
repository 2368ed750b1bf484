package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/service"
)

const templateRouteSuffix = "-email"

// EmailHandler serves the generic and templated send endpoints.
type EmailHandler struct {
	Notifier service.Notifier
}

func NewEmailHandler(notifier service.Notifier) *EmailHandler {
	return &EmailHandler{Notifier: notifier}
}

// SendEmail sends a caller-composed message.
func (h *EmailHandler) SendEmail(c echo.Context) error {
	req := new(models.SendEmailRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}

	result, err := h.Notifier.SendRaw(c.Request().Context(), &models.EmailMessage{
		To:      req.To,
		Subject: req.Subject,
		Text:    req.Text,
		HTML:    req.HTML,
	})
	if err != nil {
		return sendError(err, "raw", req.To)
	}
	return c.JSON(http.StatusOK, result)
}

// SendTemplate handles POST /send-<template>-email.
func (h *EmailHandler) SendTemplate(c echo.Context) error {
	name, ok := strings.CutSuffix(c.Param("template"), templateRouteSuffix)
	if !ok || name == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Template not found")
	}

	// BindBody keeps the :template path param out of the fields.
	var body map[string]any
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	fields := stringFields(body)
	result, err := h.Notifier.Send(c.Request().Context(), name, fields)
	if err != nil {
		return sendError(err, name, fields["to"])
	}
	return c.JSON(http.StatusOK, result)
}

func sendError(err error, templateName, to string) error {
	switch {
	case errors.Is(err, service.ErrUnknownTemplate):
		return echo.NewHTTPError(http.StatusNotFound, "Template not found")
	case errors.Is(err, service.ErrRecipientRequired):
		return echo.NewHTTPError(http.StatusBadRequest, "Email address required")
	case errors.Is(err, service.ErrInvalidRecipient):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipient email")
	case errors.Is(err, service.ErrMissingFields):
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	case errors.Is(err, service.ErrDeliveryFailed):
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to send email").SetInternal(err)
	}
	log.Error().Err(err).Str("template", templateName).Str("toEmail", to).Msg("Failed to send email")
	return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send email").SetInternal(err)
}

// stringFields flattens a JSON body into template fields. Nested values are
// kept as their JSON text; nulls are dropped.
func stringFields(body map[string]any) map[string]string {
	fields := make(map[string]string, len(body))
	for k, v := range body {
		switch val := v.(type) {
		case nil:
		case string:
			fields[k] = val
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			fields[k] = strconv.FormatBool(val)
		default:
			if raw, err := json.Marshal(val); err == nil {
				fields[k] = string(raw)
			}
		}
	}
	return fields
}
