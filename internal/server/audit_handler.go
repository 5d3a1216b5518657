package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/terry-li-hm/frenum/internal/audit"
)

// AuditHandler answers GET /audit: the full decoded audit log.
type AuditHandler struct {
	logPath string
}

func NewAuditHandler(logPath string) *AuditHandler {
	return &AuditHandler{logPath: logPath}
}

func (h *AuditHandler) GetAuditLog(c echo.Context) error {
	records, err := audit.ReadFile(h.logPath)
	if err != nil {
		log.Error().Err(err).Str("path", h.logPath).Msg("failed to read audit log")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to read audit log",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total":   len(records),
		"entries": records,
	})
}
