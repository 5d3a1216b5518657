package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/terry-li-hm/frenum/internal/audit"
	"github.com/terry-li-hm/frenum/internal/report"
)

// ReportHandler answers GET /report: an aggregate summary of the
// audit log suitable for a dashboard, computed fresh on every
// request rather than cached.
type ReportHandler struct {
	logPath string
}

func NewReportHandler(logPath string) *ReportHandler {
	return &ReportHandler{logPath: logPath}
}

func (h *ReportHandler) GetReport(c echo.Context) error {
	records, err := audit.ReadFile(h.logPath)
	if err != nil {
		log.Error().Err(err).Str("path", h.logPath).Msg("failed to read audit log")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to read audit log",
		})
	}

	return c.JSON(http.StatusOK, report.Summarize(records))
}
