package server

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/terry-li-hm/frenum/internal/audit"
	"github.com/terry-li-hm/frenum/internal/config"
	"github.com/terry-li-hm/frenum/internal/engine"
)

// EvaluateHandler answers POST /evaluate: one tool call in, one
// EvaluationResult out, with every decision appended to the audit log.
type EvaluateHandler struct {
	store   *engine.Store
	logPath string
}

// NewEvaluateHandler constructs a handler bound to store, logging
// every decision it makes to logPath.
func NewEvaluateHandler(store *engine.Store, logPath string) *EvaluateHandler {
	return &EvaluateHandler{store: store, logPath: logPath}
}

// Evaluate decodes the request body through the same order-preserving
// JSON decoder internal/config uses for policy and test documents,
// rather than echo's default binder into map[string]any: pii_detect
// walks every leaf of ToolCall.Args in tree order (probe.Walk), so a
// request with several PII-bearing fields must resolve to the same
// blocking path on every call, not one that shuffles with Go's
// randomized map iteration order.
func (h *EvaluateHandler) Evaluate(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
	}

	tree, err := config.DecodeJSON(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	tc, err := config.ParseToolCall(tree, "request body")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ev := h.store.Current()
	result := ev.Evaluate(tc)

	logger, err := audit.Open(h.logPath, ev.Policy())
	if err != nil {
		log.Error().Err(err).Msg("failed to open audit log")
	} else {
		if _, err := logger.Append(tc, ev.Policy().PolicyVersion, result); err != nil {
			log.Error().Err(err).Msg("failed to append audit record")
		}
		logger.Close()
	}

	return c.JSON(http.StatusOK, result)
}
