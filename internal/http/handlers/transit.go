package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pearlapp/pearl-backend/internal/http/response"
	"github.com/pearlapp/pearl-backend/internal/platform/ctxutil"
	"github.com/pearlapp/pearl-backend/internal/services"
)

type TransitHandler struct {
	transits services.TransitService
}

func NewTransitHandler(transits services.TransitService) *TransitHandler {
	return &TransitHandler{transits: transits}
}

// GET /api/transits?view=major|personal
//
// Computes the current sky against the caller's latest fingerprint. The
// optional view applies one of the chart's derived filters.
func (h *TransitHandler) Current(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	chart, err := h.transits.CurrentTransits(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, http.StatusBadGateway, "transit_calculation_failed", err)
		return
	}

	payload := gin.H{
		"generated_at": chart.GeneratedAt,
	}
	switch strings.ToLower(strings.TrimSpace(c.Query("view"))) {
	case "":
		payload["transits"] = chart.ActiveTransits
	case "major":
		payload["transits"] = chart.MajorTransits()
	case "personal":
		payload["transits"] = chart.PersonalTransits()
	default:
		response.RespondError(c, http.StatusBadRequest, "invalid_view",
			fmt.Errorf("view must be major or personal"))
		return
	}
	response.RespondOK(c, payload)
}
