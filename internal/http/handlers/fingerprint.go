package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/http/response"
	"github.com/pearlapp/pearl-backend/internal/platform/ctxutil"
	"github.com/pearlapp/pearl-backend/internal/services"
)

type FingerprintHandler struct {
	fingerprints services.FingerprintService
}

func NewFingerprintHandler(fingerprints services.FingerprintService) *FingerprintHandler {
	return &FingerprintHandler{fingerprints: fingerprints}
}

type createFingerprintReq struct {
	Name        string  `json:"name" binding:"required"`
	BirthDate   string  `json:"birth_date" binding:"required"` // YYYY-MM-DD
	BirthTime   string  `json:"birth_time"`                    // HH:MM, optional
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CityName    string  `json:"city_name"`
	CountryCode string  `json:"country_code"`
}

// POST /api/fingerprints
//
// Builds and stores a fresh fingerprint. A failed build is retryable from
// the client's perspective; a missing life purpose is not an error.
func (h *FingerprintHandler) Create(c *gin.Context) {
	var req createFingerprintReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_birth_date", err)
		return
	}
	if req.BirthTime != "" {
		if _, err := time.Parse("15:04", req.BirthTime); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_birth_time", err)
			return
		}
	}

	userID := ctxutil.UserID(c.Request.Context())
	fp, err := h.fingerprints.CreateFingerprint(c.Request.Context(), userID, req.Name, astro.BirthData{
		Date:        birthDate,
		BirthTime:   req.BirthTime,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CityName:    req.CityName,
		CountryCode: req.CountryCode,
	})
	if err != nil {
		response.RespondServiceError(c, http.StatusBadGateway, "fingerprint_build_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"fingerprint": fp})
}

// GET /api/fingerprints
func (h *FingerprintHandler) List(c *gin.Context) {
	limit := 20
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	userID := ctxutil.UserID(c.Request.Context())
	rows, err := h.fingerprints.ListFingerprints(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_fingerprints_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"fingerprints": rows})
}

// GET /api/fingerprints/latest
func (h *FingerprintHandler) GetLatest(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	fp, err := h.fingerprints.GetLatestFingerprint(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "get_fingerprint_failed", err)
		return
	}
	if fp == nil {
		response.RespondError(c, http.StatusNotFound, "no_fingerprint", fmt.Errorf("no fingerprint on record"))
		return
	}
	response.RespondOK(c, gin.H{"fingerprint": fp})
}

// GET /api/fingerprints/:id
func (h *FingerprintHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	fp, err := h.fingerprints.GetFingerprint(c.Request.Context(), userID, id)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "get_fingerprint_failed", err)
		return
	}
	if fp == nil {
		response.RespondError(c, http.StatusNotFound, "fingerprint_not_found", fmt.Errorf("fingerprint not found"))
		return
	}
	response.RespondOK(c, gin.H{"fingerprint": fp})
}
