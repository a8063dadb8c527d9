package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pearlapp/pearl-backend/internal/http/response"
	"github.com/pearlapp/pearl-backend/internal/platform/ctxutil"
	"github.com/pearlapp/pearl-backend/internal/services"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GET /api/user
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	me, err := h.users.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "get_me_failed", err)
		return
	}
	if me == nil {
		response.RespondError(c, http.StatusNotFound, "user_not_found", fmt.Errorf("user not found"))
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}
