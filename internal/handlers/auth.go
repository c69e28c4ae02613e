package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/auth"
	"github.com/atelierhq/atelier/internal/logger"
	"github.com/atelierhq/atelier/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Login handles POST /api/v1/auth/login. Wrong email and wrong password get
// the same response so the endpoint cannot be used to probe for accounts.
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "email and password are required")
		return
	}

	resp, err := h.auth.Login(req)
	if err == auth.ErrUserNotFound || err == auth.ErrInvalidCredentials {
		util.RespondUnauthorized(c, "invalid email or password")
		return
	}
	if err != nil {
		logger.Error("login failed", zap.Error(err))
		util.RespondInternalError(c, "login failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me behind the auth middleware.
func (h *Handlers) Me(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
