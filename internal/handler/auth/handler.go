package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medhub/ambulatorio-api/internal/handler"
	"github.com/medhub/ambulatorio-api/internal/middleware"
	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/service/auth"
)

type Handler struct {
	auth *auth.Service
}

func NewHandler(authSvc *auth.Service) *Handler {
	return &Handler{auth: authSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.login)
}

func (h *Handler) login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := h.auth.Login(&req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// MeHandler sits behind the auth middleware and echoes the authenticated
// account, mirroring the user block of the login response.
type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

func (h *MeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.me)
}

func (h *MeHandler) me(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, model.UserResponse{
		Username:   claims.Username,
		Ambulatori: claims.Ambulatori,
	})
}
