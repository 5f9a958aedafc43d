package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hylehub-store/internal/middleware"
	"hylehub-store/internal/repository"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Login permite al panel verificar el secreto antes de guardarlo
func Login(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		_ = c.ShouldBindJSON(&req)

		if !middleware.SecretMatches(req.Password, secret) {
			c.JSON(http.StatusUnauthorized, loginResponse{Success: false, Message: "invalid password"})
			return
		}
		c.JSON(http.StatusOK, loginResponse{Success: true})
	}
}

// Health informa si el almacenamiento responde
func Health(p repository.Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := p.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
