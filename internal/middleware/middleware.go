package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hylehub-store/internal/repository"
)

// AdminHeader es la cabecera que lleva el secreto del panel
const AdminHeader = "X-Admin-Password"

// ErrorResponse es el cuerpo de error común de la API
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SecretMatches compara en tiempo constante
func SecretMatches(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// AdminAuth rechaza con 403 y el mismo mensaje tanto sin secreto como con secreto incorrecto
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SecretMatches(c.GetHeader(AdminHeader), secret) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "unauthorized"})
			return
		}
		c.Next()
	}
}

// StoreReady responde 503 si el almacenamiento no contesta
func StoreReady(p repository.Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := p.Ping(c.Request.Context()); err != nil {
			logrus.WithError(err).Warn("store not ready")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
				Error:   "database connection is not ready",
				Details: "check server logs for MONGO_URI or network access issues",
			})
			return
		}
		c.Next()
	}
}

// RequestLogger registra cada petición con logrus
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Error("request failed")
			return
		}
		entry.Info("request")
	}
}
