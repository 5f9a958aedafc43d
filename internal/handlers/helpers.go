package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"hylehub-store/internal/middleware"
	"hylehub-store/internal/repository"
)

const (
	defaultPage    = 1
	maxPageSize    = 100
	totalCountHead = "X-Total-Count"
)

type SuccessResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidationError representa un error de validación
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// badRequest responde 400 con el mensaje del error
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
}

// storeError traduce errores del repositorio: ErrNotFound => 404, ErrDuplicateID => 409, el resto => 500
func storeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "not found"})
		return
	case errors.Is(err, repository.ErrDuplicateID):
		c.JSON(http.StatusConflict, middleware.ErrorResponse{Error: message, Details: err.Error()})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: message})
}

// getPaginationParams obtiene los parámetros de paginación; pageSize 0 significa sin paginar
func getPaginationParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	pageSize, _ = strconv.Atoi(c.Query("pageSize"))

	if page < 1 {
		page = defaultPage
	}
	if pageSize < 0 {
		pageSize = 0
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
