package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/service"
	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *domain.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	if errors.Is(err, service.ErrForbidden) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})
		return
	}

	kind := domain.KindOf(err)
	switch kind {
	case domain.KindNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: string(kind)})

	case domain.KindDuplicateKey, domain.KindReferentialIntegrity:
		resp := ErrorResponse{Error: err.Error(), Code: string(kind)}
		var derr *domain.Error
		if errors.As(err, &derr) && derr.Hint != "" {
			resp.Details = map[string]string{"constraint": derr.Hint}
			if derr.Relationship != "" {
				resp.Details["relationship"] = derr.Relationship
			}
		}
		c.JSON(http.StatusConflict, resp)

	case domain.KindValidation:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: string(kind)})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseID(c *gin.Context, param string) (int64, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a positive integer"})
		return 0, false
	}
	return id, true
}

// parseQueryInt reads an optional integer parameter no smaller than floor. A
// malformed or out-of-range value is answered with 400.
func parseQueryInt(c *gin.Context, key string, defaultVal, floor int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < floor {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid %s: must be an integer >= %d", key, floor), Code: string(domain.KindValidation)})
		return 0, false
	}
	return v, true
}
