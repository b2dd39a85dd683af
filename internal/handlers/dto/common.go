package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	domainerrors "github.com/rafabene/pharmacy-authz/internal/domain/errors"
)

const defaultBaseURL = "http://localhost:8080"

// ErrorResponse segue RFC 7807 (Problem Details for HTTP APIs)
type ErrorResponse struct {
	problems.DefaultProblem
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError representa um erro de validação de campo
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

func baseURL(c *gin.Context) string {
	if base := c.GetString("base_url"); base != "" {
		return base
	}
	return defaultBaseURL
}

// NewErrorResponseI18n cria uma resposta de erro usando i18n
func NewErrorResponseI18n(c *gin.Context, problemType, titleKey, detailKey string, status int, params ...map[string]interface{}) ErrorResponse {
	return ErrorResponse{
		DefaultProblem: problems.DefaultProblem{
			Type:     baseURL(c) + problemType,
			Title:    T(c, titleKey, params...),
			Status:   status,
			Detail:   T(c, detailKey, params...),
			Instance: c.Request.URL.Path,
		},
	}
}

// WriteProblem responde com o documento de problema e o media type application/problem+json
func WriteProblem(c *gin.Context, response ErrorResponse) {
	c.Header("Content-Type", problems.ProblemMediaType)
	c.AbortWithStatusJSON(response.Status, response)
}

// ValidationErrorResponseI18n cria uma resposta de erro de validação (400)
func ValidationErrorResponseI18n(c *gin.Context, validationErrors []ValidationError) ErrorResponse {
	response := NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeValidation,
		"error.validation.title",
		"error.validation.detail",
		http.StatusBadRequest,
	)
	response.Errors = validationErrors
	return response
}

// NotFoundErrorResponseI18n cria uma resposta de erro 404
func NotFoundErrorResponseI18n(c *gin.Context, resource string) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeNotFound,
		"error.not_found.title",
		"error.not_found.detail",
		http.StatusNotFound,
		map[string]interface{}{"Resource": resource},
	)
}

// UnauthenticatedErrorResponseI18n cria uma resposta de erro 401
func UnauthenticatedErrorResponseI18n(c *gin.Context) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeUnauthorized,
		domainerrors.ErrUnauthenticated.Error()+".title",
		domainerrors.ErrUnauthenticated.Error()+".detail",
		http.StatusUnauthorized,
		map[string]interface{}{"Route": c.Request.URL.Path},
	)
}

// ForbiddenErrorResponseI18n cria uma resposta de erro 403
func ForbiddenErrorResponseI18n(c *gin.Context, resource string) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeForbidden,
		domainerrors.ErrForbidden.Error()+".title",
		domainerrors.ErrForbidden.Error()+".detail",
		http.StatusForbidden,
		map[string]interface{}{"Resource": resource},
	)
}

// NoPharmacyErrorResponseI18n cria uma resposta 403 para principal sem farmácia ativa
func NoPharmacyErrorResponseI18n(c *gin.Context) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeForbidden,
		domainerrors.ErrNoPharmacy.Error()+".title",
		domainerrors.ErrNoPharmacy.Error()+".detail",
		http.StatusForbidden,
		map[string]interface{}{"Route": c.Request.URL.Path},
	)
}

// InternalErrorResponseI18n cria uma resposta de erro 500
func InternalErrorResponseI18n(c *gin.Context) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeInternal,
		"error.internal.title",
		"error.internal.detail",
		http.StatusInternalServerError,
	)
}
