package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ecocompare/backend/internal/domain"
	"github.com/ecocompare/backend/internal/infrastructure/export"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Error codes that do not come from a ProductServiceError source
const (
	codeInternal    = "INTERNAL_SERVER_ERROR"
	codeRateLimited = "RATE_LIMITED"
)

var filenameUnsafeRegex = regexp.MustCompile(`[^a-z0-9]+`)

// ProductFinder runs a product aggregation
type ProductFinder interface {
	FetchProducts(ctx context.Context, query string, opts domain.SearchOptions) (*domain.AggregationResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products      ProductFinder
	logger        zerolog.Logger
	exposeDetails bool
}

// NewHandler creates a new HTTP handler. exposeDetails controls whether
// error details are rendered to clients (development only).
func NewHandler(products ProductFinder, logger zerolog.Logger, exposeDetails bool) *Handler {
	return &Handler{
		products:      products,
		logger:        logger,
		exposeDetails: exposeDetails,
	}
}

// searchRequest is the query string of the product endpoints
type searchRequest struct {
	Query     string `form:"query"`
	Page      string `form:"page"`
	Limit     int    `form:"limit"`
	Currency  string `form:"currency"`
	Platforms string `form:"platforms"`
}

func (r searchRequest) options() domain.SearchOptions {
	opts := domain.SearchOptions{
		Page:     r.Page,
		Limit:    r.Limit,
		Currency: r.Currency,
	}
	for _, p := range strings.Split(r.Platforms, ",") {
		if p = strings.TrimSpace(p); p != "" {
			opts.Platforms = append(opts.Platforms, p)
		}
	}
	return opts
}

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func newErrorResponse(code, message string, details interface{}) errorResponse {
	return errorResponse{
		Success: false,
		Error:   errorBody{Code: code, Message: message, Details: details},
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"status":    "healthy",
		"service":   "ecocompare-backend",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// SearchProducts handles GET /api/v1/products
func (h *Handler) SearchProducts(c *gin.Context) {
	result, ok := h.fetch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportProducts handles GET /api/v1/products/export and answers with an XLSX workbook
func (h *Handler) ExportProducts(c *gin.Context) {
	result, ok := h.fetch(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteProducts(&buf, result); err != nil {
		h.writeError(c, domain.NewServiceError(http.StatusInternalServerError, "Failed to export products", err.Error()))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(result.Metadata.Query)))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// fetch binds the query string and runs the aggregation, writing the error
// response itself when it fails.
func (h *Handler) fetch(c *gin.Context) (*domain.AggregationResult, bool) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeError(c, domain.NewValidationError("Invalid query parameters", err.Error()).WithKind(domain.ErrInvalidOptions))
		return nil, false
	}

	result, err := h.products.FetchProducts(c.Request.Context(), req.Query, req.options())
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return result, true
}

// writeError maps a classified error to its HTTP status and error envelope
func (h *Handler) writeError(c *gin.Context, err error) {
	var pse *domain.ProductServiceError
	if !errors.As(err, &pse) {
		h.logger.Error().Err(err).Str("rid", requestID(c)).Msg("unclassified error")
		c.JSON(http.StatusInternalServerError, newErrorResponse(codeInternal, "Internal server error", nil))
		return
	}

	status := pse.StatusCode
	if status < http.StatusBadRequest || status > 599 {
		status = http.StatusInternalServerError
	}

	event := h.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = h.logger.Error()
	}
	event.Err(err).Str("rid", requestID(c)).Str("source", pse.Source).Int("status", status).Msg("request failed")

	var details interface{}
	if h.exposeDetails {
		details = pse.Details
	}
	c.JSON(status, newErrorResponse(strings.ToUpper(pse.Source), pse.Message, details))
}

// exportFilename derives a download name such as "ecocompare-steel-bottle.xlsx"
func exportFilename(query string) string {
	slug := strings.Trim(filenameUnsafeRegex.ReplaceAllString(strings.ToLower(query), "-"), "-")
	if slug == "" {
		return "ecocompare.xlsx"
	}
	if len(slug) > 50 {
		slug = strings.TrimRight(slug[:50], "-")
	}
	return "ecocompare-" + slug + ".xlsx"
}
