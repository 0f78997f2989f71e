package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/riddaudit/backend/internal/domain"
	"github.com/riddaudit/backend/internal/usecase"
)

// maxUploadBytes caps a single uploaded service ticket at 20 MB.
const maxUploadBytes = 20 << 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	audit    *usecase.AuditService
	catalog  domain.CatalogStore
	renderer domain.ReportRenderer
}

// NewHandler creates a new HTTP handler
func NewHandler(audit *usecase.AuditService, catalog domain.CatalogStore, renderer domain.ReportRenderer) *Handler {
	return &Handler{
		audit:    audit,
		catalog:  catalog,
		renderer: renderer,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "riddaudit-backend",
		"version": "1.0.0",
	})
}

// SubmitAudit handles a batch upload of service tickets. Expects a
// multipart form with one or more "files" parts (PDF), a "technician"
// field, and an optional "date" field (ISO 8601; defaults to today).
func (h *Handler) SubmitAudit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid multipart form: %v", err)})
		return
	}

	technician := c.PostForm("technician")
	if technician == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "technician name is required"})
		return
	}

	date := c.PostForm("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one PDF file is required"})
		return
	}

	var docs []domain.Document
	for _, header := range fileHeaders {
		if header.Size > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("%s exceeds the upload size limit", header.Filename)})
			return
		}

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("cannot read %s: %v", header.Filename, err)})
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("cannot read %s: %v", header.Filename, err)})
			return
		}

		docs = append(docs, domain.Document{Name: header.Filename, Data: data})
	}

	batch, err := h.audit.ProcessBatch(c.Request.Context(), docs, technician, date)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, batch)
}

// RenderReport turns previously returned audit results back into a
// downloadable PDF. The body is the JSON array of document results exactly
// as SubmitAudit produced them.
func (h *Handler) RenderReport(c *gin.Context) {
	var results []domain.DocumentResult
	if err := c.ShouldBindJSON(&results); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid results payload: %v", err)})
		return
	}

	pdfBytes, err := h.renderer.Render(results)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="compliance_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// addRuleRequest is the body for the rule-authoring endpoint.
type addRuleRequest struct {
	ProductName            string `json:"product_name" binding:"required"`
	Description            string `json:"description"`
	RuleText               string `json:"rule_text"`
	MissingApplicationRate bool   `json:"missing_application_rate"`
}

// AddRule appends an authored rule to the catalog, creating the product
// entry when the name is unknown, and persists the catalog.
func (h *Handler) AddRule(c *gin.Context) {
	var req addRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid rule payload: %v", err)})
		return
	}

	if err := h.catalog.AddRule(req.ProductName, req.Description, req.RuleText, req.MissingApplicationRate); err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "rule added", "product": req.ProductName})
}

// GetCatalog returns the current rule catalog along with any load warnings.
func (h *Handler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"products": h.catalog.Snapshot(),
		"warnings": h.catalog.Warnings(),
	})
}
