package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sitescout/sitescout-api/internal/export"
	"github.com/sitescout/sitescout-api/internal/models"
	"github.com/sitescout/sitescout-api/internal/verify"
)

const rootStatus = "SiteScout CRM Active"

type LeadScout interface {
	Scout(ctx context.Context, industry, location string, page int) []models.BusinessProfile
}

type Auditor interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) models.AnalysisResult
}

type EmailVerifier interface {
	Verify(ctx context.Context, email string) verify.Status
}

type Handler struct {
	scout    LeadScout
	auditor  Auditor
	verifier EmailVerifier
	logger   *zap.Logger
}

func NewHandler(scout LeadScout, auditor Auditor, verifier EmailVerifier, logger *zap.Logger) *Handler {
	return &Handler{
		scout:    scout,
		auditor:  auditor,
		verifier: verifier,
		logger:   logger,
	}
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: rootStatus})
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Scout returns a page of leads. Model failures are absorbed by the service,
// so this never answers with an upstream error.
func (h *Handler) Scout(c *gin.Context) {
	q, ok := h.bindScout(c)
	if !ok {
		return
	}

	h.logger.Info("scouting leads",
		zap.String("industry", q.Industry),
		zap.String("location", q.Location),
		zap.Int("page", q.Page),
		zap.String("request_id", requestID(c)),
	)

	leads := h.scout.Scout(detach(c), q.Industry, q.Location, q.Page)
	c.JSON(http.StatusOK, leads)
}

// ExportLeads runs the same lookup as Scout and returns the leads as an XLSX
// attachment.
func (h *Handler) ExportLeads(c *gin.Context) {
	q, ok := h.bindScout(c)
	if !ok {
		return
	}

	leads := h.scout.Scout(detach(c), q.Industry, q.Location, q.Page)

	var buf bytes.Buffer
	if err := export.WriteLeads(&buf, leads); err != nil {
		h.logger.Error("failed to export leads", zap.Error(err), zap.String("request_id", requestID(c)))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to export leads"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(q.Industry, q.Location, q.Page)))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *Handler) Analyze(c *gin.Context) {
	var body models.AnalyzeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, err)
		return
	}
	req := body.Request()

	h.logger.Info("auditing business",
		zap.String("business", req.BusinessName),
		zap.Bool("has_website", req.HasWebsite()),
		zap.String("request_id", requestID(c)),
	)

	c.JSON(http.StatusOK, h.auditor.Analyze(detach(c), req))
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	var req models.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	status := h.verifier.Verify(detach(c), *req.Email)
	c.JSON(http.StatusOK, models.VerifyEmailResponse{Status: string(status)})
}

func (h *Handler) bindScout(c *gin.Context) (models.ScoutQuery, bool) {
	var req models.ScoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return models.ScoutQuery{}, false
	}
	return req.Query(), true
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.logger.Warn("rejected request body",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestID(c)),
		zap.Error(err),
	)
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
}

// detach keeps request scoped values but drops cancellation: a client that
// disconnects does not abort an in-flight model call or backoff.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
