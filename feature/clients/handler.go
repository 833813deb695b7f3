package clients

import (
	"bytes"
	"errors"
	"strconv"

	"migration-reconciler/core/logger"
	"migration-reconciler/core/reconcile"
	"migration-reconciler/feature/clients/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for client reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reconcile")
	group.Get("/", h.HandleReconcile)
	group.Get("/clients/:id", h.HandleReconcileClient)
	group.Post("/upload", h.HandleUpload)
}

// HandleReconcile compares two stored snapshots.
// @Summary Reconcile Snapshots
// @Description Compare the source and target client snapshots and return every discrepancy.
// @Tags reconcile
// @Produce json
// @Param source query string false "Source location (path, s3://bucket/object, db://table)"
// @Param target query string false "Target location"
// @Param duplicates query string false "Duplicate key policy (report, reject)"
// @Param refresh query bool false "Reload snapshots instead of using the cache"
// @Success 200 {object} models.ReconcileReport "Reconciliation report"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Snapshot not found"
// @Failure 422 {object} map[string]string "Schema mismatch"
// @Router /reconcile [get]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	source, target := query(c, "source"), query(c, "target")

	if c.QueryBool("refresh") {
		h.service.Invalidate(source, target)
	}

	result, err := h.service.Compare(c.Context(), source, target, reconcile.DuplicatePolicy(query(c, "duplicates")))
	if err != nil {
		return respondError(c, l, err)
	}

	issues := make([]models.Issue, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, models.NewIssue(issue))
	}

	return c.JSON(models.ReconcileReport{
		RunID:   result.RunID,
		Source:  result.Source,
		Target:  result.Target,
		Summary: result.Report.Summary,
		Entries: result.Report.Entries,
		Issues:  issues,
	})
}

// HandleReconcileClient compares a single client.
// @Summary Reconcile Client
// @Description Compare one client between the source and target snapshots.
// @Tags reconcile
// @Produce json
// @Param id path int true "Client ID"
// @Param source query string false "Source location"
// @Param target query string false "Target location"
// @Success 200 {object} models.ClientReport "Client report"
// @Failure 400 {object} map[string]string "Invalid client id"
// @Failure 404 {object} map[string]string "Client or snapshot not found"
// @Router /reconcile/clients/{id} [get]
func (h *Handler) HandleReconcileClient(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "client id must be an integer",
		})
	}

	entries, found, err := h.service.CompareOne(c.Context(), query(c, "source"), query(c, "target"), id)
	if err != nil {
		return respondError(c, l, err)
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(models.ClientReport{
			ClientID: id,
			Status:   models.ClientStatusNotPresent,
			Entries:  []reconcile.Entry{},
		})
	}

	status := models.ClientStatusMatched
	if len(entries) > 0 {
		status = models.ClientStatusDiffers
	} else {
		entries = []reconcile.Entry{}
	}

	return c.JSON(models.ClientReport{ClientID: id, Status: status, Entries: entries})
}

// HandleUpload compares two uploaded files and returns the report as CSV.
// @Summary Reconcile Uploads
// @Description Compare uploaded source and target files. Responds 204 when no discrepancy is found.
// @Tags reconcile
// @Accept multipart/form-data
// @Produce text/csv
// @Param source formData file true "Source snapshot"
// @Param target formData file true "Target snapshot"
// @Param duplicates query string false "Duplicate key policy (report, reject)"
// @Success 200 {string} string "Discrepancy report"
// @Success 204 "No discrepancies"
// @Failure 400 {object} map[string]string "Missing file"
// @Failure 422 {object} map[string]string "Schema mismatch"
// @Router /reconcile/upload [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	sourceHeader, err := c.FormFile("source")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing source file"})
	}
	targetHeader, err := c.FormFile("target")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing target file"})
	}

	sourceFile, err := sourceHeader.Open()
	if err != nil {
		return respondError(c, l, err)
	}
	defer sourceFile.Close()

	targetFile, err := targetHeader.Open()
	if err != nil {
		return respondError(c, l, err)
	}
	defer targetFile.Close()

	result, err := h.service.CompareReaders(c.Context(), sourceFile, targetFile, reconcile.DuplicatePolicy(query(c, "duplicates")))
	if err != nil {
		return respondError(c, l, err)
	}
	if result.NoDiscrepancies() {
		return c.SendStatus(fiber.StatusNoContent)
	}

	var buf bytes.Buffer
	if err := h.service.Store().Codec().EncodeReport(&buf, result.Report); err != nil {
		return respondError(c, l, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="discrepancy_report.csv"`)
	return c.Send(buf.Bytes())
}

// query returns a copy of a query parameter. Fiber's values point into the
// request buffer, and locations outlive the request in the dataset cache.
func query(c *fiber.Ctx, key string) string {
	return utils.CopyString(c.Query(key))
}

// statusFor maps run errors to HTTP status codes.
func statusFor(err error) int {
	var coercion *reconcile.CoercionError
	switch {
	case errors.Is(err, reconcile.ErrInputNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrSchemaMismatch), errors.As(err, &coercion):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, reconcile.ErrDuplicateKey):
		return fiber.StatusConflict
	case errors.Is(err, ErrBackendUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, ErrInvalidInput):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, l *zap.Logger, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		l.Error("Reconciliation request failed", zap.Error(err))
	} else {
		l.Warn("Reconciliation request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
