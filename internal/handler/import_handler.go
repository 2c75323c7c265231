package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/z12guilherme/gestao-atipicos/internal/ingest"
	"github.com/z12guilherme/gestao-atipicos/internal/models"
)

// ImportRunner runs one bulk import batch per entity kind.
type ImportRunner interface {
	ImportUsers(ctx context.Context, rows []models.RawRow) models.ImportResult
	ImportStudents(ctx context.Context, rows []models.RawRow) models.ImportResult
}

// ImportHandler exposes the bulk import endpoints. Both accept either a JSON
// array of row objects or an uploaded spreadsheet (multipart field "file"),
// and both answer HTTP 200 with an ImportResult body even when every row
// failed: the transport succeeded, the outcome is in the counts. Non-200
// answers are reserved for malformed requests and authorization failures.
type ImportHandler struct {
	service ImportRunner
	logger  *zap.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(svc ImportRunner, logger *zap.Logger) *ImportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportHandler{service: svc, logger: logger}
}

// ImportUsers bulk-provisions user accounts.
func (h *ImportHandler) ImportUsers(c *gin.Context) {
	h.run(c, "users", h.service.ImportUsers)
}

// ImportStudents bulk-inserts student records.
func (h *ImportHandler) ImportStudents(c *gin.Context) {
	h.run(c, "students", h.service.ImportStudents)
}

func (h *ImportHandler) run(c *gin.Context, entity string, importer func(context.Context, []models.RawRow) models.ImportResult) {
	rows, ok := h.readRows(c)
	if !ok {
		return
	}

	rows = ingest.DropBlank(rows)
	h.logger.Info("import requested", zap.String("entity", entity), zap.Int("rows", len(rows)))

	result := importer(c.Request.Context(), rows)
	c.JSON(http.StatusOK, result)
}

// readRows extracts raw rows from the request. A multipart upload wins over
// a JSON body when both are present. A false return means the response has
// already been written.
func (h *ImportHandler) readRows(c *gin.Context) ([]models.RawRow, bool) {
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "multipart/form-data") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, badRequestResult("Arquivo de importação ausente"))
			return nil, false
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, badRequestResult("Não foi possível ler o arquivo enviado"))
			return nil, false
		}
		defer file.Close()

		rows, err := ingest.Rows(fileHeader.Filename, file)
		if err != nil {
			h.logger.Warn("spreadsheet parse failed",
				zap.String("filename", fileHeader.Filename), zap.Error(err))
			c.JSON(http.StatusBadRequest, badRequestResult("Arquivo inválido ou corrompido"))
			return nil, false
		}
		return rows, true
	}

	var rows []models.RawRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, badRequestResult("Corpo da requisição deve ser um array JSON de linhas"))
		return nil, false
	}
	return rows, true
}

// badRequestResult keeps the import response shape stable even for requests
// rejected before any row was processed.
func badRequestResult(message string) models.ImportResult {
	return models.ImportResult{
		SuccessCount: 0,
		ErrorCount:   1,
		Errors:       []models.RowError{{Line: 0, Error: message}},
	}
}
