package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/z12guilherme/gestao-atipicos/pkg/errors"
	"github.com/z12guilherme/gestao-atipicos/pkg/export"
	"github.com/z12guilherme/gestao-atipicos/pkg/response"
)

// TemplateHandler serves downloadable CSV import models.
type TemplateHandler struct{}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler() *TemplateHandler {
	return &TemplateHandler{}
}

// StudentTemplate serves the student import model.
func (h *TemplateHandler) StudentTemplate(c *gin.Context) {
	h.serve(c, export.StudentTemplate)
}

// UserTemplate serves the user import model.
func (h *TemplateHandler) UserTemplate(c *gin.Context) {
	h.serve(c, export.UserTemplate)
}

func (h *TemplateHandler) serve(c *gin.Context, t export.Template) {
	body, err := export.RenderCSV(t)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render template"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
