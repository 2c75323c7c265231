package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/z12guilherme/gestao-atipicos/internal/service"
	appErrors "github.com/z12guilherme/gestao-atipicos/pkg/errors"
	"github.com/z12guilherme/gestao-atipicos/pkg/response"
)

// AssignmentHandler handles guardian-student link endpoints.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// replaceLinksRequest is the declarative link set for one guardian.
type replaceLinksRequest struct {
	StudentIDs   []string `json:"student_ids"`
	Relationship string   `json:"relationship"`
}

// ListStudents returns the students linked to the guardian in the route.
func (h *AssignmentHandler) ListStudents(c *gin.Context) {
	students, err := h.service.ListStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// ReplaceStudents swaps the guardian's link set for the one in the body.
func (h *AssignmentHandler) ReplaceStudents(c *gin.Context) {
	var req replaceLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	guardianID := c.Param("id")
	if err := h.service.Replace(c.Request.Context(), guardianID, req.StudentIDs, req.Relationship); err != nil {
		response.Error(c, err)
		return
	}

	students, err := h.service.ListStudents(c.Request.Context(), guardianID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}
