package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
	"github.com/z12guilherme/gestao-atipicos/internal/service"
	appErrors "github.com/z12guilherme/gestao-atipicos/pkg/errors"
	"github.com/z12guilherme/gestao-atipicos/pkg/response"
)

// StudentHandler handles student CRUD endpoints.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// List returns students with pagination and optional status/search filters.
func (h *StudentHandler) List(c *gin.Context) {
	var filter models.StudentFilter

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = size
	}
	if status := c.Query("status"); status != "" {
		s := models.StudentStatus(status)
		filter.Status = &s
	}
	filter.Search = c.Query("search")

	students, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Get returns one student by id.
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create persists a new student record.
func (h *StudentHandler) Create(c *gin.Context) {
	var student models.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.Create(c.Request.Context(), &student); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update mutates an existing student record.
func (h *StudentHandler) Update(c *gin.Context) {
	var student models.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student.ID = c.Param("id")

	if err := h.service.Update(c.Request.Context(), &student); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Delete removes a student record.
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
