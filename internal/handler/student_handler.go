package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studreg-api/internal/models"
	appErrors "github.com/noah-isme/studreg-api/pkg/errors"
	"github.com/noah-isme/studreg-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context) ([]models.Student, error)
	Create(ctx context.Context, input models.StudentInput) (*models.Student, error)
	Update(ctx context.Context, id int64, input models.StudentInput) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// StudentHandler exposes the student CRUD endpoints.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List all students
// @Tags Students
// @Produce json
// @Success 200 {array} models.Student
// @Router /student [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Create godoc
// @Summary Register a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.StudentInput true "Student payload"
// @Success 201 {object} models.Student
// @Router /student [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body models.StudentInput true "Student payload"
// @Success 200 {object} models.Student
// @Router /student/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete a student
// @Tags Students
// @Param id path int true "Student ID"
// @Success 204
// @Router /student/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// parseID validates the :id path parameter before any query executes.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrInvalidArgument, "invalid student id")
	}
	return id, nil
}
