package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studreg-api/internal/models"
	appErrors "github.com/noah-isme/studreg-api/pkg/errors"
)

type studentServiceMock struct {
	students []models.Student
	nextID   int64
	failWith error
}

func (m *studentServiceMock) List(ctx context.Context) ([]models.Student, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return append([]models.Student(nil), m.students...), nil
}

func (m *studentServiceMock) Create(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.nextID++
	student := models.Student{
		ID:           m.nextID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Course:       input.Course,
		RegisteredAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	m.students = append(m.students, student)
	return &student, nil
}

func (m *studentServiceMock) Update(ctx context.Context, id int64, input models.StudentInput) (*models.Student, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for i, s := range m.students {
		if s.ID == id {
			s.FirstName = input.FirstName
			s.LastName = input.LastName
			s.Email = input.Email
			s.Course = input.Course
			m.students[i] = s
			return &s, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

func (m *studentServiceMock) Delete(ctx context.Context, id int64) error {
	if m.failWith != nil {
		return m.failWith
	}
	for i, s := range m.students {
		if s.ID == id {
			m.students = append(m.students[:i], m.students[i+1:]...)
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

func newStudentRouter(svc *studentServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewStudentHandler(svc)
	r := gin.New()
	r.GET("/api/student", h.List)
	r.POST("/api/student", h.Create)
	r.PUT("/api/student/:id", h.Update)
	r.DELETE("/api/student/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStudentHandlerCreateReturnsStoredRow(t *testing.T) {
	r := newStudentRouter(&studentServiceMock{})

	w := doJSON(t, r, http.MethodPost, "/api/student", models.StudentInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Course: "Java",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Ann", body["first_name"])
	assert.Equal(t, "Lee", body["last_name"])
	assert.Contains(t, body, "registered_at")
}

func TestStudentHandlerListAscending(t *testing.T) {
	svc := &studentServiceMock{}
	r := newStudentRouter(svc)
	doJSON(t, r, http.MethodPost, "/api/student", models.StudentInput{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Course: "Java"})
	doJSON(t, r, http.MethodPost, "/api/student", models.StudentInput{FirstName: "Bo", LastName: "Tan", Email: "bo@x.com", Course: "Angular"})

	w := doJSON(t, r, http.MethodGet, "/api/student", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, int64(2), rows[1].ID)
}

func TestStudentHandlerUpdateCourse(t *testing.T) {
	svc := &studentServiceMock{}
	r := newStudentRouter(svc)
	doJSON(t, r, http.MethodPost, "/api/student", models.StudentInput{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Course: "Java"})

	w := doJSON(t, r, http.MethodPut, "/api/student/1", models.StudentInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Course: "Angular",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var row models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &row))
	assert.Equal(t, "Angular", row.Course)
	assert.Equal(t, int64(1), row.ID)
}

func TestStudentHandlerInvalidID(t *testing.T) {
	svc := &studentServiceMock{}
	r := newStudentRouter(svc)
	doJSON(t, r, http.MethodPost, "/api/student", models.StudentInput{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Course: "Java"})

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		var body interface{}
		if method == http.MethodPut {
			body = models.StudentInput{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Course: "Java"}
		}
		w := doJSON(t, r, method, "/api/student/abc", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, method)

		var errBody struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
		assert.Equal(t, "INVALID_ARGUMENT", errBody.Error.Code)
	}

	// Store untouched.
	assert.Len(t, svc.students, 1)
}

func TestStudentHandlerNotFound(t *testing.T) {
	r := newStudentRouter(&studentServiceMock{})

	w := doJSON(t, r, http.MethodPut, "/api/student/99", models.StudentInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Course: "Java",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/student/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentHandlerDeleteLifecycle(t *testing.T) {
	svc := &studentServiceMock{}
	r := newStudentRouter(svc)
	doJSON(t, r, http.MethodPost, "/api/student", models.StudentInput{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Course: "Java"})

	w := doJSON(t, r, http.MethodDelete, "/api/student/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())

	// Idempotence of the failure: a second delete is 404 again.
	w = doJSON(t, r, http.MethodDelete, "/api/student/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/student", nil)
	var rows []models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Empty(t, rows)
}

func TestStudentHandlerStoreError(t *testing.T) {
	svc := &studentServiceMock{failWith: appErrors.Wrap(errors.New("boom"), appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to register student")}
	r := newStudentRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/student", models.StudentInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Course: "Java",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStudentHandlerMalformedBody(t *testing.T) {
	r := newStudentRouter(&studentServiceMock{})

	req, err := http.NewRequest(http.MethodPost, "/api/student", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
