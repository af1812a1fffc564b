package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	appErrors "github.com/noah-isme/tutoring-ledger/pkg/errors"
)

func TestStudentHandlerListDefaultsToActive(t *testing.T) {
	svc := &fakeStudents{students: []models.Student{{ID: 1, Name: "Alice", Email: "alice@example.com", IsActive: true}}}
	h := NewStudentHandler(svc)

	c, w := newGinContext(http.MethodGet, "/students", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.lastFilter.ActiveOnly)
	_, meta := decodeEnvelope(t, w)
	assert.EqualValues(t, 1, meta["count"])

	c, _ = newGinContext(http.MethodGet, "/students?all=true", nil)
	h.List(c)
	assert.False(t, svc.lastFilter.ActiveOnly)
}

func TestStudentHandlerGet(t *testing.T) {
	svc := &fakeStudents{students: []models.Student{{ID: 1, Name: "Alice", Email: "alice@example.com"}}}
	h := NewStudentHandler(svc)

	c, w := newGinContext(http.MethodGet, "/students/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/students/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	apiErr, _ := decodeEnvelope(t, w)
	assert.Equal(t, appErrors.ErrNotFound.Code, apiErr["code"])

	c, w = newGinContext(http.MethodGet, "/students/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStudentHandlerByEmail(t *testing.T) {
	svc := &fakeStudents{students: []models.Student{{ID: 1, Name: "Alice", Email: "alice@example.com"}}}
	h := NewStudentHandler(svc)

	c, w := newGinContext(http.MethodGet, "/students/by-email?email=alice@example.com", nil)
	h.ByEmail(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alice"`)
}

func TestStudentHandlerCreate(t *testing.T) {
	svc := &fakeStudents{}
	h := NewStudentHandler(svc)

	c, w := newGinContext(http.MethodPost, "/students", []byte(`{"name":`))
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload, _ := json.Marshal(map[string]interface{}{"name": "Alice", "email": "alice@example.com", "hourly_rate": 45})
	c, w = newGinContext(http.MethodPost, "/students", payload)
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "45", string(svc.created.HourlyRate))

	svc.createErr = appErrors.Clone(appErrors.ErrConflict, "email already registered")
	c, w = newGinContext(http.MethodPost, "/students", payload)
	h.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStudentHandlerDeactivateAndReactivate(t *testing.T) {
	svc := &fakeStudents{}
	h := NewStudentHandler(svc)

	c, w := newGinContext(http.MethodPost, "/students/1/deactivate", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Deactivate(c)
	assert.Equal(t, http.StatusNoContent, w.Code)

	c, w = newGinContext(http.MethodPost, "/students/1/activate", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Reactivate(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []bool{false, true}, svc.activeCall)

	svc.activeErr = appErrors.Clone(appErrors.ErrNotFound, "student not found")
	c, w = newGinContext(http.MethodPost, "/students/2/deactivate", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	h.Deactivate(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentHandlerLegacyListIsBareArray(t *testing.T) {
	svc := &fakeStudents{students: []models.Student{{ID: 1, Name: "Alice", Email: "alice@example.com", IsActive: true}}}
	h := NewStudentHandler(svc)

	c, w := newGinContext(http.MethodGet, "/api/students", nil)
	h.LegacyList(c)
	require.Equal(t, http.StatusOK, w.Code)
	var students []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &students))
	require.Len(t, students, 1)
	assert.Equal(t, "Alice", students[0]["name"])
	assert.True(t, svc.lastFilter.ActiveOnly)
}
