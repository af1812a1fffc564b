package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	appErrors "github.com/noah-isme/tutoring-ledger/pkg/errors"
)

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func queryID(c *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+key)
	}
	return &id, nil
}

func queryDate(c *gin.Context, key string) (*models.Date, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, key+" must be YYYY-MM-DD")
	}
	return &d, nil
}

// queryMonths returns 0 when absent so the report service applies its default window.
func queryMonths(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("months"))
	if raw == "" {
		return 0, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil || months <= 0 {
		return 0, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "months must be a positive integer")
	}
	return months, nil
}

type rangeFilter struct {
	StudentID *int64
	StartDate *models.Date
	EndDate   *models.Date
}

func rangeFromQuery(c *gin.Context) (rangeFilter, error) {
	var f rangeFilter
	var err error
	if f.StudentID, err = queryID(c, "student_id"); err != nil {
		return f, err
	}
	if f.StartDate, err = queryDate(c, "start"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(c, "end"); err != nil {
		return f, err
	}
	return f, nil
}

func (f rangeFilter) sessions() models.SessionFilter {
	return models.SessionFilter{StudentID: f.StudentID, StartDate: f.StartDate, EndDate: f.EndDate}
}

func (f rangeFilter) payments() models.PaymentFilter {
	return models.PaymentFilter{StudentID: f.StudentID, StartDate: f.StartDate, EndDate: f.EndDate}
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}
