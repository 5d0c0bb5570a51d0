package params

import (
	"errors"
	"github.com/go-chi/chi/v5"
	"net/http"
	"strconv"
	"time"
)

var (
	ErrBadManagerID = errors.New("invalid manager id")
	ErrBadDate      = errors.New("invalid date, want YYYY-MM-DD")
)

// ManagerID reads the {managerID} path parameter.
func ManagerID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "managerID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadManagerID
	}
	return id, nil
}

// Date reads the {date} path parameter.
func Date(r *http.Request) (string, error) {
	return ParseDate(chi.URLParam(r, "date"))
}

// ParseDate accepts YYYY-MM-DD only.
func ParseDate(s string) (string, error) {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", ErrBadDate
	}
	return s, nil
}
