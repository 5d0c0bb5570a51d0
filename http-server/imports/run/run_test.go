package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shift-metrics/internal/blob"
	"shift-metrics/internal/service/ingest"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, name string) (ingest.Result, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(ingest.Result), args.Error(1)
}

type resultJSON struct {
	State    string `json:"state"`
	FailedIn string `json:"failed_in"`
	Format   string `json:"format"`
}

func do(t *testing.T, runner Runner, target string) (*httptest.ResponseRecorder, resultJSON) {
	t.Helper()
	rr := httptest.NewRecorder()
	RunImport(slog.Default(), runner, "in/").ServeHTTP(rr, httptest.NewRequest(http.MethodPost, target, nil))

	var res resultJSON
	if rr.Header().Get("Content-Type") != "" && rr.Code != http.StatusNotFound && rr.Code != http.StatusBadRequest {
		require.NoError(t, render.DecodeJSON(rr.Body, &res))
	}
	return rr, res
}

func TestRunImport_Done(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "in/a.csv").Return(ingest.Result{State: ingest.StateDone, Format: ingest.FormatHourly}, nil)

	rr, res := do(t, runner, "/api/imports/run?name=in/a.csv")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "done", res.State)
	assert.Equal(t, "hourly", res.Format)
}

func TestRunImport_Aborted(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "in/a.csv").Return(ingest.Result{State: ingest.StateAborted, FailedIn: "context_resolving"}, nil)

	rr, res := do(t, runner, "/api/imports/run?name=in/a.csv")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "aborted", res.State)
	assert.Equal(t, "context_resolving", res.FailedIn)
}

func TestRunImport_Failed(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "in/a.csv").Return(ingest.Result{State: ingest.StateFailed, FailedIn: "parsing"}, errors.New("bad csv"))

	rr, res := do(t, runner, "/api/imports/run?name=in/a.csv")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "failed", res.State)
}

func TestRunImport_NotFound(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "in/x.csv").Return(ingest.Result{State: ingest.StateFailed}, fmt.Errorf("fetch: %w", blob.ErrNotExist))

	rr, _ := do(t, runner, "/api/imports/run?name=in/x.csv")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRunImport_MissingName(t *testing.T) {
	runner := new(MockRunner)

	rr, _ := do(t, runner, "/api/imports/run")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestRunImport_OutsidePrefix(t *testing.T) {
	for _, name := range []string{"archive/a.csv.xz", "in/../archive/a.csv.xz", "in"} {
		t.Run(name, func(t *testing.T) {
			runner := new(MockRunner)

			rr, _ := do(t, runner, "/api/imports/run?name="+name)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	}
}

func TestRunImport_OutlivesServerWriteTimeout(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "in/a.csv").
		Return(ingest.Result{State: ingest.StateDone}, nil).
		After(300 * time.Millisecond)

	srv := httptest.NewUnstartedServer(RunImport(slog.Default(), runner, "in/"))
	srv.Config.WriteTimeout = 100 * time.Millisecond
	srv.Start()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/imports/run?name=in/a.csv", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var res resultJSON
	require.NoError(t, render.DecodeJSON(resp.Body, &res))
	assert.Equal(t, "done", res.State)
}
