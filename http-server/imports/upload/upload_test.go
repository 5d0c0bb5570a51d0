package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBlobPutter struct {
	mock.Mock
}

func (m *MockBlobPutter) Put(ctx context.Context, name string, r io.Reader) error {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, name, string(body))
	return args.Error(0)
}

func multipartRequest(t *testing.T, field, fileName, body string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/imports", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImport_Success(t *testing.T) {
	blobs := new(MockBlobPutter)
	blobs.On("Put", mock.Anything, "shift_manager_imports/2024-05-01.csv", "Loc\n1234\n").Return(nil)

	handler := UploadImport(slog.Default(), blobs, "shift_manager_imports/")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, multipartRequest(t, "file", "../../2024-05-01.csv", "Loc\n1234\n"))

	assert.Equal(t, http.StatusAccepted, rr.Code)

	var resp Response
	require.NoError(t, render.DecodeJSON(rr.Body, &resp))
	assert.Equal(t, "shift_manager_imports/2024-05-01.csv", resp.Blob)
	assert.Equal(t, "text/csv", resp.ContentType)

	blobs.AssertExpectations(t)
}

func TestUploadImport_WrongField(t *testing.T) {
	blobs := new(MockBlobPutter)
	handler := UploadImport(slog.Default(), blobs, "in/")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, multipartRequest(t, "upload", "a.csv", "x"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadImport_WrongExtension(t *testing.T) {
	blobs := new(MockBlobPutter)
	handler := UploadImport(slog.Default(), blobs, "in/")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, multipartRequest(t, "file", "notes.txt", "x"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadImport_NotMultipart(t *testing.T) {
	handler := UploadImport(slog.Default(), new(MockBlobPutter), "in/")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/imports", bytes.NewBufferString("{}")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadImport_StoreError(t *testing.T) {
	blobs := new(MockBlobPutter)
	blobs.On("Put", mock.Anything, "in/a.csv", "x").Return(errors.New("disk full"))

	handler := UploadImport(slog.Default(), blobs, "in/")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, multipartRequest(t, "file", "a.csv", "x"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
