package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "world", body["data"].(map[string]any)["hello"])
	assert.NotContains(t, body, "meta")
}

func TestWriteMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteMessage(w, http.StatusCreated, "created", map[string]int{"n": 1})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "created", body["message"])
}

func TestWritePageSplitsDataAndMeta(t *testing.T) {
	page := pagination.NewPage([]string{"a", "b"}, 12, pagination.Params{Page: 2, Limit: 5})

	w := httptest.NewRecorder()
	WritePage(w, "listed", &page)

	body := decodeBody(t, w)
	assert.Len(t, body["data"], 2)
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["page"])
	assert.EqualValues(t, 5, meta["limit"])
	assert.EqualValues(t, 12, meta["total"])
	assert.EqualValues(t, 3, meta["totalPages"])
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "demo"})
	WriteError(context.Background(), nil, w, err)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, string(pkgerrors.CodeValidation), body["code"])
	assert.Equal(t, "bad input", body["message"])
	assert.NotNil(t, body["details"])
}

func TestWriteErrorUsesStatusPerCode(t *testing.T) {
	cases := map[pkgerrors.Code]int{
		pkgerrors.CodeInsufficientStock: http.StatusBadRequest,
		pkgerrors.CodeNotCancellable:    http.StatusBadRequest,
		pkgerrors.CodeUnauthorized:      http.StatusUnauthorized,
		pkgerrors.CodeForbidden:         http.StatusForbidden,
		pkgerrors.CodeNotFound:          http.StatusNotFound,
		pkgerrors.CodeConflict:          http.StatusConflict,
	}
	for code, status := range cases {
		w := httptest.NewRecorder()
		WriteError(context.Background(), nil, w, pkgerrors.New(code, "nope"))
		assert.Equal(t, status, w.Code, code)
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, string(pkgerrors.CodeInternal), body["code"])
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, body, "details")
}
