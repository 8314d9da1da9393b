package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

type sampleBody struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ada","email":"ada@example.com"}`))
	var body sampleBody
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.Equal(t, "Ada", body.Name)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ada","email":"ada@example.com","role":"ADMIN"}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"A","email":"nope"}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be at least 2", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
}

func TestParsePaginationDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	assert.Equal(t, pagination.DefaultPage, params.Page)
	assert.Equal(t, pagination.DefaultLimit, params.Limit)
	assert.Empty(t, params.SortBy)
}

func TestParsePaginationValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=500&sortBy=price&sortOrder=asc", nil)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 500, params.Limit)
	assert.Equal(t, "price", params.SortBy)
	assert.Equal(t, "asc", params.SortOrder)
}

func TestParsePaginationRejectsBadPage(t *testing.T) {
	for _, raw := range []string{"/?page=zero", "/?page=0", "/?limit=-1"} {
		req := httptest.NewRequest(http.MethodGet, raw, nil)
		_, err := ParsePagination(req)
		require.Error(t, err, raw)
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	}
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	got, err := ParseUUIDParam(req, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUIDParam(req, "missing")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestParseQueryUUIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/?categories="+a.String()+",,"+b.String(), nil)
	ids, err := ParseQueryUUIDs(req, "categories")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	req = httptest.NewRequest(http.MethodGet, "/?categories=abc", nil)
	_, err = ParseQueryUUIDs(req, "categories")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestParseQueryDecimal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?minPrice=4.50", nil)
	value, err := ParseQueryDecimal(req, "minPrice")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "4.5", value.String())

	value, err = ParseQueryDecimal(req, "maxPrice")
	require.NoError(t, err)
	assert.Nil(t, value)

	req = httptest.NewRequest(http.MethodGet, "/?minPrice=-1", nil)
	_, err = ParseQueryDecimal(req, "minPrice")
	assert.Error(t, err)
}

func TestParseQueryEnum(t *testing.T) {
	allowed := func(v string) bool { return v == "SELLER" }
	req := httptest.NewRequest(http.MethodGet, "/?role=seller", nil)
	value, err := ParseQueryEnum(req, "role", allowed)
	require.NoError(t, err)
	assert.Equal(t, "SELLER", value)

	req = httptest.NewRequest(http.MethodGet, "/?role=root", nil)
	_, err = ParseQueryEnum(req, "role", allowed)
	assert.Error(t, err)
}
