package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponses(t *testing.T) {
	testCases := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		body   string
	}{
		{"Bad request", func(w http.ResponseWriter) { BadRequest(w, "Invalid round", nil) }, http.StatusBadRequest, `{"error":"Invalid round"}`},
		{"Not found", func(w http.ResponseWriter) { NotFound(w, "Match not found", errors.New("m1")) }, http.StatusNotFound, `{"error":"Match not found"}`},
		{"Conflict", func(w http.ResponseWriter) { Conflict(w, "match is finalized", errors.New("x")) }, http.StatusConflict, `{"error":"match is finalized"}`},
		{"Internal", func(w http.ResponseWriter) { InternalServerError(w, "db down", errors.New("boom")) }, http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.write(rec)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Round int `json:"rodada"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rodada":3}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, 3, v.Round)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rodada":"x"}`))
	assert.ErrorIs(t, DecodeJSON(r, &v), ErrInvalidBody)
}
