package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/harmonycheck/analyzer"
	"github.com/jsphweid/harmonycheck/constants"
	"github.com/jsphweid/harmonycheck/db"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/sample"
	"github.com/jsphweid/harmonycheck/score"
	"github.com/jsphweid/harmonycheck/scoretest"
	"github.com/jsphweid/harmonycheck/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	LoadServeState(analyzer.New(), db.NewMemoryStore(time.Hour, 100))
	return NewRouter()
}

func midiBody(t *testing.T, s *model.Score) []byte {
	t.Helper()
	data, err := sample.Bytes(s)
	require.NoError(t, err)
	return data
}

func flawedChorale() *model.Score {
	return scoretest.New("C major",
		"G4 E4 C4 C3",
		"A4 F4 A3 D3",
		"E4 G4 C4 C3",
		"B4 G4 D4 G3",
	)
}

func do(router http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeAndFetch(t *testing.T) {
	assert := assert.New(t)
	router := setupServer(t)

	w := do(router, http.MethodPost, "/analyze?filename=chorale.mid", midiBody(t, flawedChorale()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal("application/json", w.Header().Get("Content-Type"))

	var res model.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(db.ValidID(res.ID))
	assert.Equal("chorale.mid", res.Report.Filename)
	assert.Equal(model.KeySourceDetected, res.Report.Metadata.KeySource)
	assert.Greater(res.Report.TotalErrors, 0)
	assert.Equal(model.ParallelFifths, res.Report.Errors[0].Type)

	w = do(router, http.MethodGet, "/reports/"+res.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stored model.StoredReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(res.ID, stored.ID)
	assert.Equal("chorale.mid", stored.Filename)
	assert.Equal(res.Report.TotalErrors, stored.Report.TotalErrors)

	w = do(router, http.MethodGet, "/reports/"+res.ID+"/text", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal("text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(w.Body.String(), "Harmony Analysis Report: chorale.mid")
	assert.Contains(w.Body.String(), "Suggestion:")
}

func TestAnalyzeErrors(t *testing.T) {
	oneVoice := scoretest.New("C major", "C4", "D4", "E4", "C4")
	tests := []struct {
		name   string
		target string
		body   []byte
		status int
	}{
		{"missing filename", "/analyze", []byte("data"), http.StatusBadRequest},
		{"unsupported type", "/analyze?filename=notes.txt", []byte("C E G"), http.StatusBadRequest},
		{"unreadable midi", "/analyze?filename=bad.mid", []byte("this is not midi"), http.StatusBadRequest},
		{"empty body", "/analyze?filename=empty.mid", nil, http.StatusBadRequest},
		{"one voice", "/analyze?filename=solo.mid", nil, http.StatusUnprocessableEntity},
		{"too large", "/analyze?filename=big.mid", bytes.Repeat([]byte{0}, constants.MaxUploadSize+1), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupServer(t)
			body := tt.body
			if tt.name == "one voice" {
				body = midiBody(t, oneVoice)
			}
			w := do(router, http.MethodPost, tt.target, body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var res model.ErrorResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.NotEmpty(t, res.Error)
		})
	}
}

func TestGetReportNotFound(t *testing.T) {
	router := setupServer(t)
	for _, id := range []string{"not-a-uuid", uuid.NewString()} {
		for _, suffix := range []string{"", "/text"} {
			w := do(router, http.MethodGet, "/reports/"+id+suffix, nil)
			assert.Equal(t, http.StatusNotFound, w.Code, id+suffix)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := setupServer(t)
	w := do(router, http.MethodGet, "/analyze?filename=a.mid", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{&score.InputError{Path: "a.mid", Message: "file is empty"}, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", &validation.InvalidScoreError{Reasons: []string{"x"}}), http.StatusUnprocessableEntity},
		{db.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), tt.err.Error())
	}
}
