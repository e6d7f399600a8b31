package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/classification-gateway/services"
	"go.uber.org/zap"
)

// stubConversion records the last call and returns a canned error.
type stubConversion struct {
	traceID string
	scoreID string
	err     error
}

func (s *stubConversion) Convert(_ context.Context, traceID, scoreID string) error {
	s.traceID = traceID
	s.scoreID = scoreID
	return s.err
}

func doConvert(t *testing.T, svc ConversionService, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewConvertHandler(svc, zap.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.HandleConvert(rec, req)
	return rec
}

func TestHandleConvertSuccess(t *testing.T) {
	svc := &stubConversion{}
	rec := doConvert(t, svc, `{"trace_id": "t1", "score_id": "s1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true\n", rec.Body.String())
	assert.Equal(t, "t1", svc.traceID)
	assert.Equal(t, "s1", svc.scoreID)
}

func TestHandleConvertMissingFields(t *testing.T) {
	rec := doConvert(t, &stubConversion{}, `{"trace_id": "t1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleConvertScoreNotFound(t *testing.T) {
	svc := &stubConversion{err: services.ErrScoreNotFound}
	rec := doConvert(t, svc, `{"trace_id": "t1", "score_id": "unknown"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleConvertMalformedBody(t *testing.T) {
	rec := doConvert(t, &stubConversion{}, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
