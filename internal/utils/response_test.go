package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-portal/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	utils.WriteJSON(rec, http.StatusCreated, utils.SuccessResponse("ok", map[string]int{"n": 1}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "ok", body.Message)
}

func TestErrorResponse(t *testing.T) {
	resp := utils.ErrorResponse("bad", "boom")
	assert.False(t, resp.Success)
	assert.Equal(t, "boom", resp.Error)
	assert.False(t, resp.Timestamp.IsZero())
}
