package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performJSON(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", handler)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestResponseSuccess(t *testing.T) {
	w := performJSON(func(c *gin.Context) {
		ResponseSuccess(c, gin.H{"value": 42})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, CodeSuccess, resp.Code)
}

func TestResponseError_StatusMapping(t *testing.T) {
	cases := []struct {
		code       int
		httpStatus int
	}{
		{CodeInvalidRequest, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUpstreamError, http.StatusBadGateway},
		{CodeInternalError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := performJSON(func(c *gin.Context) {
			ResponseError(c, tc.code, "出错了")
		})
		assert.Equal(t, tc.httpStatus, w.Code, "业务码 %d", tc.code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, tc.code, resp.Code)
	}
}
