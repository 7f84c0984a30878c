package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua_meet_server/pkg/errorx"
)

func performError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/test", func(c *gin.Context) {
		HandleError(c, err)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestHandleError_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"invalid param", errorx.New(errorx.CodeInvalidParam, "bad"), http.StatusBadRequest, errorx.CodeInvalidParam},
		{"unauthorized", errorx.New(errorx.CodeUnauthorized, "no token"), http.StatusUnauthorized, errorx.CodeUnauthorized},
		{"forbidden", errorx.New(errorx.CodeForbidden, "not host"), http.StatusForbidden, errorx.CodeForbidden},
		{"not found", errorx.New(errorx.CodeNotFound, "gone"), http.StatusNotFound, errorx.CodeNotFound},
		{"conflict", errorx.New(errorx.CodeConflict, "busy group"), http.StatusConflict, errorx.CodeConflict},
		{"server busy", errorx.ErrServerBusy, http.StatusInternalServerError, errorx.CodeServerBusy},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, errorx.CodeServerBusy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performError(t, tc.err)
			assert.Equal(t, tc.wantStatus, w.Code)

			var body ResponseData
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}

func TestHandleSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/ok", func(c *gin.Context) {
		HandleSuccess(c, gin.H{"meetingId": "m-1"})
	})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body ResponseData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errorx.CodeSuccess, body.Code)
	assert.Equal(t, "success", body.Msg)
}

func TestRemoveTopStruct(t *testing.T) {
	in := map[string]string{"CreateMeetingRequest.hostId": "hostId 为必填字段"}
	out := RemoveTopStruct(in)
	assert.Equal(t, map[string]string{"hostId": "hostId 为必填字段"}, out)
}
