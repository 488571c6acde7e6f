package middleware

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/pkg/response"
	"Chillz/internal/pkg/security"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUID(c))
	})
	return r
}

func doAuthRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsSignedToken(t *testing.T) {
	r := newAuthTestRouter()

	token, err := security.GenerateToken("u1", time.Minute)
	require.NoError(t, err)

	w := doAuthRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	r := newAuthTestRouter()

	expired, err := security.GenerateToken("u1", -time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"缺失", ""},
		{"非Bearer", "Basic abc"},
		{"伪造", "Bearer not-a-token"},
		{"过期", "Bearer " + expired},
	}
	for _, tc := range cases {
		w := doAuthRequest(r, tc.header)
		require.Equal(t, http.StatusOK, w.Code, tc.name)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), tc.name)
		assert.Equal(t, response.Unauthorized, resp.Code, tc.name)
	}
}
