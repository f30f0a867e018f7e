package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nestly/cmd/api/auth"
	"nestly/cmd/api/middleware"
)

// newProtectedEngine 은 RequireUser 뒤에서 auth.UserID 를 그대로 돌려주는 라우트 하나를 가진다.
func newProtectedEngine(manager *auth.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.RequireUser(manager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": auth.UserID(c)})
	})
	return r
}

func TestRequireUserFlow(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", "nestly", time.Hour)
	other := auth.NewJWTManager("other-secret", "nestly", time.Hour)

	token, err := manager.Sign("user-42")
	require.NoError(t, err)
	foreign, err := other.Sign("user-42")
	require.NoError(t, err)

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantError  error
		wantUserID string
	}{
		{
			name:       "no authorization header",
			wantStatus: http.StatusUnauthorized,
			wantError:  auth.ErrMissingHeader,
		},
		{
			name:       "basic scheme",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantError:  auth.ErrInvalidFormat,
		},
		{
			name:       "scheme without token",
			header:     "Bearer",
			wantStatus: http.StatusUnauthorized,
			wantError:  auth.ErrInvalidFormat,
		},
		{
			name:       "blank token",
			header:     "Bearer    ",
			wantStatus: http.StatusUnauthorized,
			wantError:  auth.ErrEmptyToken,
		},
		{
			name:       "token signed with another secret",
			header:     "Bearer " + foreign,
			wantStatus: http.StatusUnauthorized,
			wantError:  auth.ErrInvalidToken,
		},
		{
			name:       "lowercase scheme with valid token",
			header:     "bearer " + token,
			wantStatus: http.StatusOK,
			wantUserID: "user-42",
		},
	}

	r := newProtectedEngine(manager)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tc.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tc.wantError != nil {
				assert.Equal(t, tc.wantError.Error(), body["error"])
				assert.Empty(t, body["user_id"])
				return
			}
			assert.Equal(t, tc.wantUserID, body["user_id"])
		})
	}
}

func TestUserIDWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, auth.UserID(c))
	auth.SetUserID(c, "u1")
	assert.Equal(t, "u1", auth.UserID(c))
}
