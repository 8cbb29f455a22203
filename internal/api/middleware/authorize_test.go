package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"onboard-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHasCapability(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		action string
		want   bool
	}{
		{"admin holds everything", models.RoleAdmin, ActionManageCodes, true},
		{"admin holds unknown actions", models.RoleAdmin, "made:up", true},
		{"hr manages users", models.RoleHR, ActionManageUsers, true},
		{"it does not manage users", models.RoleIT, ActionManageUsers, false},
		{"it manages assets", models.RoleIT, ActionManageAssets, true},
		{"hr does not manage assets", models.RoleHR, ActionManageAssets, false},
		{"manager approves access", models.RoleManager, ActionApproveAccess, true},
		{"employee does not approve access", models.RoleEmployee, ActionApproveAccess, false},
		{"only admin manages codes", models.RoleHR, ActionManageCodes, false},
		{"employee uploads documents", models.RoleEmployee, ActionUploadDocuments, true},
		{"unknown action denied", models.RoleHR, "made:up", false},
		{"empty role denied", "", ActionManageUsers, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasCapability(tt.role, tt.action))
		})
	}
}

func TestAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/managed", func(c *gin.Context) {
		c.Set("role", c.GetHeader("X-Test-Role"))
		c.Next()
	}, Authorize(ActionManageUsers), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	t.Run("allowed role passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/managed", nil)
		req.Header.Set("X-Test-Role", models.RoleHR)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("denied role gets 403", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/managed", nil)
		req.Header.Set("X-Test-Role", models.RoleEmployee)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing role gets 403", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/managed", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
