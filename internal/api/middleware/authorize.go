package middleware

import (
	"net/http"

	"onboard-backend/internal/models"
	"onboard-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Actions checked by Authorize. Routes declare the action they need; the
// capability table below says which roles hold it.
const (
	ActionManageUsers       = "users:manage"
	ActionManageTasks       = "tasks:manage"
	ActionManageTrainings   = "trainings:manage"
	ActionAssignTrainings   = "trainings:assign"
	ActionSendNotifications = "notifications:send"
	ActionManageAssets      = "assets:manage"
	ActionFulfilAccess      = "access:fulfil"
	ActionApproveAccess     = "access:approve"
	ActionManageCodes       = "codes:manage"
	ActionReadFeedback      = "feedback:read"
	ActionUploadDocuments   = "documents:upload"
)

// capabilities maps each action to the roles that hold it. Admin is not
// listed; it passes every check.
var capabilities = map[string][]string{
	ActionManageUsers:       {models.RoleHR},
	ActionManageTasks:       {models.RoleHR, models.RoleIT},
	ActionManageTrainings:   {models.RoleHR},
	ActionAssignTrainings:   {models.RoleHR, models.RoleManager},
	ActionSendNotifications: {models.RoleHR, models.RoleIT},
	ActionManageAssets:      {models.RoleIT},
	ActionFulfilAccess:      {models.RoleIT},
	ActionApproveAccess:     {models.RoleHR, models.RoleIT, models.RoleManager},
	ActionManageCodes:       {},
	ActionReadFeedback:      {models.RoleHR},
	ActionUploadDocuments:   {models.RoleEmployee, models.RoleHR, models.RoleIT, models.RoleManager},
}

// HasCapability reports whether a role holds an action. Unknown actions are
// denied for everyone but admin.
func HasCapability(role, action string) bool {
	if role == models.RoleAdmin {
		return true
	}
	for _, allowed := range capabilities[action] {
		if allowed == role {
			return true
		}
	}
	return false
}

// Authorize gates a route on one capability. Runs after AuthMiddleware.
func Authorize(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if !HasCapability(role, action) {
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
