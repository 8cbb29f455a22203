package handlers

import (
	"errors"
	"net/http"

	"onboard-backend/internal/repository"
	"onboard-backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// actorFrom rebuilds the caller identity stored by the auth middleware.
func actorFrom(c *gin.Context) (services.Actor, bool) {
	userID := c.GetString("user_id")
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return services.Actor{}, false
	}
	return services.Actor{ID: id, Role: c.GetString("role")}, true
}

// statusForError maps classified service and repository errors onto HTTP
// statuses. Anything unclassified is a genuine server failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrInvalidID), errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
