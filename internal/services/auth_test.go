package services

import (
	"testing"

	"onboard-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestSelfRegisterableRole(t *testing.T) {
	assert.True(t, selfRegisterableRole(models.RoleEmployee))
	assert.True(t, selfRegisterableRole(models.RoleHR))
	assert.True(t, selfRegisterableRole(models.RoleIT))

	assert.False(t, selfRegisterableRole(models.RoleManager))
	assert.False(t, selfRegisterableRole(models.RoleAdmin))
	assert.False(t, selfRegisterableRole("superuser"))
}

func TestRegisterRequest_RoleValidation(t *testing.T) {
	v := validator.New()

	request := func(role string) *RegisterRequest {
		return &RegisterRequest{
			Email:     "new.hire@example.com",
			Password:  "password123",
			FirstName: "New",
			LastName:  "Hire",
			Role:      role,
		}
	}

	for _, role := range []string{"", models.RoleEmployee, models.RoleHR, models.RoleIT} {
		assert.NoError(t, v.Struct(request(role)), "role %q should validate", role)
	}

	for _, role := range []string{models.RoleManager, models.RoleAdmin} {
		assert.Error(t, v.Struct(request(role)), "role %q should be rejected", role)
	}
}
