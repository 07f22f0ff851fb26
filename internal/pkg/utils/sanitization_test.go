package utils

import (
	"testing"

	"medrec-service/internal/pkg/dto/requests"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestSanitizeCreatePatientRequest(t *testing.T) {
	request := &requests.CreatePatient{
		Name:         "  John Smith ",
		Email:        strPtr("   "),
		Address:      strPtr(" Jl. Merdeka 1 "),
		DoctorNotes:  strPtr(""),
		FollowUpDate: strPtr(" "),
	}

	SanitizeCreatePatientRequest(request)

	assert.Equal(t, "John Smith", request.Name)
	assert.Nil(t, request.Email)
	assert.Equal(t, "Jl. Merdeka 1", *request.Address)
	assert.Nil(t, request.DoctorNotes)
	assert.Nil(t, request.FollowUpDate)
}

func TestSanitizeSignUpRequest(t *testing.T) {
	request := &requests.SignUp{Email: " Dr.Who@Example.COM ", FullName: " Who ", Role: " ADMIN"}
	SanitizeSignUpRequest(request)

	assert.Equal(t, "dr.who@example.com", request.Email)
	assert.Equal(t, "Who", request.FullName)
	assert.Equal(t, "admin", request.Role)
}
