package utils

import (
	"medrec-service/internal/pkg/dto/requests"
	"strings"
)

// NilIfBlank trims value and drops it when nothing is left.
func NilIfBlank(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func SanitizeSignUpRequest(input *requests.SignUp) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	input.Role = strings.TrimSpace(strings.ToLower(input.Role))
}

func SanitizeSignInRequest(input *requests.SignIn) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
}

func SanitizeCreatePatientRequest(input *requests.CreatePatient) {
	input.Name = strings.TrimSpace(input.Name)
	input.Disease = strings.TrimSpace(input.Disease)
	input.VisitDate = strings.TrimSpace(input.VisitDate)
	input.Email = NilIfBlank(input.Email)
	input.Address = NilIfBlank(input.Address)
	input.DiseaseDescription = NilIfBlank(input.DiseaseDescription)
	input.DoctorNotes = NilIfBlank(input.DoctorNotes)
	input.DoctorID = NilIfBlank(input.DoctorID)
	input.FollowUpDate = NilIfBlank(input.FollowUpDate)
}

func SanitizeUpdatePatientRequest(input *requests.UpdatePatient) {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
	}
	if input.Disease != nil {
		trimmed := strings.TrimSpace(*input.Disease)
		input.Disease = &trimmed
	}
	input.VisitDate = NilIfBlank(input.VisitDate)
	input.FollowUpDate = NilIfBlank(input.FollowUpDate)
}
