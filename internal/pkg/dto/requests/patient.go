package requests

import "medrec-service/internal/app/models"

type CreatePatient struct {
	Name               string               `json:"name" validate:"required,max=200"`
	Age                int                  `json:"age" validate:"gte=0,lte=150"`
	Gender             models.Gender        `json:"gender" validate:"required,oneof=Male Female Other"`
	Email              *string              `json:"email" validate:"omitempty,email"`
	Address            *string              `json:"address" validate:"omitempty,max=500"`
	Disease            string               `json:"disease" validate:"required,max=200"`
	DiseaseDescription *string              `json:"diseaseDescription" validate:"omitempty,max=2000"`
	VisitDate          string               `json:"visitDate" validate:"required,date_only"`
	VisitCount         int                  `json:"visitCount" validate:"gte=1"`
	DoctorNotes        *string              `json:"doctorNotes" validate:"omitempty,max=5000"`
	Status             models.PatientStatus `json:"status" validate:"required,oneof=Active Discharged Follow-Up"`
	DoctorID           *string              `json:"doctorId"`
	FollowUpDate       *string              `json:"followUpDate" validate:"omitempty,date_only"`
}

// UpdatePatient is a partial update. FollowUpDate is always serialized so
// a status change away from Follow-Up carries an explicit null.
type UpdatePatient struct {
	Name               *string               `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Age                *int                  `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender             *models.Gender        `json:"gender,omitempty" validate:"omitempty,oneof=Male Female Other"`
	Email              *string               `json:"email,omitempty" validate:"omitempty,email"`
	Address            *string               `json:"address,omitempty" validate:"omitempty,max=500"`
	Disease            *string               `json:"disease,omitempty" validate:"omitempty,min=1,max=200"`
	DiseaseDescription *string               `json:"diseaseDescription,omitempty" validate:"omitempty,max=2000"`
	VisitDate          *string               `json:"visitDate,omitempty" validate:"omitempty,date_only"`
	VisitCount         *int                  `json:"visitCount,omitempty" validate:"omitempty,gte=1"`
	DoctorNotes        *string               `json:"doctorNotes,omitempty" validate:"omitempty,max=5000"`
	Status             *models.PatientStatus `json:"status,omitempty" validate:"omitempty,oneof=Active Discharged Follow-Up"`
	FollowUpDate       *string               `json:"followUpDate" validate:"omitempty,date_only"`
}

type PatientQuery struct {
	DoctorID     string `validate:"omitempty,max=64"`
	Status       string `validate:"omitempty,oneof=Active Discharged Follow-Up"`
	FollowUpDate string `validate:"omitempty,date_only"`
}
