package models

import "time"

// PatientChanges is a single update: fields to set and fields to remove.
type PatientChanges struct {
	Set   map[string]interface{}
	Unset []string
}

func (c PatientChanges) IsEmpty() bool {
	return len(c.Set) == 0 && len(c.Unset) == 0
}

// FollowUpReminder is published once per doctor for the patients due today.
type FollowUpReminder struct {
	ID           string    `json:"id"`
	DoctorID     string    `json:"doctor_id"`
	Date         string    `json:"date"`
	PatientIDs   []string  `json:"patient_ids"`
	PatientNames []string  `json:"patient_names"`
	CreatedAt    time.Time `json:"created_at"`
}
