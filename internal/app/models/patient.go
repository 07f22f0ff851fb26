package models

import (
	"medrec-service/internal/pkg/constvars"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
)

type PatientStatus string

const (
	PatientStatusActive     PatientStatus = constvars.PatientStatusActive
	PatientStatusDischarged PatientStatus = constvars.PatientStatusDischarged
	PatientStatusFollowUp   PatientStatus = constvars.PatientStatusFollowUp
)

var PatientStatuses = []PatientStatus{PatientStatusActive, PatientStatusDischarged, PatientStatusFollowUp}

func (s PatientStatus) Valid() bool {
	switch s {
	case PatientStatusActive, PatientStatusDischarged, PatientStatusFollowUp:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = constvars.GenderMale
	GenderFemale Gender = constvars.GenderFemale
	GenderOther  Gender = constvars.GenderOther
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Patient is one row of the patients collection. VisitDate and FollowUpDate
// are calendar dates in YYYY-MM-DD form. FollowUpDate is set exactly when
// Status is Follow-Up.
type Patient struct {
	ID                 string        `bson:"_id" json:"id"`
	Name               string        `bson:"name" json:"name"`
	Age                int           `bson:"age" json:"age"`
	Gender             Gender        `bson:"gender" json:"gender"`
	Email              *string       `bson:"email,omitempty" json:"email"`
	Address            *string       `bson:"address,omitempty" json:"address"`
	Disease            string        `bson:"disease" json:"disease"`
	DiseaseDescription *string       `bson:"diseaseDescription,omitempty" json:"diseaseDescription"`
	VisitDate          string        `bson:"visitDate" json:"visitDate"`
	VisitCount         int           `bson:"visitCount" json:"visitCount"`
	DoctorNotes        *string       `bson:"doctorNotes,omitempty" json:"doctorNotes"`
	Status             PatientStatus `bson:"status" json:"status"`
	DoctorID           *string       `bson:"doctorId,omitempty" json:"doctorId"`
	CreatedAt          time.Time     `bson:"createdAt" json:"createdAt"`
	FollowUpDate       *string       `bson:"followUpDate,omitempty" json:"followUpDate"`
}

// UnmarshalJSON reads createdAt leniently. A missing or unparsable value
// leaves CreatedAt zero instead of failing the row.
func (p *Patient) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	type patientAlias Patient
	aux := struct {
		*patientAlias
		CreatedAt json.RawMessage `json:"createdAt"`
	}{patientAlias: (*patientAlias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.CreatedAt = time.Time{}
	var createdAt string
	if len(aux.CreatedAt) == 0 || json.Unmarshal(aux.CreatedAt, &createdAt) != nil {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		p.CreatedAt = parsed
	}
	return nil
}

func (p *Patient) HasConsistentFollowUp() bool {
	if p.Status == PatientStatusFollowUp {
		return p.FollowUpDate != nil && *p.FollowUpDate != ""
	}
	return p.FollowUpDate == nil
}

// PatientFilter is the server side selection for the patients collection.
type PatientFilter struct {
	DoctorID     *string
	Status       *PatientStatus
	FollowUpDate *string
}

func (f PatientFilter) ConvertToBsonM() bson.M {
	filter := bson.M{}
	if f.DoctorID != nil {
		filter["doctorId"] = *f.DoctorID
	}
	if f.Status != nil {
		filter["status"] = string(*f.Status)
	}
	if f.FollowUpDate != nil {
		filter["followUpDate"] = *f.FollowUpDate
	}
	return filter
}
