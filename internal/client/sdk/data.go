package sdk

import (
	"context"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/dto/requests"
	"medrec-service/internal/pkg/dto/responses"
	"net/http"
	"net/url"
)

// PatientQuery holds equality filters; empty fields are not sent.
type PatientQuery struct {
	DoctorID     string
	Status       models.PatientStatus
	FollowUpDate string
}

func (q PatientQuery) encode() string {
	values := url.Values{}
	if q.DoctorID != "" {
		values.Set(constvars.QueryParamDoctorID, q.DoctorID)
	}
	if q.Status != "" {
		values.Set(constvars.QueryParamStatus, string(q.Status))
	}
	if q.FollowUpDate != "" {
		values.Set(constvars.QueryParamFollowUpDate, q.FollowUpDate)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// SelectPatients returns rows newest first.
func (c *Client) SelectPatients(ctx context.Context, query PatientQuery) ([]models.Patient, error) {
	patients := make([]models.Patient, 0)
	err := c.do(ctx, constvars.MethodGet, "/patients"+query.encode(), nil, &patients)
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (c *Client) InsertPatient(ctx context.Context, patient *requests.CreatePatient) (*models.Patient, error) {
	created := new(models.Patient)
	err := c.do(ctx, constvars.MethodPost, "/patients", patient, created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) UpdatePatient(ctx context.Context, patientID string, patch *requests.UpdatePatient) (*models.Patient, error) {
	updated := new(models.Patient)
	err := c.do(ctx, constvars.MethodPatch, "/patients/"+url.PathEscape(patientID), patch, updated)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Client) DeletePatient(ctx context.Context, patientID string) error {
	return c.do(ctx, constvars.MethodDelete, "/patients/"+url.PathEscape(patientID), nil, nil)
}

func (c *Client) ExportPatients(ctx context.Context) (*responses.PatientExport, error) {
	export := new(responses.PatientExport)
	err := c.do(ctx, constvars.MethodPost, "/patients/exports", nil, export)
	if err != nil {
		return nil, err
	}
	return export, nil
}

// SelectProfile returns nil, nil when the user has no profile row.
func (c *Client) SelectProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile := new(models.Profile)
	err := c.do(ctx, constvars.MethodGet, "/users/"+url.PathEscape(userID)+"/profile", nil, profile)
	if err != nil {
		if StatusCode(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}
