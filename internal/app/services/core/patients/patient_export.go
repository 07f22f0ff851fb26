package patients

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/dto/responses"
	"medrec-service/internal/pkg/exceptions"
	"medrec-service/internal/pkg/utils"
	"strconv"
	"time"

	"go.uber.org/zap"
)

var exportHeader = []string{
	"id", "name", "age", "gender", "email", "address", "disease", "disease_description",
	"visit_date", "visit_count", "doctor_notes", "status", "doctor_id", "created_at", "follow_up_date",
}

// ExportPatients uploads every patient row as CSV and returns a presigned link.
func (uc *patientUsecase) ExportPatients(ctx context.Context, session *models.Session) (*responses.PatientExport, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.ExportPatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)

	if !session.IsAdmin() {
		return nil, exceptions.ErrRoleNotAllowed(errors.New("export requires admin"), session.Role.String())
	}

	patients, err := uc.PatientRepository.Find(ctx, models.PatientFilter{})
	if err != nil {
		return nil, err
	}

	content, err := RenderPatientsCSV(patients)
	if err != nil {
		return nil, exceptions.ErrCreateCSV(err)
	}

	bucketName := uc.InternalConfig.Export.BucketName
	objectName := fmt.Sprintf("%s/patients_%s.csv", constvars.MinioPatientExportsPath, uc.now().UTC().Format("20060102_150405"))
	err = utils.LogOperation(uc.Log, "upload_patient_export", requestID, func() error {
		_, err := uc.Storage.UploadObject(ctx, bucketName, objectName, bytes.NewReader(content), int64(len(content)), constvars.MIMETextCSV)
		return err
	})
	if err != nil {
		return nil, err
	}

	expiry := time.Duration(uc.InternalConfig.Export.PresignedURLExpiryInMinutes) * time.Minute
	url, err := uc.Storage.GetObjectUrlWithExpiryTime(ctx, bucketName, objectName, expiry)
	if err != nil {
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "patients_exported", requestID,
		zap.String(constvars.LoggingBucketNameKey, bucketName),
		zap.String(constvars.LoggingObjectNameKey, objectName),
		zap.Int(constvars.LoggingCountKey, len(patients)),
	)

	return &responses.PatientExport{
		ObjectName: objectName,
		URL:        url,
		Count:      len(patients),
	}, nil
}

func RenderPatientsCSV(patients []models.Patient) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	err := writer.Write(exportHeader)
	if err != nil {
		return nil, err
	}

	for _, p := range patients {
		createdAt := ""
		if !p.CreatedAt.IsZero() {
			createdAt = p.CreatedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			p.ID,
			p.Name,
			strconv.Itoa(p.Age),
			string(p.Gender),
			deref(p.Email),
			deref(p.Address),
			p.Disease,
			deref(p.DiseaseDescription),
			p.VisitDate,
			strconv.Itoa(p.VisitCount),
			deref(p.DoctorNotes),
			string(p.Status),
			deref(p.DoctorID),
			createdAt,
			deref(p.FollowUpDate),
		}
		err = writer.Write(record)
		if err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
