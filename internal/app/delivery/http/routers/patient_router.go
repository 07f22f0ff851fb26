package routers

import (
	"medrec-service/internal/app/delivery/http/controllers"
	"medrec-service/internal/app/delivery/http/middlewares"
	"medrec-service/internal/app/models"

	"github.com/go-chi/chi/v5"
)

func attachPatientRoutes(router chi.Router, middlewares *middlewares.Middlewares, patientController *controllers.PatientController) {
	router.Use(middlewares.Authenticate)

	router.Get("/", patientController.ListPatients)
	router.Post("/", patientController.CreatePatient)
	router.Patch("/{patient_id}", patientController.UpdatePatient)
	router.Delete("/{patient_id}", patientController.DeletePatient)
	router.With(middlewares.RequireRoles(models.RoleAdmin)).Post("/exports", patientController.ExportPatients)
}
