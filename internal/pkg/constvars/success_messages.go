package constvars

const (
	SignUpSuccessMessage         = "Successfully signed up"
	SignInSuccessMessage         = "Successfully signed in"
	SignOutSuccessMessage        = "Successfully signed out"
	GetSessionSuccessMessage     = "Successfully retrieved session"
	GetProfileSuccessMessage     = "Successfully retrieved profile"
	GetPatientsSuccessMessage    = "Successfully retrieved patients"
	CreatePatientSuccessMessage  = "Successfully created patient"
	UpdatePatientSuccessMessage  = "Successfully updated patient"
	DeletePatientSuccessMessage  = "Successfully deleted patient"
	ExportPatientsSuccessMessage = "Successfully exported patients"
)
