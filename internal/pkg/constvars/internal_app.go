package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_SESSION_DATA_KEY         ContextKey = "session_data"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"

	ResponseUnknown = "unknown"
)

// Roles known to the system. Every role must have a home route on the dashboard.
const (
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

// Patient status and gender values as stored.
const (
	PatientStatusActive     = "Active"
	PatientStatusDischarged = "Discharged"
	PatientStatusFollowUp   = "Follow-Up"

	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

const (
	MongoCollectionAuthUsers = "auth_users"
	MongoCollectionUsers     = "users"
	MongoCollectionPatients  = "patients"
)

const (
	RedisSessionKeyPrefix   = "session:"
	RedisReminderLockKey    = "followup:reminder:lock"
	RabbitMQReminderQueue   = "followup_reminder_queue"
	MinioPatientExportsPath = "exports/patients"
)

// Date layout for visit and follow-up dates.
const DateLayout = "2006-01-02"
