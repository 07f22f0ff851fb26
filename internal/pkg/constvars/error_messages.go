package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":  "is required",
	"email":     "must be a valid email",
	"min":       "must be at least %s characters long",
	"max":       "maximum at %s characters long",
	"oneof":     "must be one of [%s]",
	"gte":       "must be greater than or equal to %s",
	"lte":       "must be less than or equal to %s",
	"uuid":      "must be a valid UUID",
	"password":  "must be at least 8 characters long",
	"date_only": "must be a date in YYYY-MM-DD format",
	"role":      "must be either 'doctor' or 'admin'",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"gte":   true,
	"lte":   true,
}

// Client facing messages
const (
	ErrClientCannotProcessRequest          = "Cannot process the request"
	ErrClientSomethingWrongWithApplication = "Something wrong with the application, please try again later"
	ErrClientServerLongRespond             = "Server took too long to respond"
	ErrClientNotAuthorized                 = "You are not authorized to access this resource"
	ErrClientNotLoggedIn                   = "Please sign in to continue"
	ErrClientInvalidEmailOrPassword        = "invalid email or password"
	ErrClientEmailAlreadyUsed              = "email already used"
	ErrClientTooManyRequests               = "Too many requests, you are blocked temporarily"
	ErrClientPatientNotFound               = "patient not found"
	ErrClientProfileNotFound               = "profile not found"
	ErrClientFollowUpDateRequired          = "follow-up date is required when status is Follow-Up"
)

// Developer facing messages
const (
	ErrDevValidationFailed          = "validation failed"
	ErrDevInvalidInput              = "invalid input"
	ErrDevCannotParseJSON           = "cannot parse json"
	ErrDevCannotMarshalJSON         = "cannot marshal json"
	ErrDevServerDeadlineExceeded    = "server deadline exceeded"
	ErrDevServerProcess             = "server failed to process the request"
	ErrDevURLParamValidationFailed  = "url parameter %s is invalid"
	ErrDevFailedToHashPassword      = "failed to hash password"
	ErrDevInvalidCredentials        = "invalid credentials"
	ErrDevEmailAlreadyExists        = "email already exists"
	ErrDevAuthTokenMissing          = "auth token missing"
	ErrDevAuthTokenInvalid          = "auth token invalid"
	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthGenerateToken         = "failed to generate token"
	ErrDevAuthInvalidSession        = "session not found or expired"
	ErrDevRoleNotAllowed            = "role %s is not allowed on this route"
	ErrDevPatientNotExists          = "patient does not exist or is out of scope"
	ErrDevProfileNotExists          = "profile does not exist"
	ErrDevFollowUpDateRequired      = "follow-up status without follow-up date"
	ErrDevDBFailedToFindDocument    = "failed to find document"
	ErrDevDBFailedToInsertDocument  = "failed to insert document"
	ErrDevDBFailedToUpdateDocument  = "failed to update document"
	ErrDevDBFailedToDeleteDocument  = "failed to delete document"
	ErrDevDBFailedToIterateDocument = "failed to iterate documents"
	ErrDevRedisGetData              = "failed to get data from redis"
	ErrDevRedisSetData              = "failed to set data to redis"
	ErrDevRedisDeleteData           = "failed to delete data from redis"
	ErrDevRedisUnlock               = "failed to release redis lock"
	ErrDevMinioFailedToCreateObject = "failed to create object on bucket %s"
	ErrDevMinioFailedToPresignURL   = "failed to presign object url on bucket %s"
	ErrDevRabbitMQPublishMessage    = "failed to publish message to queue %s"
	ErrDevCreateCSV                 = "failed to render csv"
)
