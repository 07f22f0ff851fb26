package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingRequestKey        = "request"
	LoggingResponseKey       = "response"
	LoggingErrorCodeKey      = "error_code"
	LoggingErrorMessageKey   = "error_message"
	LoggingOperationKey      = "operation"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingStatusCodeKey     = "status_code"
	LoggingResponseLengthKey = "response_length"

	LoggingUserIDKey       = "user_id"
	LoggingEmailKey        = "email"
	LoggingRoleKey         = "role"
	LoggingSessionIDKey    = "session_id"
	LoggingPatientIDKey    = "patient_id"
	LoggingDoctorIDKey     = "doctor_id"
	LoggingStatusKey       = "status"
	LoggingFollowUpDateKey = "follow_up_date"
	LoggingCountKey        = "count"

	LoggingRedisKey             = "redis_key"
	LoggingLockValueKey         = "lock_value"
	LoggingLockExpirationKey    = "lock_expiration"
	LoggingLockStoredValueKey   = "lock_stored_value"
	LoggingLockExpectedValueKey = "lock_expected_value"
	LoggingQueueNameKey         = "queue_name"
	LoggingBucketNameKey        = "bucket_name"
	LoggingObjectNameKey        = "object_name"
)
