package config

import (
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/utils"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "medrec"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", constvars.AppEnvDevelopment),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "UTC"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ShutdownTimeout:            utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 10),
			SessionExpiredTimeInHours:  utils.GetEnvInt("APP_SESSION_EXPIRED_TIME_IN_HOURS", 12),
			SignInMaxAttemptsPerMinute: utils.GetEnvInt("APP_SIGN_IN_MAX_ATTEMPTS_PER_MINUTE", 5),
			SignInBlockTimeInMinutes:   utils.GetEnvInt("APP_SIGN_IN_BLOCK_TIME_IN_MINUTES", 5),
		},
		JWT: JWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Reminder: Reminder{
			Enabled:  utils.GetEnvBool("REMINDER_ENABLED", true),
			Interval: utils.GetEnvDuration("REMINDER_INTERVAL", time.Hour),
			Queue:    utils.GetEnvString("REMINDER_QUEUE", constvars.RabbitMQReminderQueue),
		},
		Export: Export{
			BucketName:                  utils.GetEnvString("EXPORT_BUCKET_NAME", "medrec-exports"),
			PresignedURLExpiryInMinutes: utils.GetEnvInt("EXPORT_PRESIGNED_URL_EXPIRY_IN_MINUTES", 30),
		},
	}
}

func NewClientConfig() *ClientConfig {
	return &ClientConfig{
		Env:                  utils.GetEnvString("APP_ENV", constvars.AppEnvDevelopment),
		LogLevel:             utils.GetEnvString("DASHBOARD_LOG_LEVEL", "warn"),
		BaseURL:              utils.GetEnvString("DASHBOARD_API_BASE_URL", "http://localhost:8080/api/v1"),
		StorePath:            utils.GetEnvString("DASHBOARD_STORE_PATH", "medrec-dashboard.db"),
		Timezone:             utils.GetEnvString("DASHBOARD_TIMEZONE", "Local"),
		RequestTimeout:       utils.GetEnvDuration("DASHBOARD_REQUEST_TIMEOUT", 10*time.Second),
		FollowUpPollInterval: utils.GetEnvDuration("DASHBOARD_FOLLOW_UP_POLL_INTERVAL", 5*time.Minute),
	}
}

// RequestTimeout is the per request deadline for usecase calls.
func (c *InternalConfig) RequestTimeout() time.Duration {
	if c.App.RequestTimeoutInSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.App.RequestTimeoutInSeconds) * time.Second
}

func (c *InternalConfig) SessionTTL() time.Duration {
	if c.App.SessionExpiredTimeInHours <= 0 {
		return time.Hour
	}
	return time.Duration(c.App.SessionExpiredTimeInHours) * time.Hour
}
