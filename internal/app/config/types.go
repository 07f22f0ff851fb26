package config

import "time"

type (
	InternalConfig struct {
		App      App
		JWT      JWT
		Reminder Reminder
		Export   Export
	}

	App struct {
		Env                        string
		Port                       string
		Version                    string
		Timezone                   string
		EndpointPrefix             string
		MaxRequests                int
		ShutdownTimeout            int
		RequestTimeoutInSeconds    int
		SessionExpiredTimeInHours  int
		SignInMaxAttemptsPerMinute int
		SignInBlockTimeInMinutes   int
	}

	JWT struct {
		Secret string
	}

	Reminder struct {
		Enabled  bool
		Interval time.Duration
		Queue    string
	}

	Export struct {
		BucketName                  string
		PresignedURLExpiryInMinutes int
	}
)

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
	}

	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}

	Redis struct {
		Host     string
		Port     string
		Password string
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}

	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}

	Minio struct {
		Port     string
		Host     string
		Username string
		Password string
		UseSSL   bool
	}
)

// ClientConfig drives the dashboard CLI.
type ClientConfig struct {
	Env                  string
	LogLevel             string
	BaseURL              string
	StorePath            string
	Timezone             string
	RequestTimeout       time.Duration
	FollowUpPollInterval time.Duration
}
