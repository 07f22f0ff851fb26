package main

import (
	"context"
	"errors"
	"medrec-service/internal/app/config"
	"medrec-service/internal/app/delivery/http/controllers"
	"medrec-service/internal/app/delivery/http/middlewares"
	"medrec-service/internal/app/delivery/http/routers"
	"medrec-service/internal/app/drivers/database"
	"medrec-service/internal/app/drivers/logger"
	"medrec-service/internal/app/drivers/messaging"
	"medrec-service/internal/app/drivers/storage"
	"medrec-service/internal/app/services/core/auth"
	"medrec-service/internal/app/services/core/patients"
	"medrec-service/internal/app/services/core/reminders"
	"medrec-service/internal/app/services/core/session"
	"medrec-service/internal/app/services/core/users"
	"medrec-service/internal/app/services/shared/locker"
	redisService "medrec-service/internal/app/services/shared/redis"
	"medrec-service/internal/app/services/shared/reminderqueue"
	storageService "medrec-service/internal/app/services/shared/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.String("timezone", internalConfig.App.Timezone), zap.Error(err))
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig, log)
	redis := database.NewRedisClient(driverConfig, log)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig, log)
	minio := storage.NewMinio(driverConfig, internalConfig.Export.BucketName, log)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redis,
		Logger:         log,
		RabbitMQ:       rabbitMQ,
		Minio:          minio,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	err = bootstrapingTheApp(workerCtx, bootstrap)
	if err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Failed to release drivers", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(ctx context.Context, bootstrap *config.Bootstrap) error {
	dbName := bootstrap.DriverConfig.MongoDB.DbName

	// Shared
	redisRepository := redisService.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)
	minioStorage := storageService.NewMinioStorage(bootstrap.Minio)
	sessionService := session.NewSessionService(redisRepository)

	// Repositories
	authIdentityRepository := auth.NewAuthIdentityMongoRepository(bootstrap.MongoDB, dbName)
	profileRepository := users.NewProfileMongoRepository(bootstrap.MongoDB, dbName)
	patientRepository := patients.NewPatientMongoRepository(bootstrap.MongoDB, dbName)

	// Usecases
	authUsecase := auth.NewAuthUsecase(authIdentityRepository, profileRepository, sessionService, bootstrap.InternalConfig, bootstrap.Logger)
	userUsecase := users.NewUserUsecase(profileRepository, bootstrap.Logger)
	patientUsecase := patients.NewPatientUsecase(patientRepository, minioStorage, bootstrap.InternalConfig, bootstrap.Logger)

	// Follow-up reminders
	if bootstrap.InternalConfig.Reminder.Enabled {
		reminderQueue, err := reminderqueue.NewService(bootstrap.RabbitMQ, bootstrap.Logger, bootstrap.InternalConfig.Reminder.Queue)
		if err != nil {
			return err
		}
		worker := reminders.NewWorker(
			bootstrap.Logger,
			lockerService,
			redisRepository,
			patientRepository,
			reminderQueue,
			bootstrap.InternalConfig.Reminder.Interval,
		)
		stopWorker := worker.Start(ctx)
		bootstrap.WorkerStop = func() {
			stopWorker()
			_ = reminderQueue.Close()
		}
	}

	// Delivery
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, authUsecase, bootstrap.InternalConfig)
	authController := controllers.NewAuthController(bootstrap.Logger, authUsecase, bootstrap.InternalConfig)
	userController := controllers.NewUserController(bootstrap.Logger, userUsecase, bootstrap.InternalConfig)
	patientController := controllers.NewPatientController(bootstrap.Logger, patientUsecase, bootstrap.InternalConfig)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, authController, userController, patientController)
	return nil
}
