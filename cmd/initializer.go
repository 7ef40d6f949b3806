package main

import (
	"database/sql"
	"log"
	"time"

	"frotaBack/internal/config"
	"frotaBack/internal/handlers"
	"frotaBack/internal/repositories"
	"frotaBack/internal/services"
	"frotaBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB
	tokens   *utils.TokenManager

	userRepo *repositories.UserRepository

	paymentHandler      *handlers.PaymentHandler
	clientHandler       *handlers.ClientHandler
	settingsHandler     *handlers.SettingsHandler
	notificationHandler *handlers.NotificationHandler
	webhookHandler      *handlers.WebhookHandler
	userHandler         *handlers.UserHandler
	companyHandler      *handlers.CompanyHandler

	notificationService *services.NotificationService
}

func initializeApp(cfg config.Config, db *sql.DB, errorLog, infoLog *log.Logger) (*application, error) {
	// Repositories
	paymentRepo := repositories.PaymentRepository{DB: db}
	clientRepo := repositories.ClientRepository{DB: db}
	settingsRepo := repositories.NotificationSettingsRepository{DB: db}
	notificationRepo := repositories.PaymentNotificationRepository{DB: db}
	webhookEventRepo := repositories.WebhookEventRepository{DB: db}
	companyRepo := repositories.CompanyRepository{DB: db}
	userRepo := repositories.UserRepository{DB: db}

	tokens, err := utils.NewTokenManager(cfg.JWT.SigningKey)
	if err != nil {
		return nil, err
	}

	whatsapp, err := services.NewWhatsAppService(services.WhatsAppConfig{
		BaseURL: cfg.WhatsApp.BaseURL,
		APIKey:  cfg.WhatsApp.APIKey,
	})
	if err != nil {
		return nil, err
	}

	var archiver services.PayloadArchiver
	if cfg.Storage.Bucket != "" && cfg.Storage.AccessKey != "" {
		s3Archiver, err := utils.NewS3Archiver(utils.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		archiver = s3Archiver
	}

	// Services
	paymentService := &services.PaymentService{PaymentRepo: &paymentRepo}
	clientService := &services.ClientService{ClientRepo: &clientRepo}
	settingsService := &services.SettingsService{SettingsRepo: &settingsRepo}
	userService := &services.UserService{UserRepo: &userRepo, Tokens: tokens}
	notificationService := &services.NotificationService{
		Settings:      &settingsRepo,
		Payments:      &paymentRepo,
		Clients:       &clientRepo,
		Notifications: &notificationRepo,
		Channel:       whatsapp,
		SendTimeout:   time.Duration(cfg.WhatsApp.TimeoutSeconds) * time.Second,
		InfoLog:       infoLog,
		ErrorLog:      errorLog,
	}
	webhookService := &services.WebhookService{
		Payments: &paymentRepo,
		Events:   &webhookEventRepo,
		Archiver: archiver,
	}

	// Handlers
	paymentHandler := &handlers.PaymentHandler{Service: paymentService}
	clientHandler := &handlers.ClientHandler{Service: clientService}
	settingsHandler := &handlers.SettingsHandler{Service: settingsService}
	notificationHandler := &handlers.NotificationHandler{
		Service:          notificationService,
		NotificationRepo: &notificationRepo,
		InfoLog:          infoLog,
	}
	webhookHandler := &handlers.WebhookHandler{
		Service:   webhookService,
		EventRepo: &webhookEventRepo,
		ErrorLog:  errorLog,
	}
	userHandler := &handlers.UserHandler{Service: userService}
	companyHandler := &handlers.CompanyHandler{Repo: &companyRepo}

	return &application{
		errorLog:            errorLog,
		infoLog:             infoLog,
		db:                  db,
		tokens:              tokens,
		userRepo:            &userRepo,
		paymentHandler:      paymentHandler,
		clientHandler:       clientHandler,
		settingsHandler:     settingsHandler,
		notificationHandler: notificationHandler,
		webhookHandler:      webhookHandler,
		userHandler:         userHandler,
		companyHandler:      companyHandler,
		notificationService: notificationService,
	}, nil
}
