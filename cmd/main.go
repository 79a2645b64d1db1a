package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/anuruddha96/hotelcare-backend/internal/app"
	"github.com/anuruddha96/hotelcare-backend/internal/config"
	"github.com/anuruddha96/hotelcare-backend/internal/constants"
	"github.com/anuruddha96/hotelcare-backend/internal/controllers"
	"github.com/anuruddha96/hotelcare-backend/internal/events"
	"github.com/anuruddha96/hotelcare-backend/internal/middleware"
	"github.com/anuruddha96/hotelcare-backend/internal/repositories"
	"github.com/anuruddha96/hotelcare-backend/internal/routes"
	"github.com/anuruddha96/hotelcare-backend/internal/services"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize housekeeping-api:", err)
	}
	defer application.Close()

	assignRepo := repositories.NewAssignmentRepository(application.DB)
	roomRepo := repositories.NewRoomRepository(application.DB)
	attendRepo := repositories.NewAttendanceRepository(application.DB)
	staffRepo := repositories.NewStaffRepository(application.DB)

	openaiSvc := services.NewOpenAIService(cfg.OpenAIAPIKey)

	twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	sgClient := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	notifier := services.NewManagerNotifier(cfg, staffRepo, twClient, sgClient)

	hub := events.NewHub()

	housekeepingService := services.NewHousekeepingService(
		cfg,
		assignRepo,
		roomRepo,
		attendRepo,
		staffRepo,
		openaiSvc,
		notifier,
		hub,
	)
	sweeper := services.NewSweeperService(cfg, assignRepo)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedDemoData(
			context.Background(),
			cfg,
			staffRepo,
			roomRepo,
			attendRepo,
			assignRepo,
		); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		}
	}

	assignmentsController := controllers.NewAssignmentsController(housekeepingService)
	healthController := controllers.NewHealthController(application.DB)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.AssignmentsQueue, assignmentsController.QueueHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.AssignmentsStart, assignmentsController.StartHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AssignmentsComplete, assignmentsController.CompleteHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AssignmentsCancel, assignmentsController.CancelHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AssignmentsPhotos, assignmentsController.PhotosHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AssignmentsDNDMark, assignmentsController.DNDMarkHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AssignmentsDNDRetrieve, assignmentsController.DNDRetrieveHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Events, events.HandleWebSocket(hub)).Methods(http.MethodGet)

	// Nightly sweep runs in the hotel's local timezone.
	c := cron.New(cron.WithLocation(cfg.HotelLocation()))
	_, sweepErr := c.AddFunc(constants.NightlySweepCronSpec, func() {
		if e := sweeper.RunNightlySweep(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Nightly assignment sweep failed")
		}
	})
	if sweepErr != nil {
		utils.Logger.WithError(sweepErr).Fatal("Failed to schedule nightly sweep cron")
	}
	c.Start()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Platform", "ngrok-skip-browser-warning"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("housekeeping-api failed to start:", err)
	}
}
