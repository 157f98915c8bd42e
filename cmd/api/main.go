package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medhub/ambulatorio-api/internal/config"
	appointmentH "github.com/medhub/ambulatorio-api/internal/handler/appointment"
	assistantH "github.com/medhub/ambulatorio-api/internal/handler/assistant"
	authH "github.com/medhub/ambulatorio-api/internal/handler/auth"
	calendarH "github.com/medhub/ambulatorio-api/internal/handler/calendar"
	healthH "github.com/medhub/ambulatorio-api/internal/handler/health"
	patientH "github.com/medhub/ambulatorio-api/internal/handler/patient"
	photoH "github.com/medhub/ambulatorio-api/internal/handler/photo"
	schedaH "github.com/medhub/ambulatorio-api/internal/handler/scheda"
	"github.com/medhub/ambulatorio-api/internal/middleware"
	mongorepo "github.com/medhub/ambulatorio-api/internal/repository/mongo"
	"github.com/medhub/ambulatorio-api/internal/router"
	"github.com/medhub/ambulatorio-api/internal/service/action"
	"github.com/medhub/ambulatorio-api/internal/service/appointment"
	"github.com/medhub/ambulatorio-api/internal/service/assistant"
	"github.com/medhub/ambulatorio-api/internal/service/auth"
	"github.com/medhub/ambulatorio-api/internal/service/calendar"
	"github.com/medhub/ambulatorio-api/internal/service/event"
	"github.com/medhub/ambulatorio-api/internal/service/patient"
	"github.com/medhub/ambulatorio-api/internal/service/photo"
	"github.com/medhub/ambulatorio-api/internal/service/scheda"
	"github.com/medhub/ambulatorio-api/internal/service/stats"
	"github.com/medhub/ambulatorio-api/internal/service/undo"
	"github.com/medhub/ambulatorio-api/pkg/llm"
	"github.com/medhub/ambulatorio-api/pkg/logger"
	"github.com/medhub/ambulatorio-api/pkg/validator"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	if err := validator.RegisterClinicRules(); err != nil {
		log.Fatal(err, "failed to register validation rules")
	}

	db, err := mongorepo.NewDB(cfg.Mongo)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(ctx); err != nil {
			log.Error(err, "failed to disconnect from database")
		}
	}()

	patientRepo := mongorepo.NewPatientRepository(db)
	appointmentRepo := mongorepo.NewAppointmentRepository(db)
	impiantoRepo := mongorepo.NewSchedaImpiantoRepository(db)
	gestioneRepo := mongorepo.NewSchedaGestioneRepository(db)
	medRepo := mongorepo.NewSchedaMedRepository(db)
	prescrizioneRepo := mongorepo.NewPrescrizioneRepository(db)
	photoRepo := mongorepo.NewPhotoRepository(db)
	closedSlotRepo := mongorepo.NewClosedSlotRepository(db)
	undoRepo := mongorepo.NewUndoRepository(db)
	chatRepo := mongorepo.NewChatRepository(db)
	outboxRepo := mongorepo.NewOutboxRepository(db)

	undoSvc := undo.NewService(undo.Stores{
		Undo:           undoRepo,
		Patients:       patientRepo,
		Appointments:   appointmentRepo,
		SchedeImpianto: impiantoRepo,
		SchedeGestione: gestioneRepo,
		SchedeMed:      medRepo,
		Prescrizioni:   prescrizioneRepo,
	}, log)

	statsSvc := stats.NewService(patientRepo, appointmentRepo, impiantoRepo)
	resolver := action.NewResolver(patientRepo)
	slots := action.NewSlotAllocator(appointmentRepo)
	executor := action.NewExecutor(action.Stores{
		Patients:       patientRepo,
		Appointments:   appointmentRepo,
		SchedeImpianto: impiantoRepo,
		SchedeGestione: gestioneRepo,
		SchedeMed:      medRepo,
		Prescrizioni:   prescrizioneRepo,
	}, resolver, slots, undoSvc, statsSvc, log)

	llmClient := llm.NewOpenAIClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Timeout:     cfg.LLM.Timeout,
		MaxRetries:  uint(cfg.LLM.MaxRetries),
		Temperature: cfg.LLM.Temperature,
	})

	recorder := event.NewRecorder(outboxRepo)
	assistantSvc := assistant.NewService(llmClient, chatRepo, executor, recorder, log)
	authSvc := auth.NewService(cfg.JWT, cfg.Users)
	patientSvc := patient.NewService(patient.Stores{
		Patients:       patientRepo,
		Appointments:   appointmentRepo,
		SchedeImpianto: impiantoRepo,
		SchedeGestione: gestioneRepo,
		SchedeMed:      medRepo,
		Prescrizioni:   prescrizioneRepo,
		Photos:         photoRepo,
	})
	appointmentSvc := appointment.NewService(appointmentRepo, patientRepo)
	schedaSvc := scheda.NewService(impiantoRepo, medRepo, gestioneRepo, prescrizioneRepo)

	authMw := middleware.NewAuthMiddleware(authSvc)

	r := router.New(log, authMw,
		healthH.NewHandler(db),
		authH.NewHandler(authSvc),
		router.Config{
			RateLimitRPS:   50,
			RateLimitBurst: 100,
			CORS:           middleware.DefaultCORSConfig(),
			MetricsPrefix:  "ambulatorio_api",
		},
		authH.NewMeHandler(),
		patientH.NewHandler(patientSvc),
		appointmentH.NewHandler(appointmentSvc),
		schedaH.NewHandler(schedaSvc),
		photoH.NewHandler(photo.NewService(photoRepo)),
		assistantH.NewHandler(assistantSvc, executor),
		calendarH.NewHandler(calendar.NewService(closedSlotRepo)),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info("starting api server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}
