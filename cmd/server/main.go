package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"taxmind/internal/config"
	"taxmind/internal/database"
	"taxmind/internal/handlers"
	"taxmind/internal/models"
	"taxmind/internal/obs"
	"taxmind/internal/scheduler"
	"taxmind/internal/services"
	"taxmind/internal/store"
)

// seedForms is the default catalog of recognized filing forms
var seedForms = []models.Form{
	{Code: "01/GTGT", DisplayName: "Value-added tax declaration"},
	{Code: "05/KK-TNCN", DisplayName: "Personal income tax withholding"},
	{Code: "05/QTT-TNCN", DisplayName: "Personal income tax settlement"},
	{Code: "TT200", DisplayName: "Circular 200 financial statements"},
	{Code: "03/TNDN", DisplayName: "Corporate income tax settlement"},
}

func main() {
	// optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger := obs.NewLogger(cfg.Env)
	defer logger.Sync()

	obs.Init()

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("failed to initialize database", "error", err)
	}

	st := store.New(db)
	if err := st.EnsureForms(context.Background(), seedForms); err != nil {
		logger.Warnw("failed to seed form catalog", "error", err)
	}

	telegram := services.NewTelegramClient(cfg.BotToken)
	reminders := services.NewReminderService(st, telegram, cfg, logger)
	ingest := services.NewIngestService(st, logger)

	sched := scheduler.New(reminders, cfg, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalw("failed to start schedulers", "error", err)
	}
	defer sched.Stop()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(cors.Default())

	h := handlers.New(st, reminders, ingest, telegram, cfg, logger)

	router.GET("/", h.Home)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(obs.Handler()))

	// bot-owner routes
	owner := router.Group("", h.RequireOwner())
	{
		owner.POST("/teams", h.RegisterTeam)
		owner.GET("/teams", h.ListTeams)
		owner.DELETE("/teams/:chatID", h.RemoveTeam)
		owner.POST("/companies/assign", h.AssignCompany)
		owner.POST("/sweeps/daily", h.RunDailySweep)
	}

	// group-admin routes, scoped to the chat group in the path
	admin := router.Group("/teams/:chatID", h.RequireChatAdmin())
	{
		admin.GET("/companies", h.ListCompanies)
		admin.POST("/companies", h.AddCompany)
		admin.DELETE("/companies/:taxID", h.RemoveCompany)
		admin.PUT("/companies/:taxID/owner", h.SetOwner)
		admin.DELETE("/companies/:taxID/owner", h.ClearOwner)
		admin.PUT("/companies/:taxID/name", h.RenameCompany)
		admin.GET("/requirements", h.ListRequirements)
		admin.POST("/requirements", h.AddRequirement)
		admin.POST("/requirements/quick", h.QuickAdd)
		admin.DELETE("/requirements/:taxID", h.RemoveRequirement)
		admin.POST("/notices", h.UploadNotice)
		admin.POST("/reminders/force", h.ForceRemind)
		admin.GET("/reminders/preview", h.PreviewReminders)
	}

	logger.Infow("server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}
