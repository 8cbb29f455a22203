package routes

import (
	"onboard-backend/internal/api/handlers"
	"onboard-backend/internal/api/middleware"
	"onboard-backend/internal/config"
	"onboard-backend/internal/repository"
	"onboard-backend/internal/services"
	"onboard-backend/pkg/cache"
	"onboard-backend/pkg/email"
	"onboard-backend/pkg/jwt"
	"onboard-backend/pkg/ratelimit"
	"onboard-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupRoutes(router *gin.Engine, db *mongo.Database, redisClient *redis.Client, cfg *config.Config) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	trainingRepo := repository.NewTrainingRepository(db)
	assignmentRepo := repository.NewTrainingAssignmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	accessRequestRepo := repository.NewAccessRequestRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	codeRepo := repository.NewDepartmentCodeRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	// Initialize services
	jwtUtil := jwt.NewJWTUtil()
	emailService := email.NewEmailService(cfg.SMTP)

	notificationService := services.NewNotificationService(notificationRepo, userRepo)
	authService := services.NewAuthService(userRepo, codeRepo, jwtUtil, emailService)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, notificationService)
	trainingService := services.NewTrainingService(trainingRepo, assignmentRepo, userRepo, notificationService)
	onboardingService := services.NewOnboardingService(trainingRepo, assignmentRepo, userRepo, notificationService)
	assetService := services.NewAssetService(assetRepo, userRepo, notificationService)
	accessRequestService := services.NewAccessRequestService(accessRequestRepo, userRepo, notificationService)
	documentService := services.NewDocumentService(documentRepo, userRepo, notificationService, cfg.UploadDir)
	codeService := services.NewDepartmentCodeService(codeRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo)

	// Redis-backed pieces degrade to in-memory (limiter) or pass-through
	// (caches) when the connection is down
	var limiter ratelimit.Limiter
	if client := redisClient.GetClient(); client != nil {
		limiter = ratelimit.NewRedisLimiter(client, ratelimit.DefaultLimits())
		appCache := cache.New(client)
		notificationService.SetCache(appCache)
		trainingService.SetCache(appCache)
	} else {
		limiter = ratelimit.NewMemoryLimiter(ratelimit.DefaultLimits())
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	trainingHandler := handlers.NewTrainingHandler(trainingService, onboardingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	assetHandler := handlers.NewAssetHandler(assetService)
	accessRequestHandler := handlers.NewAccessRequestHandler(accessRequestService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	codeHandler := handlers.NewDepartmentCodeHandler(codeService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	router.Use(middleware.RateLimitMiddleware(limiter))

	api := router.Group("/api/v1")

	api.GET("/health", healthHandler.HealthCheck)

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}
	api.POST("/department-codes/verify", codeHandler.VerifyCode)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		users := protected.Group("/users")
		users.Use(middleware.Authorize(middleware.ActionManageUsers))
		{
			users.GET("", userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.PATCH("/:id/status", userHandler.DeactivateUser)
			users.DELETE("/:id", userHandler.DeactivateUser)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", middleware.Authorize(middleware.ActionManageTasks), taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		trainings := protected.Group("/trainings")
		{
			trainings.GET("", trainingHandler.GetTrainings)
			trainings.POST("", middleware.Authorize(middleware.ActionManageTrainings), trainingHandler.CreateTraining)
			trainings.POST("/orientation", middleware.Authorize(middleware.ActionManageTrainings), trainingHandler.GenerateOnboarding)
			trainings.GET("/orientation/:employeeId", trainingHandler.OrientationStatus)
			trainings.GET("/:id", trainingHandler.GetTraining)
			trainings.PUT("/:id", middleware.Authorize(middleware.ActionManageTrainings), trainingHandler.UpdateTraining)
			trainings.DELETE("/:id", middleware.Authorize(middleware.ActionManageTrainings), trainingHandler.DeleteTraining)
			trainings.GET("/:id/assignments", trainingHandler.GetAssignments)
			trainings.POST("/:id/assign", middleware.Authorize(middleware.ActionAssignTrainings), trainingHandler.AssignUsers)
			trainings.DELETE("/:id/assign/:userId", middleware.Authorize(middleware.ActionAssignTrainings), trainingHandler.Unassign)
			trainings.POST("/:id/start", trainingHandler.StartAssignment)
			trainings.POST("/:id/complete", trainingHandler.CompleteAssignment)
			trainings.PUT("/:id/status", middleware.Authorize(middleware.ActionManageTrainings), trainingHandler.SetAssignmentStatus)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.POST("", middleware.Authorize(middleware.ActionSendNotifications), notificationHandler.CreateNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.DeleteNotification)
		}

		assets := protected.Group("/assets")
		{
			assets.GET("", assetHandler.GetAssets)
			assets.POST("", middleware.Authorize(middleware.ActionManageAssets), assetHandler.CreateAsset)
			assets.GET("/:id", assetHandler.GetAsset)
			assets.PUT("/:id", middleware.Authorize(middleware.ActionManageAssets), assetHandler.UpdateAssetStatus)
			assets.PUT("/:id/assign", middleware.Authorize(middleware.ActionManageAssets), assetHandler.AssignAsset)
			assets.PUT("/:id/unassign", middleware.Authorize(middleware.ActionManageAssets), assetHandler.UnassignAsset)
			assets.POST("/:id/maintenance", assetHandler.ReportMaintenance)
			assets.DELETE("/:id", middleware.Authorize(middleware.ActionManageAssets), assetHandler.DeleteAsset)
		}

		accessRequests := protected.Group("/access-requests")
		{
			accessRequests.GET("", accessRequestHandler.GetRequests)
			accessRequests.POST("", accessRequestHandler.CreateRequest)
			accessRequests.GET("/:id", accessRequestHandler.GetRequest)
			accessRequests.POST("/:id/approvals", middleware.Authorize(middleware.ActionApproveAccess), accessRequestHandler.Decide)
			accessRequests.PUT("/:id/assign", middleware.Authorize(middleware.ActionFulfilAccess), accessRequestHandler.AssignRequest)
			accessRequests.PUT("/:id/status", accessRequestHandler.UpdateStatus)
		}

		documents := protected.Group("/documents")
		{
			documents.GET("", documentHandler.GetDocuments)
			documents.POST("", middleware.Authorize(middleware.ActionUploadDocuments), documentHandler.Upload)
			documents.GET("/:id", documentHandler.GetDocument)
			documents.GET("/:id/download", documentHandler.Download)
			documents.POST("/:id/sign", documentHandler.Sign)
			documents.DELETE("/:id", documentHandler.DeleteDocument)
		}

		codes := protected.Group("/department-codes")
		codes.Use(middleware.Authorize(middleware.ActionManageCodes))
		{
			codes.GET("", codeHandler.GetCodes)
			codes.POST("", codeHandler.CreateCode)
			codes.DELETE("/:id", codeHandler.DeleteCode)
		}

		feedback := protected.Group("/feedback")
		{
			feedback.POST("", feedbackHandler.SubmitFeedback)
			feedback.GET("", middleware.Authorize(middleware.ActionReadFeedback), feedbackHandler.GetFeedback)
			feedback.GET("/:id", feedbackHandler.GetFeedbackByID)
		}
	}
}
