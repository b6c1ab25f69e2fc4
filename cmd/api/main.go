package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"ruangchat/internal/adapter/api"
	"ruangchat/internal/adapter/api/handler"
	apimiddleware "ruangchat/internal/adapter/api/middleware"
	"ruangchat/internal/adapter/api/router"
	"ruangchat/internal/adapter/repository"
	"ruangchat/internal/infrastructure/firebase"
	"ruangchat/internal/infrastructure/ratelimit"
	"ruangchat/internal/infrastructure/websocket"
	"ruangchat/internal/usecase"
	"ruangchat/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	// Service account from environment variable (for production)
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		// Fallback to file path (for local development)
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	roomRepo := repository.NewFirestoreRoomRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	presenceUseCase := usecase.NewPresenceUseCase(userRepo)
	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient, presenceUseCase)
	roomDirectory := usecase.NewRoomDirectoryUseCase(roomRepo, rateLimiter)

	if err := roomDirectory.Start(ctx); err != nil {
		log.Fatalf("Failed to start room directory subscription: %v", err)
	}
	defer roomDirectory.Close()

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	authHandler := handler.NewAuthHandler(authUseCase)
	roomHandler := handler.NewRoomHandler(roomDirectory, authUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware, authUseCase, websocket.SessionDeps{
		Rooms:       roomDirectory,
		Presence:    presenceUseCase,
		MessageRepo: messageRepo,
		RoomRepo:    roomRepo,
		RateLimiter: rateLimiter,
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	router.SetupAuthRouter(e, authHandler, authMiddleware)
	router.SetupRoomRouter(e, roomHandler, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
