package app

import (
	"context"
	"log"
	"sync"

	"campuschat/configs"
	"campuschat/internal/handlers"
	"campuschat/internal/models"
	"campuschat/internal/repositories"
	"campuschat/internal/servers/database"
	"campuschat/internal/servers/http"
	"campuschat/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.configs = configs.GetConfig()
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.address"),
	})

	db := database.GetDB(app.configs)
	accountRepo := repositories.NewAccountRepository(db)
	if err := accountRepo.EnsureAdminAccount(
		app.configs.Viper.GetString("admin.email"),
		app.configs.Viper.GetString("admin.password"),
	); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}
	accountService := services.NewAccountService(accountRepo, app.configs)
	chatRepo := repositories.NewChatRepository(db)
	chatService := services.NewChatService(chatRepo, accountRepo)

	hub := models.NewSocketHub()
	dispatcherService := services.NewDispatcherService(app.ctx, app.redis, hub, chatService)

	minioService := services.NewMinioService(app.configs)
	fileManagerService := services.NewFileManagerService(minioService)

	restHandler := handlers.NewRestHandler(
		accountService,
		chatService,
		dispatcherService,
		fileManagerService,
	)
	socketChatHandler := handlers.NewSocketChatHandler(hub, dispatcherService)

	http.NewHttpServer(
		app.ctx,
		app.configs,
		hub,
		restHandler,
		socketChatHandler,
	).Run()
}
