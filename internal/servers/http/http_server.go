package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"campuschat/configs"
	"campuschat/internal/handlers"
	"campuschat/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx           context.Context
	config        *configs.Config
	router        *gin.Engine
	hub           *models.SocketHub
	restHandler   *handlers.RestHandler
	socketHandler *handlers.SocketChatHandler
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	hub *models.SocketHub,
	restHandler *handlers.RestHandler,
	socketHandler *handlers.SocketChatHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:           ctx,
			config:        config,
			hub:           hub,
			restHandler:   restHandler,
			socketHandler: socketHandler,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.router = gin.Default()

	hs.setupRestfulRoutes()
	hs.setupWebSocketRoutes()
	hs.socketHandler.StartSocket()

	server := hs.startServer()
	hs.waitForShutdown(server)
}

func (hs *HttpServer) setupRestfulRoutes() {
	hs.router.POST("/auth/login", hs.restHandler.Login)

	authorized := hs.router.Group("/", hs.restHandler.MustAuthenticateMiddleware())
	authorized.GET("/chats/heads", hs.restHandler.GetChatHeads)
	authorized.GET("/chats/messages", hs.restHandler.GetMessages)
	authorized.POST("/chats/messages", hs.restHandler.SaveMessage)
	authorized.GET("/chats/online", hs.restHandler.GetOnlineUsers)
	authorized.GET("/accounts", hs.restHandler.GetUsers)
	authorized.GET("/accounts/:id", hs.restHandler.GetUser)
}

func (hs *HttpServer) setupWebSocketRoutes() {
	hs.router.GET("/ws", hs.restHandler.MustAuthenticateMiddleware(), hs.socketHandler.HandleSocketChatRoute)
}

func (hs *HttpServer) startServer() *http.Server {
	addr := fmt.Sprintf(":%d", hs.config.Viper.GetInt("server.port"))
	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		log.Printf("HTTP server started on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	hs.hub.CloseAll()

	log.Println("Server exiting")
}
