package server

import (
	"ctchen222/tictactoe-bot/internal/api/controller"
	"ctchen222/tictactoe-bot/internal/api/response"
	"ctchen222/tictactoe-bot/internal/api/service"
	"ctchen222/tictactoe-bot/internal/player"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	engine         *gin.Engine
	chatController *controller.ChatController
	chatService    service.ChatService
	upgrader       websocket.Upgrader
}

func NewServer(chatService service.ChatService) *Server {
	s := &Server{
		engine:         gin.New(),
		chatController: controller.NewChatController(chatService),
		chatService:    chatService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.registerHandlers()
	return s
}

// Engine returns the HTTP handler serving all routes.
func (s *Server) Engine() http.Handler {
	return s.engine
}

func (s *Server) registerHandlers() {
	s.engine.Use(gin.Recovery(), requestLogger())

	s.engine.GET("/healthz", func(c *gin.Context) {
		response.SuccessResponse(c, gin.H{"status": "ok"})
	})
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	api.POST("/guest", s.chatController.GuestLogin)
	api.POST("/updates", s.chatController.RequireToken(), s.chatController.PostUpdate)
}

// handleWebSocket authenticates the token query parameter, upgrades the
// connection and serves the chat until the client goes away.
func (s *Server) handleWebSocket(c *gin.Context) {
	r := c.Request
	ctx, span := tracer.Start(r.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", r.URL.Path),
		attribute.String("http.method", r.Method),
	))
	defer span.End()

	chatID, err := s.chatService.Authenticate(ctx, c.Query("token"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unauthorized")
		response.ErrorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}
	span.SetAttributes(attribute.String("chat.id", chatID))

	conn, err := s.upgrader.Upgrade(c.Writer, r, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	slog.InfoContext(ctx, "Player connected", "chat.id", chatID)
	player.NewPlayer(chatID, conn).ReadPump(ctx, s.chatService)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.DebugContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
