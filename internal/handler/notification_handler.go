package handler

import (
	"os"
	"time"

	"careercoach-be/internal/pkg/logger"
	"careercoach-be/internal/pkg/serverutils"
	internalWS "careercoach-be/internal/websocket"
	"careercoach-be/pkg/events"
	pkgNats "careercoach-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NotificationHandler exposes the realtime channel: the websocket clients
// receive session completion pushes fanned out by the hub.
type NotificationHandler struct {
	publisher *pkgNats.Publisher
	hub       *internalWS.Hub
	logger    logger.ILogger
}

func NewNotificationHandler(pub *pkgNats.Publisher, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		publisher: pub,
		hub:       hub,
		logger:    log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on the WS handshake, so the token may come
	// in as a query param instead.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("NotificationHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(c *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, c, userID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// DebugTriggerEvent simulates an event to test the flow.
func (h *NotificationHandler) DebugTriggerEvent(c *fiber.Ctx) error {
	type Request struct {
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Type == "" {
		req.Type = "TEST_EVENT"
	}
	if req.Payload == nil {
		req.Payload = make(map[string]interface{})
	}
	if _, ok := req.Payload["user_id"]; !ok {
		if uid := c.Locals("user_id"); uid != nil {
			req.Payload["user_id"] = uid
		}
	}

	evt := events.BaseEvent{
		Type:       req.Type,
		Data:       req.Payload,
		OccurredAt: time.Now(),
	}

	if h.publisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Event publisher not configured"})
	}
	if err := h.publisher.Publish(c.UserContext(), evt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "Event Published", "event": evt})
}

// Broadcast sends a system-wide notification.
func (h *NotificationHandler) Broadcast(c *fiber.Ctx) error {
	type Request struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Title == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and Message are required"})
	}

	evt := events.BaseEvent{
		Type: "SYSTEM_BROADCAST",
		Data: map[string]interface{}{
			"title":   req.Title,
			"message": req.Message,
		},
		OccurredAt: time.Now(),
	}
	if h.publisher != nil {
		if err := h.publisher.Publish(c.UserContext(), evt); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"status": "Broadcast Queued"})
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Use(serverutils.JwtMiddleware)
	notif.Post("/broadcast", h.Broadcast)

	debug := router.Group("/debug")
	debug.Post("/trigger-notification", h.DebugTriggerEvent)

	router.Get("/ws", h.ServeWs)
}
