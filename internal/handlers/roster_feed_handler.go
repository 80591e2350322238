package handlers

import (
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/middleware"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
	rosterws "github.com/prof-ashleyevans/os-strength-checkin-app/internal/websocket"
	"github.com/prof-ashleyevans/os-strength-checkin-app/pkg/utils"
)

type RosterFeedHandler struct {
	hub       *rosterws.Hub
	jwtSecret string
}

func NewRosterFeedHandler(hub *rosterws.Hub, jwtSecret string) *RosterFeedHandler {
	return &RosterFeedHandler{hub: hub, jwtSecret: jwtSecret}
}

// WebSocketAuth accepts the admin token from the Authorization header or,
// for browsers that cannot set headers on upgrades, the token query param.
func (h *RosterFeedHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	token, ok := middleware.BearerToken(c)
	if !ok {
		token = strings.TrimSpace(c.Query("token"))
	}

	claims, err := utils.ValidateToken(token, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	if claims.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	middleware.SetClaims(c, claims)
	return c.Next()
}

func (h *RosterFeedHandler) HandleWebSocket(conn *websocket.Conn) {
	var userID string
	if claims, ok := conn.Locals(middleware.ClaimsLocal).(*utils.Claims); ok {
		userID = claims.UserID
	}
	client := rosterws.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}
