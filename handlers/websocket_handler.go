package handlers

import (
	"errors"
	"fmt"
	"time"

	config "github.com/anjiri1684/course_platform/configs"
	"github.com/anjiri1684/course_platform/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const authFrameTimeout = 10 * time.Second

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// ServeWs authenticates the first frame and then keeps the connection
// registered with the hub until the client goes away. Clients only receive.
func ServeWs(c *websocketcontrib.Conn) {
	_ = c.SetReadDeadline(time.Now().Add(authFrameTimeout))

	var authMsg wsAuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		log.Warn().Err(err).Str("type", authMsg.Type).Msg("websocket auth failed: invalid or missing auth message")
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		log.Warn().Err(err).Msg("websocket auth failed: invalid token")
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		log.Warn().Err(err).Interface("user_id", claims["user_id"]).Msg("websocket auth failed: invalid user_id")
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		c.Close()
		return
	}
	_ = c.SetReadDeadline(time.Time{})

	// the hub owns writes once the client is registered
	_ = c.WriteJSON(fiber.Map{"type": "authenticated"})
	client := &websocket.Client{UserID: userID, Conn: c}
	websocket.Register <- client
	log.Info().Str("user_id", userID.String()).Msg("websocket client authenticated")
	defer func() {
		websocket.Unregister <- client
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Debug().Str("user_id", userID.String()).Msg("websocket closed")
			} else {
				log.Warn().Err(err).Str("user_id", userID.String()).Msg("websocket read error")
			}
			return
		}
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
