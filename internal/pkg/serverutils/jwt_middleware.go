package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AgentMiddleware resolves the bearer token to {id, role} and admits only
// human agents. Token issuance lives in the platform's auth service; this
// side only verifies. Per the agent API contract every rejection is a 403.
func AgentMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return NewForbiddenError("Agent access required")
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return NewForbiddenError("Agent access required")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return NewForbiddenError("Agent access required")
	}

	role, _ := claims["role"].(string)
	if role != "admin" && role != "agent" {
		return NewForbiddenError("Agent access required")
	}

	ctx.Locals("agent_id", claims["user_id"])
	ctx.Locals("agent_name", claims["name"])
	return ctx.Next()
}
