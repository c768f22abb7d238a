package middleware

import (
	"strconv"

	"github.com/annotation-microservice/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// ActorKey is the locals key carrying the authenticated actor.
const ActorKey = "actor"

// Actor reads the identity asserted by the upstream auth proxy. An absent
// or malformed id leaves the actor anonymous; the usecases decide which
// operations that permits.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := domain.Actor{Role: domain.RoleViewer}

		if raw := c.Get("X-Actor-ID"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				actor.ID = id
			}
		}
		if role := c.Get("X-Actor-Role"); role != "" {
			actor.Role = role
		}
		actor.Name = c.Get("X-Actor-Name")

		c.Locals(ActorKey, actor)
		return c.Next()
	}
}

// ActorFromCtx extracts the actor stored by the Actor middleware.
func ActorFromCtx(c *fiber.Ctx) domain.Actor {
	actor, _ := c.Locals(ActorKey).(domain.Actor)
	return actor
}
