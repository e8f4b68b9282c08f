package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DB returns db bound to a context of c that expires after timeout seconds.
// A timeout of zero or less only binds the request context.
func DB(c *fiber.Ctx, db *gorm.DB, timeout int) (*gorm.DB, context.CancelFunc) {
	if timeout <= 0 {
		return db.WithContext(c.UserContext()), func() {}
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), time.Duration(timeout)*time.Second)

	return db.WithContext(ctx), cancel
}
