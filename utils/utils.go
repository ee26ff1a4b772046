package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fulfillment-ops/logger"
	"fulfillment-ops/models/user"
	"fulfillment-ops/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// credentialPaths carry plaintext passwords in their request body; the
// audit log must never store those verbatim.
var credentialPaths = map[string]bool{
	"/api/auth/login":           true,
	"/api/auth/change-password": true,
}

func loggableBody(path string, body []byte) string {
	if credentialPaths[path] {
		return "[redacted]"
	}
	return string(body)
}

// Respond writes the envelope and pushes an audit entry to the async
// request logger when one is wired.
func Respond(c *fiber.Ctx, async *logger.AsyncLogger, resp types.ApiResponse) error {
	if async != nil {
		userEmail := ""
		if u, ok := c.Locals("user").(*user.User); ok {
			userEmail = u.Email
		}
		async.Log(types.LogEntry{
			Method:       c.Method(),
			URL:          c.OriginalURL(),
			RequestBody:  loggableBody(c.Path(), c.Body()),
			StatusCode:   resp.Status,
			ResponseBody: resp.Message,
			UserEmail:    userEmail,
			CreatedAt:    time.Now(),
		})
	}
	return c.Status(resp.Status).JSON(resp)
}

// ParseUintParam reads a numeric path parameter.
func ParseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return uint(v), nil
}

// UploadDir returns the payment-proof storage directory, creating it when
// missing.
func UploadDir() (string, error) {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	return dir, nil
}

// SaveUpload stores a multipart file under a collision-free name and
// returns the stored path.
func SaveUpload(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	dir, err := UploadDir()
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + filepath.Ext(file.Filename)
	path := filepath.Join(dir, name)
	if err := c.SaveFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}
