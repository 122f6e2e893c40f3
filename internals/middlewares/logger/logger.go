package logger

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware untuk mencatat semua request (access log)
func LoggerMiddleware(out io.Writer) fiber.Handler {
	if out == nil {
		out = os.Stdout
	}
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Format:     "[${time}] ${ip} - ${method} ${path} action=${query:action} type=${query:type} - ${status} - ${latency} - ${locals:reqid}\n",
		Output:     out,
	})
}
