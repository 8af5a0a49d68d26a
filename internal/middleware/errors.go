package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/gamehub-dev/gamehub/internal/apperr"
)

// Errors is the boundary error handler: handlers push errors onto the gin
// context and this middleware maps the first one to a status code and a JSON
// body, logging server-side failures in full.
func Errors() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 {
			return
		}

		err := ctx.Errors[0].Err
		status := apperr.Status(err)

		event := log.Warn()

		if status >= 500 {
			event = log.Error().Err(err)
		}

		event.
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", status).
			Msg(apperr.Message(err))

		if !ctx.Writer.Written() {
			ctx.JSON(status, gin.H{"error": apperr.Message(err)})
		}
	}
}
