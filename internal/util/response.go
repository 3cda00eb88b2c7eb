package util

import (
	"github.com/gin-gonic/gin"
)

// Business error codes carried alongside the HTTP status in error bodies.
const (
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// Error sends a non-2xx JSON error body. Every error response carries a
// message field; a 200 status is never paired with one.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}
