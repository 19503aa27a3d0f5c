package response

import "github.com/gin-gonic/gin"

const (
	ErrCodeSuccess      = 4001 // Success
	ErrCodeParamInvalid = 4003 // Request parameter invalid
	ErrCodeUnauthorized = 4010 // Credential missing, invalid or revoked
	ErrCodeForbidden    = 4030 // Not a member of the target group
	ErrCodeNotFound     = 4040 // Target does not exist
	ErrCodeRateLimited  = 4290 // Blocked by the chat rate limiter
	ErrCodeInternal     = 5000 // Internal error
)

var msg = map[int]string{
	ErrCodeSuccess:      "success",
	ErrCodeParamInvalid: "invalid request parameter",
	ErrCodeUnauthorized: "unauthorized",
	ErrCodeForbidden:    "forbidden",
	ErrCodeNotFound:     "not found",
	ErrCodeRateLimited:  "rate limited",
	ErrCodeInternal:     "internal error",
}

// Message returns the canonical text for a response code.
func Message(code int) string {
	return msg[code]
}

// OK writes a success body with data.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"code": ErrCodeSuccess, "message": msg[ErrCodeSuccess], "data": data})
}

// Error writes an error body. A detail overrides the canonical message.
func Error(c *gin.Context, status, code int, detail string) {
	message := msg[code]
	if detail != "" {
		message = detail
	}
	c.JSON(status, gin.H{"code": code, "message": message})
}
