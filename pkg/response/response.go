package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the uniform failure payload. Details carries per-field
// validation messages and is omitted otherwise.
type ErrorBody struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ListMeta describes a page of a filtered listing.
type ListMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// JSON writes an arbitrary success body.
func JSON(c *gin.Context, status int, body interface{}) {
	c.JSON(status, body)
}

// Data writes a {"data": ...} body.
func Data(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

// DataMeta writes a {"data": ..., "meta": ...} body.
func DataMeta(c *gin.Context, status int, data interface{}, meta interface{}) {
	c.JSON(status, gin.H{"data": data, "meta": meta})
}

// Message writes a {"message": ...} body.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// Fail writes the uniform error body.
func Fail(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorBody{Message: message, Details: details})
}

// AbortFail writes the error body and stops the handler chain.
func AbortFail(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorBody{Message: message, Details: details})
}
