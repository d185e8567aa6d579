package server

import "github.com/gin-gonic/gin"

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, successResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}
