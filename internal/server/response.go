package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, api *apiError) {
	c.JSON(api.Status, Envelope{Success: false, Message: api.Message, Errors: api.Fields})
}
