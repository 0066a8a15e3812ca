package utils

import (
	"github.com/gin-gonic/gin"
)

// Success bodies are {"data": ...}, failures {"error": "..."}.
type DataResponse struct {
	Data interface{} `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// DataRequest is the {"data": {...}} envelope every write body uses.
type DataRequest[T any] struct {
	Data T `json:"data"`
}

func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, DataResponse{Data: data})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

func AbortWithError(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: err.Error()})
}
