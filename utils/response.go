package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse is the envelope of the health endpoint.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope with code 0.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, JSONResponse{Code: 0, Message: "success", Data: data})
}
