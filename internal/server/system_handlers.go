package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/toruke/2tm1-ParkEase/internal/api"
	"github.com/toruke/2tm1-ParkEase/internal/auth"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// Metrics exposes prometheus metrics in text format.
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

type loginRequest struct {
	Operator string `json:"operator" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges the operator password for a bearer token.
func Login(operatorHash, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "operator and password are required"})
			return
		}

		if !auth.CheckPassword(operatorHash, req.Password) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid credentials"})
			return
		}

		token, err := auth.GenerateToken(req.Operator, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, loginResponse{Token: token})
	}
}
