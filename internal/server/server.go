package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toruke/2tm1-ParkEase/internal/auth"
	"github.com/toruke/2tm1-ParkEase/internal/config"
	"github.com/toruke/2tm1-ParkEase/internal/facility"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

func New(svc *facility.Service, cfg *config.Config) (*Server, error) {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	operatorHash, err := auth.HashPassword(cfg.OperatorPassword)
	if err != nil {
		return nil, err
	}

	h := facility.NewHandler(svc)

	router.POST("/auth/login", Login(operatorHash, cfg.JWTSecret))
	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/spaces", h.Spaces)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(RateLimitMiddleware(20, 40), authMiddleware)
	{
		protected.POST("/vehicles/:plate", h.Register)
		protected.POST("/vehicles/:plate/checkin", h.CheckIn)
		protected.POST("/vehicles/:plate/checkout", h.CheckOut)
		protected.GET("/vehicles/:plate/subscription", h.GetSubscription)
		protected.POST("/vehicles/:plate/subscription", h.Subscribe)
		protected.POST("/vehicles/:plate/subscription/extend", h.ExtendSubscription)
		protected.GET("/report", h.Report)
	}

	return &Server{
		router: router,
		config: cfg,
	}, nil
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
