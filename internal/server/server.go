// Package server assembles the gin router and the HTTP server around it.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/medvoyage/community-backend/internal/cache"
	"github.com/medvoyage/community-backend/internal/config"
	"github.com/medvoyage/community-backend/internal/database"
	"github.com/medvoyage/community-backend/internal/handlers"
	"github.com/medvoyage/community-backend/internal/middleware"
	"github.com/medvoyage/community-backend/internal/store"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
}

// New wires the handler stack around the given backend. db may be nil when
// the memory backend is active.
func New(cfg *config.Config, st store.Store, db database.Service, trending *cache.Trending) *http.Server {
	s := &Server{
		cfg:     cfg,
		db:      db,
		handler: handlers.New(st, trending, cfg),
	}

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes.
func (s *Server) RegisterRoutes() *gin.Engine {
	if s.cfg.Server.Mode != "" {
		gin.SetMode(s.cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(rate.Limit(20), 40))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.Server.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Register)
		api.POST("/login", s.handler.Login)

		// Public reads
		api.GET("/questions", s.handler.ListQuestions)
		api.GET("/questions/:id", s.handler.GetQuestion)
		api.GET("/posts", s.handler.ListPosts)
		api.GET("/posts/:id", s.handler.GetPost)
		api.GET("/posts/:id/comments", s.handler.ListPostComments)
		api.GET("/answers/:id/comments", s.handler.ListAnswerComments)
		api.GET("/categories", s.handler.ListCategories)
		api.GET("/categories/trending", s.handler.TrendingCategories)
		api.GET("/categories/:slug", s.handler.GetCategory)
		api.GET("/communities", s.handler.ListCommunities)
		api.GET("/communities/:slug", s.handler.GetCommunity)
		api.GET("/polls", s.handler.ListPolls)
		api.GET("/polls/:id", s.handler.GetPoll)
		api.GET("/users/:username", s.handler.GetProfile)

		// Tallies include the caller's own vote when a token is present.
		api.GET("/votes/:type/:id",
			middleware.OptionalAuth(s.cfg.JWT.Secret), s.handler.GetVoteTally)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.cfg.JWT.Secret))
		{
			protected.GET("/me", s.handler.Me)

			protected.POST("/questions", s.handler.CreateQuestion)
			protected.DELETE("/questions/:id", s.handler.DeleteQuestion)
			protected.POST("/questions/:id/close", s.handler.CloseQuestion)
			protected.POST("/questions/:id/answers", s.handler.CreateAnswer)
			protected.POST("/questions/:id/answers/:answerId/accept", s.handler.AcceptAnswer)
			protected.DELETE("/answers/:id", s.handler.DeleteAnswer)

			protected.POST("/posts", s.handler.CreatePost)
			protected.DELETE("/posts/:id", s.handler.DeletePost)
			protected.POST("/posts/:id/report", s.handler.ReportPost)

			protected.POST("/comments", s.handler.CreateComment)
			protected.DELETE("/comments/:id", s.handler.DeleteComment)
			protected.POST("/comments/:id/report", s.handler.ReportComment)

			protected.POST("/votes", s.handler.CastVote)

			protected.POST("/categories", s.handler.CreateCategory)
			protected.POST("/communities", s.handler.CreateCommunity)

			protected.POST("/polls", s.handler.CreatePoll)
			protected.POST("/polls/:id/vote", s.handler.VotePoll)
		}
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": "memory"})
		return
	}
	c.JSON(http.StatusOK, s.db.Health())
}
