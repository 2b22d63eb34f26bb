package ui

import (
	"log"

	"github.com/gin-gonic/gin"

	"adept/adapters/excel"
	"adept/app"
)

// Server exposes the refiner and planner services over HTTP
type Server struct {
	router   *gin.Engine
	refiner  *app.RefinerService
	planner  *app.PlannerService
	exporter *excel.PortfolioExporter
}

// NewServer creates the web server and registers all routes
func NewServer(refiner *app.RefinerService, planner *app.PlannerService) *Server {
	s := &Server{
		router:   gin.Default(),
		refiner:  refiner,
		planner:  planner,
		exporter: excel.NewPortfolioExporter(),
	}
	s.setupRoutes()
	return s
}

// Router exposes the gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	// Refinement sessions
	api.POST("/sessions", s.handleCreateSession)
	api.GET("/sessions/:id", s.handleGetSession)
	api.DELETE("/sessions/:id", s.handleDiscardSession)
	api.POST("/sessions/:id/idea", s.handleSubmitIdea)
	api.PUT("/sessions/:id/answers", s.handleSetAnswer)
	api.POST("/sessions/:id/advance", s.handleAdvance)
	api.POST("/sessions/:id/back", s.handleBack)
	api.POST("/sessions/:id/spec", s.handleGenerateSpec)
	api.POST("/sessions/:id/accept", s.handleAccept)

	// Project portfolio
	api.GET("/projects", s.handleListProjects)
	api.GET("/projects/matrix", s.handleMatrix)
	api.GET("/projects/analytics", s.handleAnalytics)
	api.GET("/projects/export.xlsx", s.handleExport)
	api.GET("/projects/:id", s.handleGetProject)
	api.PATCH("/projects/:id", s.handleUpdateProject)
	api.DELETE("/projects/:id", s.handleDeleteProject)
	api.GET("/projects/:id/spec.md", s.handleSpecMarkdown)
	api.GET("/projects/:id/spec.html", s.handleSpecHTML)
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("Starting Adept UI on http://%s", addr)
	return s.router.Run(addr)
}
