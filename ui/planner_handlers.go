package ui

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"adept/app"
	"adept/domain/core"
	"adept/internal/errors"
)

func projectID(c *gin.Context) (core.ProjectID, bool) {
	id, err := core.ParseProjectID(c.Param("id"))
	if err != nil {
		writeError(c, errors.InvalidInput("invalid project id"))
		return "", false
	}
	return id, true
}

func (s *Server) handleListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projects": s.planner.ListProjects()})
}

func (s *Server) handleGetProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	project, err := s.planner.GetProject(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var update app.ProjectUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		writeError(c, errors.InvalidInput("invalid request body"))
		return
	}

	project, err := s.planner.UpdateProject(c.Request.Context(), id, update)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	if err := s.planner.DeleteProject(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMatrix(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"points": s.planner.MatrixData()})
}

func (s *Server) handleAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, s.planner.PortfolioAnalytics())
}

func (s *Server) handleExport(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.exporter.Export(&buf, s.planner.ListProjects()); err != nil {
		log.Printf("[Server] Portfolio export failed: %v", err)
		writeError(c, errors.Wrap(err, "portfolio export failed"))
		return
	}

	filename := fmt.Sprintf("portfolio-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (s *Server) handleSpecMarkdown(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	project, err := s.planner.GetProject(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(SpecMarkdown(project.Spec)))
}

func (s *Server) handleSpecHTML(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	project, err := s.planner.GetProject(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(SpecHTML(project.Spec)))
}
