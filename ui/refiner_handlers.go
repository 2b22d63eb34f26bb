package ui

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"adept/domain/core"
	"adept/domain/refine"
	"adept/internal/errors"
)

// sessionView is the wire shape of a refinement session. Stage travels as its
// name rather than its ordinal.
type sessionView struct {
	ID        string                `json:"id"`
	Stage     string                `json:"stage"`
	RawIdea   string                `json:"rawIdea"`
	Busy      bool                  `json:"busy"`
	Questions refine.QuestionSet    `json:"questions"`
	Answers   refine.AnswerSet      `json:"answers"`
	Result    *refine.Specification `json:"result,omitempty"`
}

func toSessionView(s refine.Session) sessionView {
	return sessionView{
		ID:        string(s.ID),
		Stage:     s.Stage.String(),
		RawIdea:   s.RawIdea,
		Busy:      s.Busy,
		Questions: s.Questions,
		Answers:   s.Answers,
		Result:    s.Result,
	}
}

func sessionID(c *gin.Context) (core.SessionID, bool) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		writeError(c, errors.InvalidInput("invalid session id"))
		return "", false
	}
	return id, true
}

func (s *Server) handleCreateSession(c *gin.Context) {
	session := s.refiner.CreateSession()
	c.JSON(http.StatusCreated, toSessionView(session))
}

func (s *Server) handleGetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	session, err := s.refiner.GetSession(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(session))
}

func (s *Server) handleDiscardSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s.refiner.DiscardSession(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSubmitIdea(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		RawIdea string `json:"rawIdea"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("invalid request body"))
		return
	}

	session, err := s.refiner.SubmitIdea(c.Request.Context(), id, req.RawIdea)
	if err != nil {
		log.Printf("[Server] Idea submission failed for session %s: %v", id, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(session))
}

func (s *Server) handleSetAnswer(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		Category string `json:"category"`
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("invalid request body"))
		return
	}
	category, err := refine.ParseCategory(req.Category)
	if err != nil {
		writeError(c, errors.InvalidInput(err.Error()))
		return
	}

	session, err := s.refiner.SetAnswer(id, category, req.Question, req.Answer)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(session))
}

func (s *Server) handleAdvance(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	session, err := s.refiner.Advance(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(session))
}

func (s *Server) handleBack(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	session, err := s.refiner.Back(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(session))
}

func (s *Server) handleGenerateSpec(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	session, err := s.refiner.GenerateSpecification(c.Request.Context(), id)
	if err != nil {
		log.Printf("[Server] Specification generation failed for session %s: %v", id, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(session))
}

func (s *Server) handleAccept(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	project, err := s.refiner.Accept(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}
