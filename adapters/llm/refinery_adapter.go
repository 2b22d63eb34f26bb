package llm

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"adept/ai"
	"adept/domain/refine"
	"adept/internal/errors"
	"adept/ports"
)

// Config holds generative adapter configuration
type Config struct {
	APIKey         string
	BaseURL        string
	FlashModel     string // question generation
	ThinkingModel  string // specification generation when UseThinking is set
	ThinkingBudget int
	UseThinking    bool
	Language       string // output language for questions and specifications
	Timeout        time.Duration
}

// RefineryAdapter implements ports.RefineryPort against the Gemini API
type RefineryAdapter struct {
	config         Config
	questionClient *ai.StructuredClient[refine.QuestionSet]
	specClient     *ai.StructuredClient[refine.Specification]
}

// NewRefineryAdapter creates the adapter with one typed client per operation
func NewRefineryAdapter(config Config) *RefineryAdapter {
	if config.Language == "" {
		config.Language = "English"
	}
	return &RefineryAdapter{
		config:         config,
		questionClient: ai.NewStructuredClient[refine.QuestionSet](config.APIKey, config.BaseURL, config.Timeout),
		specClient:     ai.NewStructuredClient[refine.Specification](config.APIKey, config.BaseURL, config.Timeout),
	}
}

var _ ports.RefineryPort = (*RefineryAdapter)(nil)

// questionSchema declares the question-generation output shape
func questionSchema() *ai.Schema {
	return ai.ObjectSchema(map[string]*ai.Schema{
		"problemVision": ai.StringArraySchema(),
		"valueRisk":     ai.StringArraySchema(),
		"dataReadiness": ai.StringArraySchema(),
	}, []string{"problemVision", "valueRisk", "dataReadiness"})
}

// specSchema declares the specification output shape
func specSchema() *ai.Schema {
	return ai.ObjectSchema(map[string]*ai.Schema{
		"title":                   ai.StringSchema(),
		"problem":                 ai.StringSchema(),
		"vision":                  ai.StringSchema(),
		"userStories":             ai.StringArraySchema(),
		"acceptanceCriteria":      ai.StringArraySchema(),
		"techStackRecommendation": ai.StringSchema(),
		"riskAnalysis":            ai.StringSchema(),
	}, []string{"title", "problem", "vision", "userStories", "acceptanceCriteria", "techStackRecommendation", "riskAnalysis"})
}

// GenerateQuestions derives the three-category question set for a raw idea
func (a *RefineryAdapter) GenerateQuestions(ctx context.Context, rawIdea string) (*refine.QuestionSet, error) {
	log.Printf("[RefineryAdapter] Generating questions - model=%s, ideaLength=%d", a.config.FlashModel, len(rawIdea))

	questions, err := a.questionClient.GetJsonResponse(ctx, ai.GenerateRequest{
		Model:  a.config.FlashModel,
		Prompt: ai.QuestionPrompt(rawIdea, a.config.Language),
		Schema: questionSchema(),
	})
	if err != nil {
		return nil, err
	}

	// The declared schema is a request, not a guarantee: re-validate presence
	if err := questions.Validate(); err != nil {
		log.Printf("[RefineryAdapter] Question set failed contract check: %v", err)
		return nil, errors.MalformedResponse(err)
	}

	log.Printf("[RefineryAdapter] Question set generated - counts: %d/%d/%d",
		len(questions.ProblemVision), len(questions.ValueRisk), len(questions.DataReadiness))
	return questions, nil
}

// GenerateSpecification synthesizes the final specification from the idea and
// answers. The full AnswerSet is serialized into the prompt, empty categories
// included, so sparse input is presented to the model verbatim.
func (a *RefineryAdapter) GenerateSpecification(ctx context.Context, rawIdea string, answers refine.AnswerSet) (*refine.Specification, error) {
	answersJSON, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize answers")
	}

	model := a.config.FlashModel
	thinking := false
	if a.config.UseThinking {
		model = a.config.ThinkingModel
		thinking = true
	}
	log.Printf("[RefineryAdapter] Generating specification - model=%s, answers=%d", model, answers.Count())

	spec, err := a.specClient.GetJsonResponse(ctx, ai.GenerateRequest{
		Model:          model,
		Prompt:         ai.SpecPrompt(rawIdea, string(answersJSON), a.config.Language),
		Schema:         specSchema(),
		Thinking:       thinking,
		ThinkingBudget: a.config.ThinkingBudget,
	})
	if err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		log.Printf("[RefineryAdapter] Specification failed contract check: %v", err)
		return nil, errors.MalformedResponse(err)
	}

	log.Printf("[RefineryAdapter] Specification generated - title=%q", spec.Title)
	return spec, nil
}
