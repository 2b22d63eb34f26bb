package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"adept/domain/refine"
	"adept/internal/errors"

	"github.com/stretchr/testify/require"
)

// geminiStub serves canned candidate text and records the last request body.
type geminiStub struct {
	t        *testing.T
	text     string
	lastBody map[string]any
}

func (g *geminiStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g.lastBody = map[string]any{}
		require.NoError(g.t, json.NewDecoder(r.Body).Decode(&g.lastBody))
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": g.text}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(g.t, json.NewEncoder(w).Encode(resp))
	}
}

func newAdapter(baseURL string, useThinking bool) *RefineryAdapter {
	return NewRefineryAdapter(Config{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		FlashModel:     "gemini-2.5-flash",
		ThinkingModel:  "gemini-3-pro-preview",
		ThinkingBudget: 32768,
		UseThinking:    useThinking,
		Language:       "English",
		Timeout:        5 * time.Second,
	})
}

func TestGenerateQuestions_DeclaresSchemaAndValidates(t *testing.T) {
	stub := &geminiStub{t: t, text: `{"problemVision":["a","b","c"],"valueRisk":["d"],"dataReadiness":["e","f"]}`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	adapter := newAdapter(srv.URL, false)
	qs, err := adapter.GenerateQuestions(context.Background(), "We need a chatbot")
	require.NoError(t, err)
	require.Len(t, qs.ProblemVision, 3)
	require.Len(t, qs.ValueRisk, 1) // variable counts are tolerated
	require.Len(t, qs.DataReadiness, 2)

	// The declared output schema rides along with the request
	genCfg := stub.lastBody["generationConfig"].(map[string]any)
	require.Equal(t, "application/json", genCfg["responseMimeType"])
	schema := genCfg["responseSchema"].(map[string]any)
	require.ElementsMatch(t, []any{"problemVision", "valueRisk", "dataReadiness"}, schema["required"])

	// Prompt carries the raw idea
	contents := stub.lastBody["contents"].([]any)
	part := contents[0].(map[string]any)["parts"].([]any)[0].(map[string]any)
	require.Contains(t, part["text"], "We need a chatbot")
}

func TestGenerateQuestions_MissingCategoryIsMalformed(t *testing.T) {
	stub := &geminiStub{t: t, text: `{"problemVision":["a"],"valueRisk":["b"]}`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	adapter := newAdapter(srv.URL, false)
	_, err := adapter.GenerateQuestions(context.Background(), "idea")
	require.Error(t, err)
	require.Equal(t, errors.CodeMalformedResponse, errors.GetCode(err))
}

func validSpecJSON() string {
	spec := refine.Specification{
		Title:                   "Lead Prioritizer",
		Problem:                 "Sales teams waste time on cold leads.",
		Vision:                  "Double conversion by ranking leads.",
		UserStories:             []string{"As a rep I want ranked leads, so that I call the hottest first."},
		AcceptanceCriteria:      []string{"Ranking precision above 80%"},
		TechStackRecommendation: "FastAPI, LangChain, Pinecone",
		RiskAnalysis:            "CRM data bias may skew rankings.",
	}
	b, _ := json.Marshal(spec)
	return string(b)
}

func TestGenerateSpecification_EmptyAnswersAreValidInput(t *testing.T) {
	stub := &geminiStub{t: t, text: validSpecJSON()}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	adapter := newAdapter(srv.URL, false)
	spec, err := adapter.GenerateSpecification(context.Background(), "idea", refine.NewAnswerSet())
	require.NoError(t, err)
	require.NoError(t, spec.Validate())

	// Empty category maps are serialized into the prompt, not dropped
	contents := stub.lastBody["contents"].([]any)
	text := contents[0].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"].(string)
	require.Contains(t, text, `"problemVision": {}`)
	require.Contains(t, text, `"dataReadiness": {}`)
}

func TestGenerateSpecification_AnswersReachThePrompt(t *testing.T) {
	stub := &geminiStub{t: t, text: validSpecJSON()}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	answers := refine.NewAnswerSet()
	answers.Set(refine.CategoryProblemVision, "Who is the user?", "Sales reps")

	adapter := newAdapter(srv.URL, false)
	_, err := adapter.GenerateSpecification(context.Background(), "idea", answers)
	require.NoError(t, err)

	contents := stub.lastBody["contents"].([]any)
	text := contents[0].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"].(string)
	require.True(t, strings.Contains(text, "Who is the user?") && strings.Contains(text, "Sales reps"))
}

func TestGenerateSpecification_ThinkingModelAndBudget(t *testing.T) {
	stub := &geminiStub{t: t, text: validSpecJSON()}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	adapter := newAdapter(srv.URL, true)
	_, err := adapter.GenerateSpecification(context.Background(), "idea", refine.NewAnswerSet())
	require.NoError(t, err)

	genCfg := stub.lastBody["generationConfig"].(map[string]any)
	thinking := genCfg["thinkingConfig"].(map[string]any)
	require.EqualValues(t, 32768, thinking["thinkingBudget"])
}

func TestGenerateSpecification_PartialSpecIsMalformed(t *testing.T) {
	stub := &geminiStub{t: t, text: `{"title":"x","problem":"y"}`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	adapter := newAdapter(srv.URL, false)
	_, err := adapter.GenerateSpecification(context.Background(), "idea", refine.NewAnswerSet())
	require.Error(t, err)
	require.Equal(t, errors.CodeMalformedResponse, errors.GetCode(err))
}
