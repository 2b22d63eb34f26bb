package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"adept/internal/errors"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

type questionPayload struct {
	ProblemVision []string `json:"problemVision"`
	ValueRisk     []string `json:"valueRisk"`
	DataReadiness []string `json:"dataReadiness"`
}

func questionSchema() *Schema {
	return ObjectSchema(map[string]*Schema{
		"problemVision": StringArraySchema(),
		"valueRisk":     StringArraySchema(),
		"dataReadiness": StringArraySchema(),
	}, []string{"problemVision", "valueRisk", "dataReadiness"})
}

// fakeGemini returns a server that responds to generateContent with the given
// status and candidate text.
func fakeGemini(t *testing.T, status int, candidateText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.URL.Path, ":generateContent")
		require.NotEmpty(t, r.Header.Get("x-goog-api-key"))

		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		if candidateText == "" {
			w.Write([]byte(`{"candidates":[]}`))
			return
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": candidateText}}}},
			},
		}
		writeJSON(t, w, resp)
	}))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestClient(baseURL string) *StructuredClient[questionPayload] {
	return NewStructuredClient[questionPayload]("test-key", baseURL, 5*time.Second)
}

func TestGetJsonResponse_ParsesFencedContent(t *testing.T) {
	body := "Here is the result.\n```json\n" +
		`{"problemVision":["q1","q2","q3"],"valueRisk":["q4"],"dataReadiness":["q5"]}` +
		"\n```"
	srv := fakeGemini(t, http.StatusOK, body)
	defer srv.Close()

	client := newTestClient(srv.URL)
	got, err := client.GetJsonResponse(context.Background(), GenerateRequest{
		Model:  "gemini-2.5-flash",
		Prompt: "idea",
		Schema: questionSchema(),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"q1", "q2", "q3"}, got.ProblemVision)
	require.Equal(t, []string{"q4"}, got.ValueRisk)
	require.Equal(t, []string{"q5"}, got.DataReadiness)
}

func TestGetJsonResponse_MissingCredentialFailsBeforeNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewStructuredClient[questionPayload]("", srv.URL, time.Second)
	_, err := client.GetJsonResponse(context.Background(), GenerateRequest{Model: "m", Prompt: "p"})
	require.Error(t, err)
	require.Equal(t, errors.CodeMissingCredential, errors.GetCode(err))
	require.False(t, called, "no network call should be attempted without a credential")
}

func TestGetJsonResponse_EmptyResponse(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, "")
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.GetJsonResponse(context.Background(), GenerateRequest{Model: "m", Prompt: "p"})
	require.Error(t, err)
	require.Equal(t, errors.CodeEmptyResponse, errors.GetCode(err))
}

func TestGetJsonResponse_MalformedContent(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, "I could not produce JSON, sorry.")
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.GetJsonResponse(context.Background(), GenerateRequest{Model: "m", Prompt: "p"})
	require.Error(t, err)
	require.Equal(t, errors.CodeMalformedResponse, errors.GetCode(err))
}

func TestGetJsonResponse_AuthError(t *testing.T) {
	srv := fakeGemini(t, http.StatusUnauthorized, "")
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.GetJsonResponse(context.Background(), GenerateRequest{Model: "m", Prompt: "p"})
	require.Error(t, err)
	require.Equal(t, errors.CodeAuthError, errors.GetCode(err))
}

func TestGetJsonResponse_ServiceUnavailable(t *testing.T) {
	srv := fakeGemini(t, http.StatusInternalServerError, "")
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.GetJsonResponse(context.Background(), GenerateRequest{Model: "m", Prompt: "p"})
	require.Error(t, err)
	require.Equal(t, errors.CodeServiceUnavailable, errors.GetCode(err))
}

// TestLiveQuestionGeneration exercises the real Gemini endpoint.
// Skipped unless GEMINI_API_KEY is available.
func TestLiveQuestionGeneration(t *testing.T) {
	if err := godotenv.Load("../.env"); err != nil {
		_ = godotenv.Load(".env")
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("Skipping live test: GEMINI_API_KEY not set")
	}

	client := NewStructuredClient[questionPayload](
		os.Getenv("GEMINI_API_KEY"),
		"https://generativelanguage.googleapis.com/v1beta",
		120*time.Second,
	)
	got, err := client.GetJsonResponse(context.Background(), GenerateRequest{
		Model:  "gemini-2.5-flash",
		Prompt: QuestionPrompt("An AI tool that helps sales teams prioritize leads", "English"),
		Schema: questionSchema(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, got.ProblemVision)
	require.NotEmpty(t, got.ValueRisk)
	require.NotEmpty(t, got.DataReadiness)
}
