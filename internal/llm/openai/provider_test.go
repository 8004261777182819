package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/friendlines/interview-api/internal/config"
	"github.com/friendlines/interview-api/internal/domain"
	"github.com/friendlines/interview-api/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(serverURL string) *Provider {
	return NewProvider(config.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
	})
}

func interviewContext() domain.InterviewContext {
	return domain.InterviewContext{
		TimeOfDay:     domain.TimeMorning,
		DayOfWeek:     "Tuesday",
		InterviewType: domain.InterviewDaily,
		UserName:      "Ava",
		Language:      domain.LanguageEnglish,
	}
}

func chatReply(t *testing.T, w http.ResponseWriter, content any) {
	t.Helper()
	raw, err := json.Marshal(content)
	require.NoError(t, err)

	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": string(raw)}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestProvider_ContinueInterview(t *testing.T) {
	t.Run("sends strict schema and parses the turn", func(t *testing.T) {
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			chatReply(t, w, map[string]any{
				"question":          "What happened today?",
				"isDone":            false,
				"coveredDimensions": []string{"what"},
			})
		}))
		defer server.Close()

		p := testProvider(server.URL)
		turn, err := p.ContinueInterview(context.Background(), nil, interviewContext())
		require.NoError(t, err)

		assert.Equal(t, "What happened today?", turn.Question)
		assert.False(t, turn.IsDone)
		assert.Equal(t, []domain.InterviewDimension{domain.DimensionWhat}, turn.CoveredDimensions)

		assert.Equal(t, "gpt-4o-mini", captured["model"])
		format := captured["response_format"].(map[string]any)
		assert.Equal(t, "json_schema", format["type"])
		jsonSchema := format["json_schema"].(map[string]any)
		assert.Equal(t, llm.SchemaInterviewTurn, jsonSchema["name"])
		assert.Equal(t, true, jsonSchema["strict"])
		schema := jsonSchema["schema"].(map[string]any)
		assert.Equal(t, false, schema["additionalProperties"])

		// First message is the synthesized system prompt
		messages := captured["messages"].([]any)
		first := messages[0].(map[string]any)
		assert.Equal(t, "system", first["role"])
		assert.Contains(t, first["content"], "interviewing Ava")
	})

	t.Run("forwards history without stored system turns", func(t *testing.T) {
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			chatReply(t, w, map[string]any{
				"question": "Q2", "isDone": false, "coveredDimensions": []string{},
			})
		}))
		defer server.Close()

		history := []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: "stale system turn"},
			{Role: domain.RoleAssistant, Content: "What happened today?"},
			{Role: domain.RoleUser, Content: "I ran a 5k"},
		}

		p := testProvider(server.URL)
		_, err := p.ContinueInterview(context.Background(), history, interviewContext())
		require.NoError(t, err)

		messages := captured["messages"].([]any)
		require.Len(t, messages, 3)
		assert.Equal(t, "assistant", messages[1].(map[string]any)["role"])
		assert.Equal(t, "user", messages[2].(map[string]any)["role"])
	})

	t.Run("non-2xx maps to a provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		p := testProvider(server.URL)
		_, err := p.ContinueInterview(context.Background(), nil, interviewContext())
		require.Error(t, err)
		assert.Equal(t, domain.KindProvider, domain.KindOf(err))
		assert.Equal(t, "language model returned status 500", err.Error())
	})

	t.Run("empty choices map to a provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer server.Close()

		p := testProvider(server.URL)
		_, err := p.ContinueInterview(context.Background(), nil, interviewContext())
		require.Error(t, err)
		assert.Equal(t, domain.KindProvider, domain.KindOf(err))
	})

	t.Run("deadline exceeded maps to a provider timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Drain the body so the server can detect the client
			// disconnect and unblock the context.
			io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		p := testProvider(server.URL)
		_, err := p.ContinueInterview(ctx, nil, interviewContext())
		require.Error(t, err)
		assert.Equal(t, domain.KindProviderTimeout, domain.KindOf(err))
	})

	t.Run("unparseable content maps to a provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": "not json"}},
				},
			})
		}))
		defer server.Close()

		p := testProvider(server.URL)
		_, err := p.ContinueInterview(context.Background(), nil, interviewContext())
		require.Error(t, err)
		assert.Equal(t, domain.KindProvider, domain.KindOf(err))
	})
}

func TestProvider_GenerateNewsflash(t *testing.T) {
	t.Run("embeds the transcript and parses the draft", func(t *testing.T) {
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			chatReply(t, w, map[string]any{
				"headline":    "Ava conquers the 5k",
				"subHeadline": "A morning run turns triumphant",
				"category":    "SPORTS",
				"severity":    "STANDARD",
			})
		}))
		defer server.Close()

		history := []domain.ChatMessage{
			{Role: domain.RoleAssistant, Content: "What happened today?"},
			{Role: domain.RoleUser, Content: "I ran a 5k"},
		}

		p := testProvider(server.URL)
		draft, err := p.GenerateNewsflash(context.Background(), history, interviewContext())
		require.NoError(t, err)

		assert.Equal(t, &domain.NewsflashDraft{
			Headline:    "Ava conquers the 5k",
			SubHeadline: "A morning run turns triumphant",
			Category:    domain.CategorySports,
			Severity:    domain.SeverityStandard,
		}, draft)

		assert.Equal(t, "gpt-4o", captured["model"])
		jsonSchema := captured["response_format"].(map[string]any)["json_schema"].(map[string]any)
		assert.Equal(t, llm.SchemaNewsflashDraft, jsonSchema["name"])

		messages := captured["messages"].([]any)
		system := messages[0].(map[string]any)["content"].(string)
		assert.Contains(t, system, "Reporter: What happened today?")
		assert.Contains(t, system, "User: I ran a 5k")
	})
}

func TestProvider_IsConfigured(t *testing.T) {
	assert.True(t, NewProvider(config.OpenAIConfig{APIKey: "k"}).IsConfigured())
	assert.False(t, NewProvider(config.OpenAIConfig{}).IsConfigured())
}
