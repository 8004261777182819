package llm

import (
	"testing"

	"github.com/friendlines/interview-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testContext() domain.InterviewContext {
	return domain.InterviewContext{
		TimeOfDay:     domain.TimeMorning,
		DayOfWeek:     "Tuesday",
		InterviewType: domain.InterviewDaily,
		UserName:      "Ava",
		Language:      domain.LanguageEnglish,
	}
}

func TestBuildInterviewPrompt(t *testing.T) {
	t.Run("embeds the full context", func(t *testing.T) {
		prompt := BuildInterviewPrompt(testContext())

		assert.Contains(t, prompt, "interviewing Ava")
		assert.Contains(t, prompt, "It is morning on a Tuesday")
		assert.Contains(t, prompt, "daily interview")
		assert.Contains(t, prompt, "Ask questions in English")
		assert.NotContains(t, prompt, "different from last time")
	})

	t.Run("includes feedback when present", func(t *testing.T) {
		ictx := testContext()
		ictx.Feedback = "shorter questions please"

		prompt := BuildInterviewPrompt(ictx)
		assert.Contains(t, prompt, "different from last time: shorter questions please")
	})

	t.Run("localizes the language name", func(t *testing.T) {
		ictx := testContext()
		ictx.Language = domain.LanguageHebrew

		assert.Contains(t, BuildInterviewPrompt(ictx), "Ask questions in Hebrew")
	})
}

func TestBuildNewsflashPrompt(t *testing.T) {
	ictx := testContext()
	transcript := "Reporter: What happened today?\nUser: I ran a 5k"

	prompt := BuildNewsflashPrompt(ictx, transcript)
	assert.Contains(t, prompt, "about Ava's day")
	assert.Contains(t, prompt, transcript)
	assert.Contains(t, prompt, "max 100 characters")
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", LanguageName(domain.LanguageEnglish))
	assert.Equal(t, "Hebrew", LanguageName(domain.LanguageHebrew))
	assert.Equal(t, "Spanish", LanguageName(domain.LanguageSpanish))
	assert.Equal(t, "English", LanguageName(domain.Language("fr")))
}

func TestRenderTranscript(t *testing.T) {
	history := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "you are a reporter"},
		{Role: domain.RoleAssistant, Content: "What happened today?"},
		{Role: domain.RoleUser, Content: "I ran a 5k"},
	}

	got := RenderTranscript(history)
	assert.Equal(t, "Reporter: What happened today?\nUser: I ran a 5k", got)
}

func TestFilterSystem(t *testing.T) {
	history := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "you are a reporter"},
		{Role: domain.RoleAssistant, Content: "Q"},
		{Role: domain.RoleUser, Content: "A"},
	}

	filtered := FilterSystem(history)
	assert.Equal(t, []domain.ChatMessage{
		{Role: domain.RoleAssistant, Content: "Q"},
		{Role: domain.RoleUser, Content: "A"},
	}, filtered)
}

func TestInterviewTurnSchema(t *testing.T) {
	schema := InterviewTurnSchema()

	assert.Equal(t, false, schema["additionalProperties"])
	assert.ElementsMatch(t, []string{"question", "isDone", "coveredDimensions"}, schema["required"])

	props := schema["properties"].(map[string]any)
	covered := props["coveredDimensions"].(map[string]any)
	items := covered["items"].(map[string]any)
	assert.Equal(t, []string{"who", "what", "when", "where", "why", "emotion"}, items["enum"])
}

func TestNewsflashDraftSchema(t *testing.T) {
	schema := NewsflashDraftSchema()

	assert.Equal(t, false, schema["additionalProperties"])
	assert.ElementsMatch(t, []string{"headline", "subHeadline", "category", "severity"}, schema["required"])

	props := schema["properties"].(map[string]any)
	assert.Equal(t,
		[]string{"GENERAL", "SOCIAL", "SPORTS", "FOOD", "TRAVEL", "WORK", "ENTERTAINMENT"},
		props["category"].(map[string]any)["enum"])
	assert.Equal(t,
		[]string{"STANDARD", "BREAKING", "DEVELOPING"},
		props["severity"].(map[string]any)["enum"])
}
