package llm

import (
	"fmt"
	"strings"

	"github.com/friendlines/interview-api/internal/domain"
)

var languageNames = map[domain.Language]string{
	domain.LanguageEnglish: "English",
	domain.LanguageHebrew:  "Hebrew",
	domain.LanguageSpanish: "Spanish",
}

// LanguageName returns the display name used in prompts for a language code
func LanguageName(lang domain.Language) string {
	if name, ok := languageNames[lang]; ok {
		return name
	}
	return languageNames[domain.LanguageEnglish]
}

// BuildInterviewPrompt creates the system prompt for an interview turn
func BuildInterviewPrompt(ictx domain.InterviewContext) string {
	feedback := ""
	if ictx.Feedback != "" {
		feedback = fmt.Sprintf("\nThe user asked for this to be different from last time: %s\n", ictx.Feedback)
	}

	return fmt.Sprintf(`You are a friendly news reporter interviewing %s for their personal newsflash.

It is %s on a %s, and this is a %s interview. Ask questions in %s.
%s
Rules:
1. Ask exactly ONE short, warm question per turn
2. Work towards covering: who, what, when, where, why, emotion
3. Never repeat a question that was already answered
4. Set isDone to true once the story has enough facts for a headline
5. Report every dimension the conversation has covered so far in coveredDimensions`,
		ictx.UserName,
		ictx.TimeOfDay,
		ictx.DayOfWeek,
		ictx.InterviewType,
		LanguageName(ictx.Language),
		feedback,
	)
}

// BuildNewsflashPrompt creates the system prompt for draft generation. The
// transcript is embedded rather than sent as chat history.
func BuildNewsflashPrompt(ictx domain.InterviewContext, transcript string) string {
	feedback := ""
	if ictx.Feedback != "" {
		feedback = fmt.Sprintf("\nRegeneration feedback from the user: %s\n", ictx.Feedback)
	}

	return fmt.Sprintf(`You are a news editor writing a playful newsflash about %s's day.

Interview type: %s. Write headline and sub-headline in %s.
%s
Interview transcript:
%s

Produce a headline (max 100 characters), a sub-headline (max 200 characters),
a category and a severity for this story.`,
		ictx.UserName,
		ictx.InterviewType,
		LanguageName(ictx.Language),
		feedback,
		transcript,
	)
}

// RenderTranscript renders non-system turns as "Reporter:"/"User:" lines
// joined by newlines.
func RenderTranscript(history []domain.ChatMessage) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case domain.RoleAssistant:
			lines = append(lines, "Reporter: "+msg.Content)
		case domain.RoleUser:
			lines = append(lines, "User: "+msg.Content)
		}
	}
	return strings.Join(lines, "\n")
}

// FilterSystem strips system turns from a transcript before it is sent
// back to the model.
func FilterSystem(history []domain.ChatMessage) []domain.ChatMessage {
	filtered := make([]domain.ChatMessage, 0, len(history))
	for _, msg := range history {
		if msg.Role == domain.RoleSystem {
			continue
		}
		filtered = append(filtered, msg)
	}
	return filtered
}
