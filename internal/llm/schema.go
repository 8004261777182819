package llm

import "github.com/friendlines/interview-api/internal/domain"

// Schema names requested from structured-output backends
const (
	SchemaInterviewTurn  = "interview_turn"
	SchemaNewsflashDraft = "newsflash_draft"
)

// Dimensions is the closed set of facts an interview elicits. The order
// here is the order the schemas advertise.
var Dimensions = []domain.InterviewDimension{
	domain.DimensionWho,
	domain.DimensionWhat,
	domain.DimensionWhen,
	domain.DimensionWhere,
	domain.DimensionWhy,
	domain.DimensionEmotion,
}

// Categories is the closed category set for drafts
var Categories = []domain.NewsflashCategory{
	domain.CategoryGeneral,
	domain.CategorySocial,
	domain.CategorySports,
	domain.CategoryFood,
	domain.CategoryTravel,
	domain.CategoryWork,
	domain.CategoryEntertainment,
}

// Severities is the closed severity set for drafts
var Severities = []domain.NewsflashSeverity{
	domain.SeverityStandard,
	domain.SeverityBreaking,
	domain.SeverityDeveloping,
}

// InterviewTurnSchema is the JSON schema constraining ContinueInterview
// responses. TurnResult must unmarshal anything this schema admits; keep the
// two in lockstep.
func InterviewTurnSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The next interview question to ask the user.",
			},
			"isDone": map[string]any{
				"type":        "boolean",
				"description": "True once enough facts are covered to write the newsflash.",
			},
			"coveredDimensions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "enum": enumStrings(Dimensions)},
			},
		},
		"required":             []string{"question", "isDone", "coveredDimensions"},
		"additionalProperties": false,
	}
}

// NewsflashDraftSchema is the JSON schema constraining GenerateNewsflash
// responses, mirroring domain.NewsflashDraft.
func NewsflashDraftSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "Punchy news-style headline, at most 100 characters.",
			},
			"subHeadline": map[string]any{
				"type":        "string",
				"description": "One-sentence sub-headline, at most 200 characters.",
			},
			"category": map[string]any{"type": "string", "enum": enumStrings(Categories)},
			"severity": map[string]any{"type": "string", "enum": enumStrings(Severities)},
		},
		"required":             []string{"headline", "subHeadline", "category", "severity"},
		"additionalProperties": false,
	}
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
