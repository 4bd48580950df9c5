package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"minutes/internal/app/model"
	"minutes/internal/config"
)

// NoTranscriptSummary is returned without calling the provider when there is
// nothing to summarize.
const NoTranscriptSummary = "No transcript available to summarize."

// MeetingSummarizer generates meeting minutes through a chat-completion model.
type MeetingSummarizer struct {
	client  *openai.Client
	model   string
	prompts config.Prompts
}

// NewMeetingSummarizer creates a summarizer using the given chat model and
// prompt set.
func NewMeetingSummarizer(client *openai.Client, textModel string, prompts config.Prompts) *MeetingSummarizer {
	if prompts == nil {
		prompts = config.DefaultPrompts()
	}
	return &MeetingSummarizer{client: client, model: textModel, prompts: prompts}
}

// Summarize produces a summary of the transcript. Speaker descriptions, when
// present, are appended to the user message so the model can attribute
// statements.
func (s *MeetingSummarizer) Summarize(ctx context.Context, transcript string, speakers []model.Speaker, language string, temperature float32) (string, error) {
	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" || trimmed == "(No speech detected or transcription empty)" {
		return NoTranscriptSummary, nil
	}

	content := "Transcription:\n" + transcript + "\n----" + speakerInfo(speakers)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.prompts.For(language)},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarization error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summarization returned no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "(Summary generation failed or produced empty result)", nil
	}
	return summary, nil
}

func speakerInfo(speakers []model.Speaker) string {
	var lines []string
	for _, sp := range speakers {
		if strings.TrimSpace(sp.Description) == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("Speaker %s: %s", sp.Speaker, sp.Description))
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n\nSpeaker Information:\n" + strings.Join(lines, "\n")
}
