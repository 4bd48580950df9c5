package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Prompts maps a language code to the system prompt used for summarization.
type Prompts map[string]string

const defaultEnglishPrompt = `You are an expert meeting assistant. Given a raw meeting transcript,
produce concise meeting minutes in Markdown with these sections:
## Attendees, ## Key Points, ## Decisions, ## Action Items.
Attribute statements to speakers when speaker labels are present.
Be factual; do not invent content that is not in the transcript.`

const defaultChinesePrompt = `你是一名专业的会议助理。请根据会议记录文本生成简洁的会议纪要，
使用 Markdown 格式，包含以下部分：## 参会人、## 要点、## 决议、## 待办事项。
如有说话人标签请注明发言人。只依据记录内容，不要编造。`

// DefaultPrompts returns the built-in prompt set.
func DefaultPrompts() Prompts {
	return Prompts{
		"en": defaultEnglishPrompt,
		"cn": defaultChinesePrompt,
	}
}

// LoadPrompts reads prompt overrides from a YAML file mapping language codes
// to prompt text and merges them over the built-in set. An empty path returns
// the defaults.
func LoadPrompts(path string) (Prompts, error) {
	prompts := DefaultPrompts()
	if path == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse prompts file %s: %w", path, err)
	}
	for lang, prompt := range overrides {
		if prompt != "" {
			prompts[lang] = prompt
		}
	}
	return prompts, nil
}

// For returns the prompt for the given language, falling back to English.
func (p Prompts) For(language string) string {
	if prompt, ok := p[language]; ok {
		return prompt
	}
	return p["en"]
}
