package model

import (
	"encoding/json"
	"time"
)

// Transcription is one row of the transcriptions table: a single meeting's
// transcript plus the summary attached to it later.
type Transcription struct {
	ID         int64
	Filename   string
	Transcript string
	Speakers   string // JSON-encoded list of Speaker
	Summary    string // empty until a summary is generated
	CreatedAt  time.Time
}

// Speaker labels one voice detected by the hosted provider.
type Speaker struct {
	Speaker     string `json:"speaker"`
	Description string `json:"description"`
}

// EncodeSpeakers serializes a speaker list the way it is stored in the DB.
func EncodeSpeakers(speakers []Speaker) string {
	if speakers == nil {
		speakers = []Speaker{}
	}
	b, err := json.Marshal(speakers)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeSpeakers parses the stored JSON speaker list. Malformed input
// yields an empty list rather than an error.
func DecodeSpeakers(raw string) []Speaker {
	if raw == "" {
		return []Speaker{}
	}
	var speakers []Speaker
	if err := json.Unmarshal([]byte(raw), &speakers); err != nil {
		return []Speaker{}
	}
	return speakers
}
