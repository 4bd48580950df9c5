package model

import "encoding/json"

// ErrSegmentPlaceholder is the text slotted into the combined transcript for a
// segment whose transcription failed.
const ErrSegmentPlaceholder = "(error transcribing segment)"

// SegmentPayload is the provider's reply for one successfully transcribed
// segment.
type SegmentPayload struct {
	Text string          `json:"text"`
	Raw  json.RawMessage `json:"raw,omitempty"`
}

// SegmentResult is the per-segment outcome of chunked transcription: either a
// provider payload or an error message, never both.
type SegmentResult struct {
	Index      int             `json:"index"`
	Payload    *SegmentPayload `json:"payload,omitempty"`
	ChunkError string          `json:"chunk_error,omitempty"`
}

// Failed reports whether this segment's transcription failed.
func (r SegmentResult) Failed() bool {
	return r.ChunkError != ""
}

// SpeechResult is the hosted provider's reply for a whole file.
type SpeechResult struct {
	Text     string          `json:"text"`
	Speakers []Speaker       `json:"speakers"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

// TranscribeResult is the pipeline output folded into the Transcription row
// and the API response. ObjectURI and FileSize are always set once the upload
// succeeded; the remaining fields depend on which provider ran.
type TranscribeResult struct {
	ObjectURI string          `json:"s3_uri"`
	FileSize  int64           `json:"file_size"`
	Text      string          `json:"text,omitempty"`
	Speakers  []Speaker       `json:"speakers,omitempty"`
	Provider  string          `json:"provider,omitempty"`
	Segments  []SegmentResult `json:"segments_raw,omitempty"`
	Raw       json.RawMessage `json:"provider_raw,omitempty"`
}
