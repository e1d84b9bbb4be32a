package voiceclone

import (
	"context"
	"io"
	"net/http"
)

// UploadResponse is the result of uploading a reference recording.
type UploadResponse struct {
	// FileID identifies the uploaded file in later clone requests.
	FileID string `json:"file_id"`
}

// Voice is a cloned voice on the service.
type Voice struct {
	// VoiceID identifies the voice in synthesis requests.
	VoiceID string `json:"voice_id"`

	// Name is the caller-chosen display name.
	Name string `json:"name"`
}

// SynthesizeRequest parameterizes speech synthesis in a cloned voice.
type SynthesizeRequest struct {
	// VoiceID is the cloned voice to speak with.
	VoiceID string `json:"voice_id"`

	// Text is the sentence to synthesize.
	Text string `json:"text"`

	// SampleRate is the output rate in Hz. Zero lets the service
	// choose.
	SampleRate int `json:"sample_rate,omitempty"`

	// Format is the audio container, e.g. "wav". Zero value means
	// "wav".
	Format string `json:"format,omitempty"`
}

// UploadReference uploads one reference recording for cloning.
//
// The returned file_id is passed to CreateVoice.
func (c *Client) UploadReference(ctx context.Context, file io.Reader, filename string) (*UploadResponse, error) {
	var resp UploadResponse

	fields := map[string]string{
		"purpose": "voice_clone",
	}

	err := c.http.uploadFile(ctx, "/v1/files/upload", file, filename, fields, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateVoice builds a cloned voice from previously uploaded
// reference recordings.
func (c *Client) CreateVoice(ctx context.Context, name string, fileIDs []string) (*Voice, error) {
	req := struct {
		Name    string   `json:"name"`
		FileIDs []string `json:"file_ids"`
	}{
		Name:    name,
		FileIDs: fileIDs,
	}

	var v Voice
	if err := c.http.request(ctx, http.MethodPost, "/v1/voice/clone", req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Synthesize speaks text in a cloned voice and returns the encoded
// audio bytes.
func (c *Client) Synthesize(ctx context.Context, req *SynthesizeRequest) ([]byte, error) {
	if req.Format == "" {
		req.Format = "wav"
	}
	return c.http.requestRaw(ctx, http.MethodPost, "/v1/voice/synthesize", req)
}

// DeleteVoice removes a cloned voice.
func (c *Client) DeleteVoice(ctx context.Context, voiceID string) error {
	req := struct {
		VoiceID string `json:"voice_id"`
	}{
		VoiceID: voiceID,
	}
	return c.http.request(ctx, http.MethodPost, "/v1/voice/delete", req, nil)
}
