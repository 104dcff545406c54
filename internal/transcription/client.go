// Package transcription uploads call recordings to a Whisper-style
// speech-to-text endpoint and hands back plain transcript text. The pipeline
// itself never touches audio bytes; callers transcribe first.
package transcription

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ayushitiwary/CallSense/internal/config"
	"github.com/ayushitiwary/CallSense/internal/logger"
)

type Client struct {
	endpoint   string
	apiKey     string
	model      string
	cfg        config.Config
	httpClient *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		endpoint:   cfg.TranscribeURL,
		apiKey:     cfg.APIKey,
		model:      cfg.WhisperModel,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Transcribe validates the declared format and payload size, then uploads the
// audio and returns the transcript text. Validation failures never reach the
// network.
func (c *Client) Transcribe(ctx context.Context, filename, format string, audio []byte) (string, error) {
	log := logger.New().WithComponent("transcription").WithField("file", filename)

	if !c.cfg.AcceptsFormat(format) {
		return "", fmt.Errorf("unsupported audio format %q (accepted: %v)", format, c.cfg.AudioFormats)
	}
	if int64(len(audio)) > c.cfg.MaxAudioBytes {
		return "", fmt.Errorf("audio payload %d bytes exceeds limit of %d", len(audio), c.cfg.MaxAudioBytes)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}

	body, contentType, err := c.buildForm(filename, audio)
	if err != nil {
		return "", err
	}

	log.WithField("bytes", len(audio)).Info("uploading audio for transcription")

	var text string
	var lastErr error

	op := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("transcription request failed")
			return err
		}
		defer resp.Body.Close()

		raw, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("transcription server error: status=%d body=%s", resp.StatusCode, raw)
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("transcription rejected: status=%d body=%s", resp.StatusCode, raw)
			return backoff.Permanent(lastErr)
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			lastErr = fmt.Errorf("transcription returned empty text")
			return lastErr
		}
		text = string(raw)
		lastErr = nil
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 60 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return "", fmt.Errorf("transcription failed: %w", lastErr)
	}

	log.WithField("chars", len(text)).Info("transcription complete")
	return text, nil
}

func (c *Client) buildForm(filename string, audio []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", fmt.Errorf("build upload form: %w", err)
	}
	_ = w.WriteField("model", c.model)
	_ = w.WriteField("response_format", "text")
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("build upload form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
