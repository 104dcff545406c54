package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults mirror the original CallSense deployment settings.
const (
	DefaultChatModel    = "gpt-3.5-turbo"
	DefaultWhisperModel = "whisper-1"
	DefaultTemperature  = 0.7

	DefaultExcellentThreshold = 8.0
	DefaultGoodThreshold      = 6.0
	DefaultNeedsWorkThreshold = 4.0

	// OpenAI caps audio uploads at 25 MB.
	DefaultMaxAudioBytes = 25 << 20
)

// Config is read once at process start and handed to constructors explicitly.
type Config struct {
	ChatGatewayURL string
	TranscribeURL  string
	APIKey         string

	ChatModel    string
	WhisperModel string
	Temperature  float64

	MaxAudioBytes int64
	AudioFormats  []string

	// Rating thresholds drive display labels only, never pipeline logic.
	ExcellentThreshold float64
	GoodThreshold      float64
	NeedsWorkThreshold float64

	HTTPTimeout time.Duration
}

// Load reads the environment into a Config. Call godotenv.Load first if a
// .env file should participate.
func Load() Config {
	return Config{
		ChatGatewayURL: envOr("LLM_GATEWAY_URL", "https://api.openai.com/v1/chat/completions"),
		TranscribeURL:  envOr("TRANSCRIBE_URL", "https://api.openai.com/v1/audio/transcriptions"),
		APIKey:         os.Getenv("OPENAI_API_KEY"),

		ChatModel:    envOr("LLM_MODEL", DefaultChatModel),
		WhisperModel: envOr("WHISPER_MODEL", DefaultWhisperModel),
		Temperature:  envFloat("LLM_TEMPERATURE", DefaultTemperature),

		MaxAudioBytes: int64(envInt("MAX_AUDIO_BYTES", DefaultMaxAudioBytes)),
		AudioFormats:  []string{"mp3", "mp4", "mpeg", "mpga", "m4a", "wav", "webm"},

		ExcellentThreshold: envFloat("QA_EXCELLENT_THRESHOLD", DefaultExcellentThreshold),
		GoodThreshold:      envFloat("QA_GOOD_THRESHOLD", DefaultGoodThreshold),
		NeedsWorkThreshold: envFloat("QA_NEEDS_WORK_THRESHOLD", DefaultNeedsWorkThreshold),

		HTTPTimeout: time.Duration(envInt("PROVIDER_TIMEOUT_SEC", 25)) * time.Second,
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.ChatGatewayURL == "" {
		return fmt.Errorf("LLM_GATEWAY_URL is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", c.Temperature)
	}
	if c.MaxAudioBytes <= 0 {
		return fmt.Errorf("max audio bytes must be positive")
	}
	if !(c.ExcellentThreshold >= c.GoodThreshold && c.GoodThreshold >= c.NeedsWorkThreshold) {
		return fmt.Errorf("rating thresholds must be non-increasing: %.1f/%.1f/%.1f",
			c.ExcellentThreshold, c.GoodThreshold, c.NeedsWorkThreshold)
	}
	return nil
}

// AcceptsFormat reports whether the declared audio format is allowed.
func (c Config) AcceptsFormat(format string) bool {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	for _, a := range c.AudioFormats {
		if f == a {
			return true
		}
	}
	return false
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
