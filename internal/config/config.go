// Package config collects every externally supplied setting in one
// struct. Values come from the environment (godotenv has already been
// loaded by main); a missing secret is a warning, never a startup
// failure — the affected collaborator simply reports itself
// unavailable when used.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// LLM
	LLMProvider  string // "openai" or "gemini"
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string

	// Spotify
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURI  string
	SpotifyRefreshToken string

	// Audio / speech
	STTEngine          string // "whisper" or "vosk"
	WhisperModelPath   string
	VoskModelPath      string
	PorcupineAccessKey string
	WakeWord           string
	Voice              string

	// Surfaces
	BusURL     string
	SocksProxy string
	SocketPath string

	// Data files
	HistoryPath string
	MemoryPath  string
	EarconPath  string

	// Behavior
	CommandCooldown time.Duration
	ListenTimeout   time.Duration
}

var secrets = []string{
	"OPENAI_API_KEY", "GEMINI_API_KEY",
	"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET",
	"PORCUPINE_ACCESS_KEY",
}

func Load() *Config {
	for _, name := range secrets {
		if os.Getenv(name) == "" {
			slog.Warn("config value not set", "name", name)
		}
	}
	return &Config{
		LLMProvider:  getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", ""),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyRedirectURI:  getEnv("SPOTIFY_REDIRECT_URI", "http://localhost:8888/callback"),
		SpotifyRefreshToken: os.Getenv("SPOTIFY_REFRESH_TOKEN"),

		STTEngine:          getEnv("STT_ENGINE", "whisper"),
		WhisperModelPath:   getEnv("WHISPER_MODEL", "models/ggml-base.en.bin"),
		VoskModelPath:      getEnv("VOSK_MODEL", "models/vosk"),
		PorcupineAccessKey: os.Getenv("PORCUPINE_ACCESS_KEY"),
		WakeWord:           getEnv("WAKE_WORD", "jarvis"),
		Voice:              getEnv("VOICE", "english"),

		BusURL:     os.Getenv("BUS_URL"),
		SocksProxy: os.Getenv("SOCKS_PROXY"),
		SocketPath: getEnv("SOCKET_PATH", "/tmp/vani.sock"),

		HistoryPath: getEnv("HISTORY_FILE", "data/command_history.txt"),
		MemoryPath:  getEnv("MEMORY_FILE", "data/conversation_memory.json"),
		EarconPath:  getEnv("EARCON_FILE", "assets/chime.mp3"),

		CommandCooldown: getDurationEnv("COMMAND_COOLDOWN", time.Second),
		ListenTimeout:   getDurationEnv("LISTEN_TIMEOUT", 60*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
