package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"golang.org/x/oauth2"

	"vani/internal/assistant"
	"vani/internal/audio"
	"vani/internal/browser"
	"vani/internal/bus"
	"vani/internal/camera"
	"vani/internal/config"
	"vani/internal/dispatch"
	"vani/internal/fallback"
	"vani/internal/files"
	"vani/internal/history"
	"vani/internal/ipc"
	"vani/internal/llm"
	"vani/internal/memory"
	"vani/internal/proxy"
	"vani/internal/quick"
	"vani/internal/spotify"
	"vani/internal/system"
	"vani/internal/tts"
	"vani/internal/vision"
	"vani/internal/wakeword"
	"vani/pkg/audioconv"
	"vani/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	noVoice := cli.Bool("no-voice", false, "Disable microphone and speech output")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)
	cfg := config.Load()

	provider := buildProvider(cfg)

	web := browser.New()
	defer web.Close()

	svc := dispatch.Services{
		Browser:  web,
		System:   &system.Control{},
		Apps:     quick.Apps{},
		Typist:   quick.Typist{},
		Shell:    quick.Shell{},
		Files:    &files.Finder{},
		Camera:   &camera.Capturer{},
		Prices:   web,
		Provider: provider,
	}
	if provider != nil {
		svc.Vision = vision.New(provider)
		svc.Fallback = fallback.NewGenerator(provider, llm.DefaultConfig(), fallback.DefaultCacheSize)
	}

	if hist, err := history.Open(cfg.HistoryPath); err != nil {
		log.Warn("command history unavailable", "err", err)
	} else {
		svc.History = hist
	}
	svc.Memory = memory.Open(cfg.MemoryPath)

	if cfg.SpotifyClientID != "" && cfg.SpotifyRefreshToken != "" {
		auth := spotify.Authenticator(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRedirectURI)
		token := &oauth2.Token{RefreshToken: cfg.SpotifyRefreshToken}
		svc.Music = spotify.New(context.Background(), auth, token)
		log.Debug("Loaded spotify")
	}

	var speaker *tts.Speaker
	var recorder *audio.Recorder
	var engine stt.Engine

	if !*noVoice {
		speaker = tts.NewSpeaker()
		defer speaker.Close()
		if err := speaker.SetVoice(cfg.Voice); err != nil {
			log.Warn("voice not recognized", "voice", cfg.Voice, "err", err)
		}
		svc.Voice = speaker

		recorder = audio.NewRecorder()
		if err := recorder.Init(); err != nil {
			log.Error("Failed to init audio", "err", err)
			os.Exit(1)
		}
		defer recorder.Close()
		log.Debug("Loaded recorder")

		var err error
		engine, err = buildEngine(cfg)
		if err != nil {
			log.Error("Failed to load speech recognizer", "err", err)
			os.Exit(1)
		}
		defer engine.Close()
		log.Debug("Loaded speech recognizer", "engine", cfg.STTEngine)
	}

	var detector *wakeword.Detector
	if !*noVoice && cfg.PorcupineAccessKey != "" {
		detector = wakeword.NewDetector(cfg.PorcupineAccessKey)
		if err := detector.SetKeyword(cfg.WakeWord); err != nil {
			log.Warn("wake word not recognized", "word", cfg.WakeWord, "err", err)
		}
		svc.Wake = detector
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var vani *assistant.Assistant
	svc.Stop = func() {
		if vani != nil {
			vani.Stop()
		}
	}

	dispatcher := dispatch.New(svc, nil)
	vani = assistant.New(dispatcher, speaker, recorder, engine)
	vani.EarconPath = cfg.EarconPath
	vani.ListenTimeout = cfg.ListenTimeout
	vani.Cooldown = cfg.CommandCooldown
	if !*noVoice {
		vani.Ducker = audio.NewDucker([]string{"vani"}, 10)
	}

	log.Info("Boot up - successful")

	if err := ipc.StartServer(cfg.SocketPath, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case "trigger":
			go vani.HandleTrigger(ctx)
		case "stop":
			vani.Stop()
		case "say":
			vani.Submit(msg.Arg)
		case "file":
			go runVoiceNote(ctx, vani, engine, msg.Arg)
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	}); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	if detector != nil {
		go func() {
			if err := detector.Listen(ctx.Done(), func() {
				log.Info("Wake word detected")
				vani.HandleTrigger(ctx)
			}); err != nil {
				log.Error("Wake word listener stopped", "err", err)
			}
		}()
	}

	if cfg.BusURL != "" {
		go serveBus(ctx, cfg.BusURL, vani)
	}

	go vani.Run(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("Shutting down")
}

func buildProvider(cfg *config.Config) llm.Provider {
	var httpClient *http.Client
	if cfg.SocksProxy != "" {
		var err error
		httpClient, err = proxy.NewSocksClient(cfg.SocksProxy)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", cfg.SocksProxy, "err", err)
			os.Exit(1)
		}
		log.Debug("Loaded proxy")
	}

	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Warn("GEMINI_API_KEY not set, conversation disabled")
			return nil
		}
		p, err := llm.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, httpClient)
		if err != nil {
			log.Error("Failed to init gemini", "err", err)
			os.Exit(1)
		}
		return p
	default:
		if cfg.OpenAIAPIKey == "" {
			log.Warn("OPENAI_API_KEY not set, conversation disabled")
			return nil
		}
		return llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, httpClient)
	}
}

func buildEngine(cfg *config.Config) (stt.Engine, error) {
	if cfg.STTEngine == "vosk" {
		return stt.NewVosk(cfg.VoskModelPath)
	}
	return stt.NewWhisper(cfg.WhisperModelPath, stt.WhisperOptions{Language: "en"})
}

// runVoiceNote transcribes a recorded audio file and queues the text
// as a command.
func runVoiceNote(ctx context.Context, vani *assistant.Assistant, engine stt.Engine, path string) {
	if engine == nil {
		log.Warn("voice note without speech recognizer", "path", path)
		return
	}
	pcm, err := audioconv.DecodeFile(ctx, path, 0)
	if err != nil {
		log.Error("Failed to decode voice note", "path", path, "err", err)
		return
	}
	text, err := engine.Transcribe(ctx, pcm)
	if err != nil {
		log.Error("Failed to transcribe voice note", "path", path, "err", err)
		return
	}
	vani.Submit(text)
}

// serveBus keeps reconnecting to the websocket bus while the daemon
// runs.
func serveBus(ctx context.Context, url string, vani *assistant.Assistant) {
	for ctx.Err() == nil {
		b, err := bus.Connect(url)
		if err != nil {
			log.Warn("bus unavailable", "url", url, "err", err)
			return
		}
		b.Serve(func(text string) string {
			return vani.HandleText(ctx, text)
		})
		b.Close()
	}
}
