package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"portfolio-server/internal/analytics"
	"portfolio-server/internal/auth"
	"portfolio-server/internal/chat"
	"portfolio-server/internal/config"
	"portfolio-server/internal/content"
	"portfolio-server/internal/llm"
	"portfolio-server/internal/notify"
	"portfolio-server/internal/prompt"
	"portfolio-server/internal/scheduler"
	"portfolio-server/internal/transcript"
	"portfolio-server/internal/uploads"
	"portfolio-server/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	store, err := content.NewStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to init content store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("failed to close content store: %v", err)
		}
	}()

	cache := prompt.NewCache(store)

	llmClient := newLLMClient(cfg)
	gateway := chat.New(llmClient, cache)

	var transcripts transcript.Storage
	if cfg.TranscriptsPath != "" {
		fs, err := transcript.NewFileStorage(cfg.TranscriptsPath)
		if err != nil {
			log.Printf("failed to init transcript storage, falling back to memory: %v", err)
			transcripts = transcript.NewMemoryStorage()
		} else {
			transcripts = fs
		}
	} else {
		transcripts = transcript.NewMemoryStorage()
	}

	uploadStore := uploads.NewStore(cfg.UploadsDir)
	if _, err := uploadStore.Init(); err != nil {
		log.Printf("⚠️ uploads init failed (admin can retry via /api/storage/init): %v", err)
	}

	var notifier notify.Notifier = notify.LogOnly{}
	if cfg.TelegramBotToken != "" && cfg.AdminChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.AdminChatID)
		if err != nil {
			log.Printf("failed to init telegram notifier: %v", err)
		} else {
			notifier = tg
		}
	}

	analyticsSvc := analytics.New(store)

	sched := scheduler.New()
	sched.SetReportFunction(func(ctx context.Context) error {
		digest, err := analyticsSvc.DailyDigest(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		return notifier.Notify(digest)
	})
	if err := sched.Start(cfg.DigestCronSpec); err != nil {
		log.Printf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	server := web.NewServer(cfg.Port, web.Deps{
		Store:       store,
		Gateway:     gateway,
		Cache:       cache,
		Auth:        auth.New(cfg.AdminPassword),
		Analytics:   analyticsSvc,
		Uploads:     uploadStore,
		Transcripts: transcripts,
		Notifier:    notifier,
	})

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		log.Println("🛑 Shutting down...")
		if err := server.Stop(); err != nil {
			log.Printf("failed to stop server: %v", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func newLLMClient(cfg *config.Config) llm.Client {
	factory := &llm.Factory{
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexOAuthToken:   cfg.YandexOAuthToken,
		YandexFolderID:     cfg.YandexFolderID,
	}

	provider := string(cfg.LLMProvider)
	if !factory.Configured(provider) {
		log.Printf("⚠️ no %s credential configured, chat will serve simulated replies", provider)
		return nil
	}

	client, err := factory.CreateClient(provider, cfg.OpenAIModel)
	if err != nil {
		log.Printf("failed to create llm client, chat will serve simulated replies: %v", err)
		return nil
	}
	log.Printf("✅ LLM client ready (provider=%s)", provider)
	return client
}
