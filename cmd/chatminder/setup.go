package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/chatminder/internal/config"
	"github.com/sandevgo/chatminder/internal/event"
	"github.com/sandevgo/chatminder/internal/providers/llm"
	"github.com/sandevgo/chatminder/internal/service/assist"
	"github.com/sandevgo/chatminder/internal/service/contextmem"
	"github.com/sandevgo/chatminder/internal/service/importance"
	"github.com/sandevgo/chatminder/internal/service/pipeline"
	"github.com/sandevgo/chatminder/internal/service/reminder"
	"github.com/sandevgo/chatminder/internal/storage/sqlite"
	"github.com/sandevgo/chatminder/internal/transport/httpapi"
	"github.com/sandevgo/chatminder/pkg/log"
	"github.com/sandevgo/chatminder/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	messagesRepo := sqlite.NewMessagesRepo(db)
	contextRepo := sqlite.NewContextRepo(db)
	chatsRepo := sqlite.NewChatsRepo(db)

	// 3. AI Provider
	provider, err := llm.NewProvider(ctx, appCfg.LLMProvider, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Memory services
	classifier := importance.NewClassifier(appCfg.TriggerPhrases)
	recorder := contextmem.NewRecorder(classifier, contextRepo, appCfg.SummaryMaxLength)
	retriever := contextmem.NewRetriever(contextRepo, appCfg.ContextWindowDays)

	// 5. Assist services
	suggester := assist.NewReplySuggester(provider, messagesRepo, appCfg.MaxSuggestionLength, appCfg.LLMTimeout)
	refiner := assist.NewRefiner(provider, messagesRepo, appCfg.RefineHistorySize, appCfg.LLMTimeout)
	orchestrator := reminder.NewOrchestrator(retriever, provider, messagesRepo, contextRepo, appCfg.MaxSuggestionLength, appCfg.LLMTimeout)

	// 6. Message pipeline
	bus := event.NewBus()
	services = append(services, srv.NewCleanup(func() error {
		bus.Close()
		return nil
	}))
	services = append(services, pipeline.New(bus, recorder, suggester, orchestrator, refiner))

	// 7. HTTP API
	handler := httpapi.NewHandler(chatsRepo, messagesRepo, bus, refiner)
	services = append(services, httpapi.NewServer(appCfg.HTTPAddr, handler))

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
