package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/chatminder/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"CHATMINDER_RUNTIME_PATH" envDefault:".chatminder"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	// Allow selecting the provider
	LLMProvider string        `env:"LLM_PROVIDER" envDefault:"openrouter"`
	LLMTimeout  time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`

	// Contextual memory and reminders
	ContextWindowDays   int      `env:"CONTEXT_WINDOW_DAYS" envDefault:"1"`
	SummaryMaxLength    int      `env:"SUMMARY_MAX_LENGTH" envDefault:"97"`
	MaxSuggestionLength int      `env:"MAX_SUGGESTION_LENGTH" envDefault:"100"`
	RefineHistorySize   int      `env:"REFINE_HISTORY_SIZE" envDefault:"5"`
	TriggerPhrases      []string `env:"TRIGGER_PHRASES" envSeparator:"," envDefault:"promise,will do,i'll get,i will,remind me"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "chatminder.db")
}
