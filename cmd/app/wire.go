//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/nyayasetu/internal/bootstrap"
	"github.com/yanqian/nyayasetu/internal/domain/auth"
	"github.com/yanqian/nyayasetu/internal/domain/faq"
	"github.com/yanqian/nyayasetu/internal/domain/feedback"
	"github.com/yanqian/nyayasetu/internal/domain/speech"
	"github.com/yanqian/nyayasetu/internal/infra/config"
	httpiface "github.com/yanqian/nyayasetu/internal/interface/http"
	"github.com/yanqian/nyayasetu/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideTableSource,
		provideTableHolder,
		provideChangeNotifier,
		bootstrap.NewReloader,
		provideFAQConfig,
		provideValkeyClient,
		provideFAQStore,
		faq.NewService,
		provideFeedbackStore,
		provideFeedbackLog,
		feedback.NewService,
		provideSpeechConfig,
		provideSynthesizer,
		provideTranscriber,
		provideAudioStorage,
		speech.NewService,
		provideAuthConfig,
		auth.NewService,
		provideClosers,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
