package docsum

import (
	"fmt"

	"github.com/kart-io/logger"

	"github.com/kart-io/docsum/internal/docsum/biz"
	"github.com/kart-io/docsum/internal/docsum/handler"
	"github.com/kart-io/docsum/internal/docsum/router"
	"github.com/kart-io/docsum/internal/docsum/store"
	"github.com/kart-io/docsum/pkg/app"
	"github.com/kart-io/docsum/pkg/component/mongodb"
	"github.com/kart-io/docsum/pkg/id"
	"github.com/kart-io/docsum/pkg/llm"
	"github.com/kart-io/docsum/pkg/middleware"
	"github.com/kart-io/docsum/pkg/ocr"
	"github.com/kart-io/docsum/pkg/server"

	// 注册模型供应商
	_ "github.com/kart-io/docsum/pkg/llm/huggingface"
	_ "github.com/kart-io/docsum/pkg/llm/openai"
)

const (
	appName        = "docsum"
	appDescription = `Docsum Service

The document summarization pipeline service.

This server provides:
  - Scanned document upload with OCR text extraction
  - Token-bounded chunking and hierarchical summarization
  - Named entity recognition on the final summary
  - Document and summary retrieval with bulk purge`
)

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run runs the docsum service with the given options.
func Run(opts *Options) error {
	printBanner(opts)

	// 1. 初始化日志
	opts.Log.AddInitialField("service.name", appName)
	opts.Log.AddInitialField("service.version", app.GetVersion())
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting docsum service...")

	// 2. 初始化 MongoDB 客户端
	mongoClient, err := mongodb.New(opts.MongoDB)
	if err != nil {
		return fmt.Errorf("failed to initialize mongodb: %w", err)
	}
	defer func() { _ = mongoClient.Close() }()
	logger.Infow("MongoDB client initialized", "database", opts.MongoDB.Database)

	// 3. 初始化存储层
	factory := store.NewMongoFactory(mongoClient)
	logger.Info("Store layer initialized")

	// 4. 初始化外部适配器
	extractor := ocr.NewHTTPExtractor(&ocr.Config{
		Endpoint:   opts.OCR.Endpoint,
		APIKey:     opts.OCR.APIKey,
		Language:   opts.OCR.Language,
		Timeout:    opts.OCR.Timeout,
		MaxRetries: opts.OCR.MaxRetries,
	})

	summaryProvider, err := llm.NewSummaryProvider(opts.LLM.Provider, opts.LLM.ToConfigMap())
	if err != nil {
		return fmt.Errorf("failed to create summary provider: %w", err)
	}
	entityProvider, err := llm.NewEntityProvider(opts.LLM.Provider, opts.LLM.ToConfigMap())
	if err != nil {
		return fmt.Errorf("failed to create entity provider: %w", err)
	}
	logger.Infow("Model providers initialized", "provider", opts.LLM.Provider)

	// 5. 初始化 Biz 层
	chunker := biz.NewChunker(nil, opts.Pipeline.MaxTokens)
	summarizer := biz.NewHierarchicalSummarizer(
		summaryProvider,
		opts.Pipeline.MinLength,
		opts.Pipeline.MaxLength,
		opts.Pipeline.SummarizeTimeout,
	)
	runIDGen := id.NewULIDGenerator()
	pipeline := biz.NewPipeline(extractor, chunker, summarizer, entityProvider, factory.Summaries(), runIDGen.Generate)
	service := biz.NewService(factory, pipeline)
	logger.Info("Pipeline initialized")

	// 6. 初始化 Handler 层
	docHandler := handler.NewDocumentHandler(service, opts.HTTP.MaxUploadSize)
	healthHandler := handler.NewHealthHandler(mongoClient.Health())

	// 7. 初始化服务器并注册路由
	srv := server.New(opts.HTTP, server.WithMode(opts.HTTP.Mode))
	srv.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	router.Register(srv.Engine(), docHandler, healthHandler)

	// 8. 启动服务器
	logger.Info("Docsum service is ready")
	return srv.Run()
}

func printBanner(_ *Options) {
	fmt.Printf("Starting %s...\n", appName)
}
