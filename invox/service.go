package invox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/invoxhq/invox/internal/cache"
	"github.com/invoxhq/invox/internal/config"
	el "github.com/invoxhq/invox/internal/logger"
	"github.com/invoxhq/invox/pkg/docintel"
	"github.com/invoxhq/invox/pkg/extract"
	"github.com/invoxhq/invox/pkg/llm"

	cblog "github.com/charmbracelet/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// Default file paths used when Options fields are left empty.
const (
	DefaultConfigFile   = "config/config.yaml"
	DefaultCacheDBFile  = "cache.db"
	DefaultEventLogFile = "event_log.json"
)

// Analyzer produces a layout analysis result for a document.
type Analyzer interface {
	Analyze(ctx context.Context, doc []byte) (*extract.AnalyzeResult, error)
}

// Options defines the configuration for creating a Service.
//
// If Model, ConfigFile, CacheDBFile, or EventLogFile are empty, NewService
// falls back to llm.DefaultModel, DefaultConfigFile, DefaultCacheDBFile, and
// DefaultEventLogFile respectively. APIKey falls back to the OPENAI_API_KEY
// environment variable. Factory and Analyzer exist for embedding and tests;
// leave them nil to use the real OpenAI client and layout analysis service.
type Options struct {
	Model         string
	APIKey        string
	ConfigFile    string
	CacheDBFile   string
	EventLogFile  string
	CacheDuration int
	LogLevel      string
	Logger        *cblog.Logger
	Factory       llm.Factory
	Analyzer      Analyzer
}

// Service encapsulates the components required to turn invoice documents
// into structured markdown.
type Service struct {
	Analyzer      Analyzer
	Cache         *sql.DB
	CacheDuration int
	Config        *config.Config
	EventLogger   *el.Logger
	Logger        *cblog.Logger
	Model         llms.Model
	ModelName     string
}

// NewService loads configuration and initializes the components required
// for invoice extraction.
func NewService(ctx context.Context, opts Options) (*Service, error) {
	if opts.LogLevel != "" {
		level, err := cblog.ParseLevel(opts.LogLevel)
		if err == nil {
			cblog.SetLevel(level)
		}
	}
	cblog.SetPrefix("INVOX")
	cblog.SetTimeFormat("2006/01/02 15:04:05")

	logger := opts.Logger
	if logger == nil {
		logger = cblog.Default()
	}

	if opts.Model == "" {
		opts.Model = llm.DefaultModel
	}
	if opts.ConfigFile == "" {
		opts.ConfigFile = DefaultConfigFile
	}
	if opts.CacheDBFile == "" {
		opts.CacheDBFile = DefaultCacheDBFile
	}
	if opts.EventLogFile == "" {
		opts.EventLogFile = DefaultEventLogFile
	}

	cfg, err := config.LoadConfig(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	connector := llm.NewConnector(llm.Options{
		APIKey:  opts.APIKey,
		Logger:  logger,
		Factory: opts.Factory,
	})
	model, err := connector.Connect(opts.Model)
	if err != nil {
		return nil, err
	}

	cacheDB, err := cache.InitializeCache(opts.CacheDBFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing the cache database: %w", err)
	}

	eventLogger, err := el.New(opts.EventLogFile, opts.Model, logger)
	if err != nil {
		return nil, err
	}

	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = docintel.New(docintel.Config{Logger: logger})
	}

	return &Service{
		Analyzer:      analyzer,
		Cache:         cacheDB,
		CacheDuration: opts.CacheDuration,
		Config:        cfg,
		EventLogger:   eventLogger,
		Logger:        logger,
		Model:         model,
		ModelName:     opts.Model,
	}, nil
}

// ProcessDocument reads the document at path, analyzes its layout, and asks
// the model to reorganize the recognized content into markdown tables.
// Cached results are returned without re-analyzing the document.
func (s *Service) ProcessDocument(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading document: %w", err)
	}
	return s.ProcessBytes(ctx, path, data)
}

// ProcessBytes runs the extraction pipeline on an in-memory document.
// The path is used for event logging only.
func (s *Service) ProcessBytes(ctx context.Context, path string, data []byte) (string, error) {
	doc := el.NewDocumentInfo(path, data)
	start := time.Now()

	key := cache.ResultKey(s.ModelName, data)
	if s.CacheDuration != 0 {
		cached, err := cache.CheckCache(s.Cache, key, s.CacheDuration)
		if err == nil && cached != nil {
			s.Logger.Infof("returning cached result for %s", doc.FileName)
			s.EventLogger.LogEvent(doc, len(cached), "cache", time.Since(start))
			return string(cached), nil
		}
	}

	result, err := s.Analyzer.Analyze(ctx, data)
	if err != nil {
		s.Logger.Errorf("error analyzing document %s: %s", doc.FileName, err)
		s.EventLogger.LogError(doc, err, time.Since(start))
		return "", err
	}

	content := extract.Text(result)
	tables := extract.Tables(result)
	s.Logger.Infof("extracted %d pages of text and %d tables from %s", len(content), len(tables), doc.FileName)

	markdown, err := s.generate(ctx, extract.RenderText(content), extract.RenderTables(tables))
	if err != nil {
		s.Logger.Errorf("error generating extraction result: %s", err)
		s.EventLogger.LogError(doc, err, time.Since(start))
		return "", err
	}

	s.Logger.Infof("received extraction result for %s (%d characters)", doc.FileName, len(markdown))

	if s.CacheDuration != 0 {
		if err := cache.StoreResult(s.Cache, key, []byte(markdown)); err != nil {
			s.Logger.Errorf("error storing result in cache: %s", err)
		}
	}

	s.EventLogger.LogEvent(doc, len(markdown), "llm", time.Since(start))
	return markdown, nil
}

func (s *Service) generate(ctx context.Context, text, tables string) (string, error) {
	userPrompt := fmt.Sprintf(s.Config.UserPrompt, text, tables)
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, s.Config.SystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, userPrompt),
	}

	response, err := s.Model.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("contentGenerationError: %s", err)
	}
	if response == nil {
		return "", errors.New("emptyLLMResponse: response is nil")
	}
	if len(response.Choices) == 0 {
		return "", errors.New("emptyLLMResponse: no choices available")
	}
	content := response.Choices[0].Content
	if content == "" {
		return "", errors.New("emptyLLMResponse: content of first choice is empty")
	}

	return content, nil
}

// Close releases resources held by the Service.
func (s *Service) Close() error {
	var errs []error
	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.EventLogger != nil && s.EventLogger.EventFile != nil {
		if err := s.EventLogger.EventFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
