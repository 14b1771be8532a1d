package llm

import (
	"os"

	cblog "github.com/charmbracelet/log"
	"github.com/tmc/langchaingo/llms"
)

// DefaultModel is used when callers do not care about a specific model.
const DefaultModel = "gpt-4o-mini"

// EnvAPIKey is the environment variable holding the access credential.
const EnvAPIKey = "OPENAI_API_KEY"

// Factory constructs a chat model client from an API key and a model name.
// The default factory talks to OpenAI; tests inject stubs.
type Factory func(apiKey, model string) (llms.Model, error)

// InvalidConfigurationError reports a missing credential or model name.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return e.Reason
}

var (
	ErrAccessKeyMissing = &InvalidConfigurationError{Reason: "Access key is missing."}
	ErrModelNameMissing = &InvalidConfigurationError{Reason: "Model name is missing."}
)

// Options defines the configuration for creating a Connector.
//
// If APIKey is empty, NewConnector reads it from the OPENAI_API_KEY
// environment variable. If Logger or Factory are nil, the package defaults
// are used.
type Options struct {
	APIKey  string
	Logger  *cblog.Logger
	Factory Factory
}

// Connector produces chat model client handles bound to a model name.
// The access credential is captured once at construction and never
// re-read from the environment.
type Connector struct {
	apiKey  string
	logger  *cblog.Logger
	factory Factory
}

// NewConnector creates a Connector from the given options. A missing
// credential is not an error here; Connect reports it.
func NewConnector(opts Options) *Connector {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}

	logger := opts.Logger
	if logger == nil {
		logger = cblog.Default()
	}

	factory := opts.Factory
	if factory == nil {
		factory = newOpenAIClient
	}

	return &Connector{
		apiKey:  apiKey,
		logger:  logger,
		factory: factory,
	}
}

// Connect validates the captured credential and the model name, then
// constructs a client handle via the factory. Factory errors are returned
// unchanged. Each call returns an independent handle.
func (c *Connector) Connect(model string) (llms.Model, error) {
	if c.apiKey == "" {
		c.logger.Error(ErrAccessKeyMissing.Reason)
		return nil, ErrAccessKeyMissing
	}
	if model == "" {
		c.logger.Error(ErrModelNameMissing.Reason)
		return nil, ErrModelNameMissing
	}

	handle, err := c.factory(c.apiKey, model)
	if err != nil {
		c.logger.Errorf("error initializing the LLM client: %s", err)
		return nil, err
	}

	c.logger.Infof("connected to model %q", model)
	return handle, nil
}

// ConnectDefault connects using DefaultModel.
func (c *Connector) ConnectDefault() (llms.Model, error) {
	return c.Connect(DefaultModel)
}
