package llm_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/invoxhq/invox/pkg/llm"

	cblog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"
)

type MockModel struct {
	GenerateContentFunc func(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error)
	CallFunc            func(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error)
}

func (m *MockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, messages, opts...)
	}
	return nil, nil
}

func (m *MockModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	if m.CallFunc != nil {
		return m.CallFunc(ctx, prompt, opts...)
	}
	return "", nil
}

func TestConnectValidation(t *testing.T) {
	tests := []struct {
		name         string
		apiKey       string
		model        string
		wantErr      error
		errorMessage string
	}{
		{
			name:         "missingAccessKey",
			apiKey:       "",
			model:        "gpt-4o-mini",
			wantErr:      llm.ErrAccessKeyMissing,
			errorMessage: "Access key is missing.",
		},
		{
			name:         "missingAccessKeyAndModel",
			apiKey:       "",
			model:        "",
			wantErr:      llm.ErrAccessKeyMissing,
			errorMessage: "Access key is missing.",
		},
		{
			name:         "missingModelName",
			apiKey:       "sk-test",
			model:        "",
			wantErr:      llm.ErrModelNameMissing,
			errorMessage: "Model name is missing.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(llm.EnvAPIKey, "")

			var buf bytes.Buffer
			conn := llm.NewConnector(llm.Options{
				APIKey: tt.apiKey,
				Logger: cblog.New(&buf),
				Factory: func(apiKey, model string) (llms.Model, error) {
					t.Fatal("factory should not be called on invalid input")
					return nil, nil
				},
			})

			handle, err := conn.Connect(tt.model)
			assert.Nil(t, handle)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.errorMessage)

			var invalid *llm.InvalidConfigurationError
			assert.ErrorAs(t, err, &invalid)
			assert.Contains(t, buf.String(), tt.errorMessage)
		})
	}
}

func TestConnectReturnsFactoryHandle(t *testing.T) {
	sentinel := &MockModel{}
	var buf bytes.Buffer

	conn := llm.NewConnector(llm.Options{
		APIKey: "sk-test",
		Logger: cblog.New(&buf),
		Factory: func(apiKey, model string) (llms.Model, error) {
			assert.Equal(t, "sk-test", apiKey)
			assert.Equal(t, "gpt-4o-mini", model)
			return sentinel, nil
		},
	})

	handle, err := conn.Connect("gpt-4o-mini")
	assert.NoError(t, err)
	assert.Same(t, sentinel, handle)
	assert.Contains(t, buf.String(), "gpt-4o-mini")
}

func TestConnectPropagatesFactoryError(t *testing.T) {
	factoryErr := errors.New("timeout")
	var buf bytes.Buffer

	conn := llm.NewConnector(llm.Options{
		APIKey: "sk-test",
		Logger: cblog.New(&buf),
		Factory: func(apiKey, model string) (llms.Model, error) {
			return nil, factoryErr
		},
	})

	handle, err := conn.Connect("gpt-4o-mini")
	assert.Nil(t, handle)
	assert.Same(t, factoryErr, err)
	assert.Contains(t, buf.String(), "timeout")
}

func TestConnectIndependentHandles(t *testing.T) {
	calls := 0
	conn := llm.NewConnector(llm.Options{
		APIKey: "sk-test",
		Logger: cblog.New(&bytes.Buffer{}),
		Factory: func(apiKey, model string) (llms.Model, error) {
			calls++
			return &MockModel{}, nil
		},
	})

	first, err := conn.Connect("gpt-4o-mini")
	assert.NoError(t, err)
	second, err := conn.Connect("gpt-4o-mini")
	assert.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, calls)
}

func TestConnectDefault(t *testing.T) {
	var gotModel string
	conn := llm.NewConnector(llm.Options{
		APIKey: "sk-test",
		Logger: cblog.New(&bytes.Buffer{}),
		Factory: func(apiKey, model string) (llms.Model, error) {
			gotModel = model
			return &MockModel{}, nil
		},
	})

	_, err := conn.ConnectDefault()
	assert.NoError(t, err)
	assert.Equal(t, llm.DefaultModel, gotModel)
	assert.Equal(t, "gpt-4o-mini", gotModel)
}

func TestNewConnectorReadsEnvironment(t *testing.T) {
	t.Setenv(llm.EnvAPIKey, "sk-from-env")

	var gotKey string
	conn := llm.NewConnector(llm.Options{
		Logger: cblog.New(&bytes.Buffer{}),
		Factory: func(apiKey, model string) (llms.Model, error) {
			gotKey = apiKey
			return &MockModel{}, nil
		},
	})

	// The credential is captured at construction time.
	t.Setenv(llm.EnvAPIKey, "sk-changed-later")

	_, err := conn.Connect("gpt-4o-mini")
	assert.NoError(t, err)
	assert.Equal(t, "sk-from-env", gotKey)
}
