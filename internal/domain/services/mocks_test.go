package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

type MockConfigLoader struct {
	mock.Mock
}

func (m *MockConfigLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	args := m.Called(ctx)
	if cfg := args.Get(0); cfg != nil {
		return cfg.(*entities.Config), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockConfigLoader) LoadLocal(ctx context.Context, dir string) (*entities.Config, error) {
	args := m.Called(ctx, dir)
	if cfg := args.Get(0); cfg != nil {
		return cfg.(*entities.Config), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockConfigLoader) CreateDefaults(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockConfigLoader) GetGlobalPath() string {
	return m.Called().String(0)
}

func (m *MockConfigLoader) GetLocalPath(dir string) string {
	return m.Called(dir).String(0)
}

func (m *MockConfigLoader) LoadEnvFile(dir string) error {
	return m.Called(dir).Error(0)
}

type MockConfigMerger struct {
	mock.Mock
}

func (m *MockConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	args := m.Called(configs)
	return args.Get(0).(*entities.Config)
}

func (m *MockConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	args := m.Called(config, flags)
	return args.Get(0).(*entities.Config)
}

func (m *MockConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	args := m.Called(config)
	return args.Get(0).(*entities.Config)
}

type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) Load(ctx context.Context, path string) (*entities.Deck, error) {
	args := m.Called(ctx, path)
	if d := args.Get(0); d != nil {
		return d.(*entities.Deck), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckRepository) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	args := m.Called(ctx, path)
	if ch := args.Get(0); ch != nil {
		return ch.(<-chan ports.FileChangeEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDeckParser struct {
	mock.Mock
}

func (m *MockDeckParser) Parse(ctx context.Context, name string, content []byte) (*entities.Deck, error) {
	args := m.Called(ctx, name, content)
	if d := args.Get(0); d != nil {
		return d.(*entities.Deck), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckParser) Supports(name string) bool {
	return m.Called(name).Bool(0)
}

type stubSource struct {
	name    string
	content []byte
}

func (s stubSource) DefaultDeck() (string, []byte) {
	return s.name, s.content
}

type MockBodyRenderer struct {
	mock.Mock
}

func (m *MockBodyRenderer) RenderBody(ctx context.Context, markdown string) (string, error) {
	args := m.Called(ctx, markdown)
	return args.String(0), args.Error(1)
}

type MockDeckService struct {
	mock.Mock
}

func (m *MockDeckService) LoadDeck(ctx context.Context, path string) (*entities.Deck, error) {
	args := m.Called(ctx, path)
	if d := args.Get(0); d != nil {
		return d.(*entities.Deck), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckService) ParseDeck(ctx context.Context, name string, content []byte) (*entities.Deck, error) {
	args := m.Called(ctx, name, content)
	if d := args.Get(0); d != nil {
		return d.(*entities.Deck), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckService) WatchDeck(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	args := m.Called(ctx, path)
	if ch := args.Get(0); ch != nil {
		return ch.(<-chan ports.FileChangeEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockHTTPServer struct {
	mock.Mock
}

func (m *MockHTTPServer) Start(ctx context.Context, port int, host string) error {
	return m.Called(ctx, port, host).Error(0)
}

func (m *MockHTTPServer) Stop(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHTTPServer) NotifyClients(event ports.UpdateEvent) error {
	return m.Called(event).Error(0)
}

func (m *MockHTTPServer) IsRunning() bool {
	return m.Called().Bool(0)
}
