package logger

import (
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock implementing Logger. Every log call is recorded as the method
// name with the message and the key/value slice as arguments, e.g.
//
//	m.On("Warn", "driver: failed to destroy context", mock.Anything).Once()
//
// Loggers derived with With share the mock, so their calls are recorded as well.
type MockLogger struct {
	mock.Mock

	mu    sync.Mutex
	level Level
}

var _ Logger = (*MockLogger)(nil)

// NewMockLogger creates a MockLogger at DebugLevel.
func NewMockLogger() *MockLogger {
	return &MockLogger{level: DebugLevel}
}

// IgnoreDebug accepts any number of Debug calls.
func (m *MockLogger) IgnoreDebug() *MockLogger {
	m.On("Debug", mock.Anything, mock.Anything).Maybe()
	return m
}

// ExpectWarn expects exactly one Warn call with msg.
func (m *MockLogger) ExpectWarn(msg string) *mock.Call {
	return m.On("Warn", msg, mock.Anything).Once()
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.MethodCalled("Debug", msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.MethodCalled("Info", msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.MethodCalled("Warn", msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.MethodCalled("Error", msg, keysAndValues)
}

func (m *MockLogger) Fatal(msg string, keysAndValues ...any) {
	m.MethodCalled("Fatal", msg, keysAndValues)
}

func (m *MockLogger) SetLevel(level Level) {
	m.mu.Lock()
	m.level = level
	m.mu.Unlock()
}

func (m *MockLogger) Level() Level {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.level
}

func (m *MockLogger) With(...any) Logger {
	return m
}
