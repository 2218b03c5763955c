package log

import "context"

// NopLogger discards everything.
type NopLogger struct{}

func NewNopLogger() (*NopLogger, error) {
	return &NopLogger{}, nil
}

func (NopLogger) Info(context.Context, string, ...interface{})      {}
func (NopLogger) Alert(context.Context, string, ...interface{})     {}
func (NopLogger) Error(context.Context, string, ...interface{})     {}
func (NopLogger) Warn(context.Context, string, ...interface{})      {}
func (NopLogger) Debug(context.Context, string, ...interface{})     {}
func (NopLogger) Notice(context.Context, string, ...interface{})    {}
func (NopLogger) Critical(context.Context, string, ...interface{})  {}
func (NopLogger) Emergency(context.Context, string, ...interface{}) {}
