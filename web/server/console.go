package server

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderLogger implements core.Logger by tagging each message with its render ID
// before handing it to the server's logger
type RenderLogger struct {
	prefix string
	next   core.Logger
}

// NewRenderLogger creates a logger for a specific render
func NewRenderLogger(renderID uint64, next core.Logger) *RenderLogger {
	return &RenderLogger{prefix: fmt.Sprintf("[render %d] ", renderID), next: next}
}

func (rl *RenderLogger) Debugf(format string, args ...interface{}) {
	rl.next.Debugf(rl.prefix+format, args...)
}

func (rl *RenderLogger) Infof(format string, args ...interface{}) {
	rl.next.Infof(rl.prefix+format, args...)
}

func (rl *RenderLogger) Noticef(format string, args ...interface{}) {
	rl.next.Noticef(rl.prefix+format, args...)
}

func (rl *RenderLogger) Warningf(format string, args ...interface{}) {
	rl.next.Warningf(rl.prefix+format, args...)
}

func (rl *RenderLogger) Errorf(format string, args ...interface{}) {
	rl.next.Errorf(rl.prefix+format, args...)
}
