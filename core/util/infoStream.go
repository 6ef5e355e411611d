package util

import (
	"fmt"
	"io"

	"github.com/op/go-logging"
)

// util/InfoStream.java

/*
Debugging API for components such as the segment merger.

NOTE: Enabling infostreams may cause performance degradation in some
components.
*/
type InfoStream interface {
	io.Closer
	Clone() InfoStream
	// prints a message
	Message(component, message string, args ...interface{})
	// returns true if messages are enabled and should be posted.
	IsEnabled(component string) bool
}

// Instance of InfoStream that does no logging at all.
var NO_OUTPUT = NoOutput(true)

type NoOutput bool

func (is NoOutput) Message(component, message string, args ...interface{}) {
	panic("message() should not be called when isEnabled returns false")
}

func (is NoOutput) IsEnabled(component string) bool {
	return false
}

func (is NoOutput) Close() error { return nil }

func (is NoOutput) Clone() InfoStream {
	return is
}

/*
InfoStream that forwards messages to a go-logging logger. When
components is empty every component is enabled; otherwise only the
named ones are.
*/
type LoggingInfoStream struct {
	logger     *logging.Logger
	components map[string]bool
}

func NewLoggingInfoStream(logger *logging.Logger, components ...string) *LoggingInfoStream {
	assert(logger != nil)
	ans := &LoggingInfoStream{logger: logger}
	if len(components) > 0 {
		ans.components = make(map[string]bool)
		for _, c := range components {
			ans.components[c] = true
		}
	}
	return ans
}

func (is *LoggingInfoStream) Message(component, message string, args ...interface{}) {
	is.logger.Infof("%v: %v", component, fmt.Sprintf(message, args...))
}

func (is *LoggingInfoStream) IsEnabled(component string) bool {
	if !is.logger.IsEnabledFor(logging.INFO) {
		return false
	}
	return is.components == nil || is.components[component]
}

func (is *LoggingInfoStream) Close() error { return nil }

func (is *LoggingInfoStream) Clone() InfoStream {
	return &LoggingInfoStream{logger: is.logger, components: is.components}
}
