package logging

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// LogWithTrace logs a message with trace information and caller details
func LogWithTrace(ctx context.Context, logger *logrus.Logger, layer, message string, fields logrus.Fields) {
	logger.WithFields(withTraceFields(ctx, layer, fields)).Info(formatMessage(layer, message))
}

// LogWarnWithTrace logs a warning with trace information and caller details
func LogWarnWithTrace(ctx context.Context, logger *logrus.Logger, layer, message string, fields logrus.Fields) {
	logger.WithFields(withTraceFields(ctx, layer, fields)).Warn(formatMessage(layer, message))
}

// LogErrorWithTrace logs an error with trace information and caller details
func LogErrorWithTrace(ctx context.Context, logger *logrus.Logger, layer, message string, err error, fields logrus.Fields) {
	logger.WithFields(withTraceFields(ctx, layer, fields)).WithError(err).Error(formatMessage(layer, message))
}

// LogErrorWithTraceNotNotify logs an expected error (validation, duplicate)
// that should not trigger alerts.
func LogErrorWithTraceNotNotify(ctx context.Context, logger *logrus.Logger, layer, message string, err error, fields logrus.Fields) {
	f := withTraceFields(ctx, layer, fields)
	f["error.notify"] = false
	logger.WithFields(f).WithError(err).Error(formatMessage(layer, message))
}

// withTraceFields attaches dd trace/span IDs, caller location and the layer
// name to the log fields.
func withTraceFields(ctx context.Context, layer string, fields logrus.Fields) logrus.Fields {
	if fields == nil {
		fields = logrus.Fields{}
	}

	// Skip 2 frames (withTraceFields and the Log* wrapper) to reach the
	// actual caller.
	if _, file, line, ok := runtime.Caller(2); ok {
		fields["file"] = file
		fields["line"] = line
	}

	if span, ok := tracer.SpanFromContext(ctx); ok {
		spanContext := span.Context()
		fields["dd.trace_id"] = spanContext.TraceID()
		fields["dd.span_id"] = spanContext.SpanID()
	}

	fields["layer"] = layer
	return fields
}

func formatMessage(layer, message string) string {
	// Skip 2 frames here as well to report the Log* caller.
	if _, file, line, ok := runtime.Caller(2); ok {
		return fmt.Sprintf("[%s] %s:%d | %s", layer, file, line, message)
	}
	return fmt.Sprintf("[%s] %s", layer, message)
}
