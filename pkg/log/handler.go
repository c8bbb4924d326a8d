package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// stacktraceHandler wraps a slog.Handler and, whenever a record carries an
// error attribute, attaches the stack trace captured by cockroachdb/errors
// at construction time (see pkg/errors WithStack) as a separate attribute.
// This keeps factorization failures traceable back to the estimator call
// site without every log call site extracting the trace itself.
type stacktraceHandler struct {
	next slog.Handler
}

// WrapByErrFmtHandler wraps a slog handler with stacktrace extraction.
func WrapByErrFmtHandler(next slog.Handler) slog.Handler {
	return &stacktraceHandler{next: next}
}

func (h *stacktraceHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *stacktraceHandler) Handle(ctx context.Context, r slog.Record) error {
	var trace string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			trace = extractStacktrace(err)
		}
		return false
	})
	if trace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, trace))
	}
	return h.next.Handle(ctx, r)
}

func (h *stacktraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stacktraceHandler{next: h.next.WithAttrs(attrs)}
}

func (h *stacktraceHandler) WithGroup(g string) slog.Handler {
	return &stacktraceHandler{next: h.next.WithGroup(g)}
}

func extractStacktrace(err error) string {
	details := errors.GetSafeDetails(err).SafeDetails
	if len(details) > 0 {
		return details[0]
	}
	return ""
}
