package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/coursekit/nblite/internal/logging"
	"github.com/coursekit/nblite/pkg/interfaces"
)

const defaultHandlerTimeout = 30 * time.Second

// Text codes for failures raised by the handler foundation itself. Errors
// from the conversion pipeline arrive already wrapped with their own codes
// (admonition structure, marker sequencing) and pass through untouched.
const (
	codeCommandInvalid  = "CONVERT_COMMAND_INVALID"
	codeCommandCanceled = "CONVERT_COMMAND_CANCELED"
	codeCommandTimeout  = "CONVERT_COMMAND_TIMEOUT"
	codeCommandFailed   = "CONVERT_COMMAND_FAILED"
)

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps command execution with shared converter concerns (context,
// logging, error tagging, telemetry).
type Handler[T command.Message] struct {
	exec          command.CommandFunc[T]
	logger        interfaces.Logger
	timeout       time.Duration
	operation     string
	messageFields func(T) map[string]any
	telemetry     Telemetry[T]
}

// NewHandler creates a handler that satisfies go-command's Commander
// interface while applying validation, logging, and timeout enforcement.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: defaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute conforms to command.Commander[T].Execute and applies validation,
// context management, logging, and error categorisation before delegating to
// the wrapped function.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	msgType := command.GetMessageType(msg)

	if err := command.ValidateMessage(msg); err != nil {
		return h.wrapFailure(err, goerrors.CategoryValidation, codeCommandInvalid,
			"command message validation failed", msgType)
	}

	ctx = ensureContext(ctx)
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return h.wrapContext(err, msgType)
	}

	fields := map[string]any{
		"command": msgType,
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.messageFields != nil {
		for key, value := range h.messageFields(msg) {
			fields[key] = value
		}
	}
	logger := logging.WithFields(h.logger, fields)
	logger.Debug("command.execute.start")

	started := time.Now()
	execErr := h.exec(ctx, msg)
	ctxErr := ctx.Err()

	h.emitTelemetry(ctx, msg, fields, time.Since(started), execErr, ctxErr, logger)

	if execErr != nil {
		return h.wrapFailure(execErr, goerrors.CategoryCommand, codeCommandFailed,
			"command execution failed", msgType)
	}
	if ctxErr != nil {
		return h.wrapContext(ctxErr, msgType)
	}
	return nil
}

// wrapFailure tags an error with the executing command's identity. Errors
// already wrapped upstream keep their category and text code so callers can
// still address them.
func (h *Handler[T]) wrapFailure(err error, category goerrors.Category, code, msg, msgType string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).
		WithTextCode(code).
		WithMetadata(h.errorMetadata(msgType))
}

func (h *Handler[T]) wrapContext(err error, msgType string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}

	code := codeCommandCanceled
	msg := "command execution cancelled"
	if err == context.DeadlineExceeded {
		code = codeCommandTimeout
		msg = "command execution deadline exceeded"
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, msg).
		WithTextCode(code).
		WithMetadata(h.errorMetadata(msgType))
}

func (h *Handler[T]) errorMetadata(msgType string) map[string]any {
	meta := map[string]any{"command": msgType}
	if h.operation != "" {
		meta["operation"] = h.operation
	}
	return meta
}

func (h *Handler[T]) emitTelemetry(ctx context.Context, msg T, fields map[string]any, duration time.Duration, execErr, ctxErr error, logger interfaces.Logger) {
	status := TelemetryStatusSuccess
	err := execErr
	switch {
	case execErr != nil:
		status = TelemetryStatusFailed
	case ctxErr != nil:
		status = TelemetryStatusContextError
		err = ctxErr
	}

	telemetry := h.telemetry
	if telemetry == nil {
		telemetry = DefaultTelemetry[T](h.logger)
	}
	telemetry(ctx, msg, TelemetryInfo{
		Command:   command.GetMessageType(msg),
		Operation: h.operation,
		Fields:    fields,
		Duration:  duration,
		Error:     err,
		Status:    status,
		Logger:    logger,
	})
}

// WithTimeout overrides the default execution timeout.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout <= 0 {
			h.timeout = 0
			return
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger used during execution. Defaults to a no-op
// logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger == nil {
			h.logger = logging.NoOp()
			return
		}
		h.logger = logger
	}
}

// WithOperation sets a human-friendly operation name emitted with every log
// entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields registers an extractor that turns the message into
// structured log fields attached to every entry for the execution.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.messageFields = fn
	}
}

// WithTelemetry overrides the default telemetry callback.
func WithTelemetry[T command.Message](telemetry Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = telemetry
	}
}

func (h *Handler[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
