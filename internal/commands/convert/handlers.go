package convertcmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/coursekit/nblite/internal/commands"
	"github.com/coursekit/nblite/internal/logging"
	"github.com/coursekit/nblite/pkg/interfaces"
)

const convertOperation = "convert.directory"

var _ command.Commander[ConvertDirectoryCommand] = (*ConvertDirectoryHandler)(nil)

// ConvertDirectoryHandler orchestrates directory conversion runs via the
// shared command handler foundation.
type ConvertDirectoryHandler struct {
	inner *commands.Handler[ConvertDirectoryCommand]
}

// NewConvertDirectoryHandler creates a handler bound to the supplied
// conversion service.
func NewConvertDirectoryHandler(service interfaces.ConvertService, logger interfaces.Logger, opts ...commands.HandlerOption[ConvertDirectoryCommand]) *ConvertDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ConvertDirectoryCommand) error {
		result, err := service.ProcessDirectory(ctx, msg.InputDir, msg.OutputDir)
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"converted_count": len(result.Converted),
				"skipped_count":   len(result.Skipped),
				"error_count":     len(result.Errors),
			}).Info("convert.command.directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ConvertDirectoryCommand]{
		commands.WithLogger[ConvertDirectoryCommand](baseLogger),
		commands.WithOperation[ConvertDirectoryCommand](convertOperation),
		commands.WithMessageFields(func(msg ConvertDirectoryCommand) map[string]any {
			return map[string]any{
				"input_dir":  msg.InputDir,
				"output_dir": msg.OutputDir,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ConvertDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ConvertDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ConvertDirectoryCommand].
func (h *ConvertDirectoryHandler) Execute(ctx context.Context, msg ConvertDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
