// Package convertadapter wires the conversion command handlers into host
// command registries.
package convertadapter

import (
	"errors"

	"github.com/coursekit/nblite/internal/commands"
	convertcmd "github.com/coursekit/nblite/internal/commands/convert"
	"github.com/coursekit/nblite/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring
// command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers produced by RegisterConvertCommands.
type HandlerSet struct {
	ConvertDirectory *convertcmd.ConvertDirectoryHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	handlerOpts []commands.HandlerOption[convertcmd.ConvertDirectoryCommand]
}

// WithHandlerOptions forwards options to the ConvertDirectoryHandler
// constructor.
func WithHandlerOptions(opts ...commands.HandlerOption[convertcmd.ConvertDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.handlerOpts = append(cfg.handlerOpts, opts...)
	}
}

// RegisterConvertCommands builds conversion command handlers and registers
// them with the provided registry. The constructed HandlerSet is returned so
// callers can wire additional integrations as needed.
func RegisterConvertCommands(reg CommandRegistry, service interfaces.ConvertService, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("convert command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "convert")
	handler := convertcmd.NewConvertDirectoryHandler(service, logger, cfg.handlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{ConvertDirectory: handler}, nil
}
