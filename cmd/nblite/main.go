// Command nblite converts a directory of extended-markdown notebooks into a
// browser-runtime notebook bundle: one .ipynb per source document plus the
// runtime manifest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/coursekit/nblite/internal/commands"
	convertcmd "github.com/coursekit/nblite/internal/commands/convert"
	"github.com/coursekit/nblite/internal/convert"
	"github.com/coursekit/nblite/internal/logging/gologger"
	"github.com/coursekit/nblite/internal/runtimeconfig"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("nblite: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("nblite", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: nblite [flags] <input-dir> <output-dir>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	inputSuffix := fs.String("input-suffix", convert.DefaultInputSuffix, "Suffix selecting source documents in the input directory")
	outputSuffix := fs.String("output-suffix", convert.DefaultOutputSuffix, "Suffix applied to emitted notebook files")
	kernelName := fs.String("kernel-name", convert.DefaultKernelName, "Kernel name recorded in output notebooks")
	kernelDisplayName := fs.String("kernel-display-name", convert.DefaultKernelDisplayName, "Kernel display name recorded in output notebooks")
	language := fs.String("language", convert.DefaultLanguage, "Target-language identifier used in the manifest storage key")
	continueOnError := fs.Bool("continue-on-error", false, "Keep converting remaining documents when one fails")
	logLevel := fs.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	logFormat := fs.String("log-format", "console", "Log format (json, console, pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("expected <input-dir> and <output-dir> arguments, got %d", fs.NArg())
	}
	inputDir := fs.Arg(0)
	outputDir := fs.Arg(1)

	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Level = *logLevel
	cfg.Logging.Format = *logFormat
	cfg.Convert = convert.Config{
		InputSuffix:       *inputSuffix,
		OutputSuffix:      *outputSuffix,
		KernelName:        *kernelName,
		KernelDisplayName: *kernelDisplayName,
		Language:          *language,
		ContinueOnError:   *continueOnError,
	}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Focus:     cfg.Logging.Focus,
	})
	if err != nil {
		return err
	}

	service, err := convert.NewService(cfg.Convert, nil, nil, provider)
	if err != nil {
		return err
	}

	handler := convertcmd.NewConvertDirectoryHandler(service, commands.CommandLogger(provider, "convert"))
	cmd := convertcmd.ConvertDirectoryCommand{
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "converted notebooks from %s into %s\n", inputDir, outputDir)
	return nil
}
