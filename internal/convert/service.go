package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/coursekit/nblite/internal/logging"
	"github.com/coursekit/nblite/internal/manifest"
	"github.com/coursekit/nblite/internal/notebook"
	"github.com/coursekit/nblite/internal/rewrite"
	"github.com/coursekit/nblite/pkg/interfaces"
)

// Service converts extended-markdown notebook documents into runtime
// notebooks. Document transformation is pure text-in, notebook-out; only the
// directory workflow touches the filesystem.
type Service struct {
	cfg    Config
	reader interfaces.NotebookReader
	writer interfaces.NotebookWriter
	logger interfaces.Logger
}

var _ interfaces.ConvertService = (*Service)(nil)

// NewService constructs a conversion service. When reader or writer is nil
// the package defaults for the extended-markdown dialect and nbformat output
// are used.
func NewService(cfg Config, reader interfaces.NotebookReader, writer interfaces.NotebookWriter, provider interfaces.LoggerProvider) (*Service, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "convert: invalid configuration")
	}

	if reader == nil {
		reader = notebook.NewReader()
	}
	if writer == nil {
		writer = notebook.NewWriter()
	}

	return &Service{
		cfg:    cfg,
		reader: reader,
		writer: writer,
		logger: logging.ConvertLogger(provider),
	}, nil
}

// ProcessDocument runs the rewrite pipeline over one document's text and
// materialises the result as a notebook with the configured kernelspec. The
// order is fixed: exercise/solution markers first, then admonitions (the
// admonition locator parses the already-partially-rewritten text), then the
// notebook reader.
func (s *Service) ProcessDocument(ctx context.Context, text string) (*interfaces.Notebook, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rewritten, err := rewrite.RewriteExerciseSolution(text)
	if err != nil {
		return nil, err
	}

	rewritten, err = rewrite.RewriteAdmonitions(rewritten)
	if err != nil {
		return nil, err
	}

	nb, err := s.reader.Read(rewritten, interfaces.FormatExtendedMarkdown)
	if err != nil {
		return nil, err
	}

	nb.SetKernelspec(interfaces.Kernelspec{
		Name:        s.cfg.KernelName,
		DisplayName: s.cfg.KernelDisplayName,
	})
	return nb, nil
}

// ProcessFile reads one source document from disk and converts it.
func (s *Service) ProcessFile(ctx context.Context, path string) (*interfaces.Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("convert: read %s: %w", path, err)
	}

	nb, err := s.ProcessDocument(ctx, string(data))
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}
	return nb, nil
}

// ProcessDirectory converts every file matching the input suffix directly
// under inputDir, writing one notebook per source into outputDir, then emits
// the runtime manifest. Documents are processed sequentially in name order;
// each is independent. A failing document aborts the run unless
// ContinueOnError is set, in which case it is recorded and skipped.
func (s *Service) ProcessDirectory(ctx context.Context, inputDir, outputDir string) (*interfaces.ConvertResult, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("convert: create output directory %s: %w", outputDir, err)
	}

	paths, err := s.matchInputs(inputDir)
	if err != nil {
		return nil, err
	}

	result := &interfaces.ConvertResult{}
	for _, path := range paths {
		logger := logging.WithDocumentContext(s.logger, path, "document")

		outPath, err := s.convertFile(ctx, path, outputDir)
		if err != nil {
			if !s.cfg.ContinueOnError {
				return nil, err
			}
			logger.Error("convert.document.failed", "error", err)
			result.Skipped = append(result.Skipped, path)
			result.Errors = append(result.Errors, err)
			continue
		}

		logger.Debug("convert.document.written", "output", outPath)
		result.Converted = append(result.Converted, outPath)
	}

	if err := manifest.Write(outputDir, manifest.Config{
		Language:      s.cfg.Language,
		StoragePrefix: s.cfg.StoragePrefix,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("convert.directory.completed",
		"input_dir", inputDir,
		"output_dir", outputDir,
		"converted", len(result.Converted),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

func (s *Service) convertFile(ctx context.Context, path, outputDir string) (string, error) {
	nb, err := s.ProcessFile(ctx, path)
	if err != nil {
		return "", err
	}

	stem := strings.TrimSuffix(filepath.Base(path), s.cfg.InputSuffix)
	outPath := filepath.Join(outputDir, stem+s.cfg.OutputSuffix)
	if err := s.writer.Write(nb, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// matchInputs lists files directly under dir carrying the input suffix, in
// name order. The walk is deliberately non-recursive, mirroring how course
// bundles keep all notebooks in one flat directory.
func (s *Service) matchInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("convert: read input directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), s.cfg.InputSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
