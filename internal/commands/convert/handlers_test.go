package convertcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/coursekit/nblite/pkg/interfaces"
)

type stubConvertService struct {
	inputDir  string
	outputDir string
	calls     int
	result    *interfaces.ConvertResult
	err       error
}

func (s *stubConvertService) ProcessDocument(ctx context.Context, text string) (*interfaces.Notebook, error) {
	return nil, errors.New("not used")
}

func (s *stubConvertService) ProcessFile(ctx context.Context, path string) (*interfaces.Notebook, error) {
	return nil, errors.New("not used")
}

func (s *stubConvertService) ProcessDirectory(ctx context.Context, inputDir, outputDir string) (*interfaces.ConvertResult, error) {
	s.calls++
	s.inputDir = inputDir
	s.outputDir = outputDir
	return s.result, s.err
}

func TestConvertDirectoryHandlerRunsService(t *testing.T) {
	stub := &stubConvertService{result: &interfaces.ConvertResult{Converted: []string{"a.ipynb"}}}
	handler := NewConvertDirectoryHandler(stub, nil)

	cmd := ConvertDirectoryCommand{InputDir: "course/src", OutputDir: "course/out"}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if stub.calls != 1 {
		t.Fatalf("expected one service call, got %d", stub.calls)
	}
	if stub.inputDir != "course/src" || stub.outputDir != "course/out" {
		t.Fatalf("directories not forwarded: %q %q", stub.inputDir, stub.outputDir)
	}
}

func TestConvertDirectoryHandlerRejectsInvalidMessage(t *testing.T) {
	stub := &stubConvertService{}
	handler := NewConvertDirectoryHandler(stub, nil)

	if err := handler.Execute(context.Background(), ConvertDirectoryCommand{}); err == nil {
		t.Fatalf("expected validation error")
	}
	if stub.calls != 0 {
		t.Fatalf("service must not run for invalid messages, got %d calls", stub.calls)
	}
}

func TestConvertDirectoryHandlerPropagatesServiceError(t *testing.T) {
	boom := errors.New("conversion blew up")
	stub := &stubConvertService{err: boom}
	handler := NewConvertDirectoryHandler(stub, nil)

	cmd := ConvertDirectoryCommand{InputDir: "in", OutputDir: "out"}
	err := handler.Execute(context.Background(), cmd)
	if err == nil {
		t.Fatalf("expected service error to surface")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("service error lost in wrapping: %v", err)
	}
}
