package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/config"
	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/logging"
	"github.com/google/uuid"
)

// WorkbookCodec decodes an uploaded workbook into a Table and encodes
// normalized rows back into workbook bytes. Implemented by
// internal/xlsx; the core stays free of spreadsheet-library details.
type WorkbookCodec interface {
	Decode(r io.Reader) (*Table, error)
	Encode(rows []Row) ([]byte, error)
}

// TransformResult is the outcome of one workbook transformation.
// Output holds the serialized Output.xlsx bytes; nothing is persisted
// anywhere else, the result lives only in the response.
type TransformResult struct {
	JobID    string
	FileName string
	Output   []byte
	Summary  Summary
	Duration time.Duration
}

// Service wires the pricing transformation to the workbook codec and
// guards it with a concurrency limiter. It is safe for concurrent use.
type Service struct {
	cfg     *config.Config
	codec   WorkbookCodec
	limiter *TransformLimiter
}

// NewService creates a Service with limits taken from the config.
func NewService(cfg *config.Config, codec WorkbookCodec) *Service {
	return &Service{
		cfg:     cfg,
		codec:   codec,
		limiter: NewTransformLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
	}
}

// TransformWorkbook runs the full decode -> transform -> encode cycle
// for one uploaded file. It blocks until done or until the configured
// timeout expires; progress is bounded by rows x options x range width,
// so even large sheets finish quickly.
func (s *Service) TransformWorkbook(ctx context.Context, fileName string, file io.Reader) (*TransformResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	jobCtx, cancel := context.WithTimeout(ctx, s.cfg.Upload.Timeout)
	defer cancel()

	jobID := uuid.New().String()
	logger := logging.WithFields(ctx, "job_id", jobID, "file", fileName)
	start := time.Now()

	input, err := s.codec.Decode(file)
	if err != nil {
		logger.Warn("workbook decode failed", "error", err)
		return nil, fmt.Errorf("decode workbook: %w", err)
	}
	if err := jobCtx.Err(); err != nil {
		return nil, err
	}

	rows, summary, err := Transform(input)
	if err != nil {
		logger.Warn("transformation failed", "error", err)
		return nil, err
	}
	if err := jobCtx.Err(); err != nil {
		return nil, err
	}

	output, err := s.codec.Encode(rows)
	if err != nil {
		logger.Error("workbook encode failed", "error", err)
		return nil, fmt.Errorf("encode workbook: %w", err)
	}

	result := &TransformResult{
		JobID:    jobID,
		FileName: fileName,
		Output:   output,
		Summary:  summary,
		Duration: time.Since(start),
	}

	logger.Info("transformation complete",
		"options", summary.Options,
		"source_rows", summary.SourceRows,
		"output_rows", summary.OutputRows,
		"skipped", summary.Skipped,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// LimiterStatus reports the transformation limiter state.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForTransforms blocks until in-flight transformations drain or the
// context is cancelled. Used during graceful shutdown.
func (s *Service) WaitForTransforms(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
