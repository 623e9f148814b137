package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/config"
)

// stubCodec is a WorkbookCodec for tests: Decode returns a canned table
// (or error) and Encode records the rows it was handed.
type stubCodec struct {
	table     *Table
	decodeErr error
	encodeErr error

	encoded []Row
}

func (c *stubCodec) Decode(r io.Reader) (*Table, error) {
	io.Copy(io.Discard, r)
	if c.decodeErr != nil {
		return nil, c.decodeErr
	}
	return c.table, nil
}

func (c *stubCodec) Encode(rows []Row) ([]byte, error) {
	if c.encodeErr != nil {
		return nil, c.encodeErr
	}
	c.encoded = rows
	return []byte("workbook-bytes"), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   100 * time.Millisecond,
			Timeout:       5 * time.Second,
		},
	}
}

func TestServiceTransformWorkbook(t *testing.T) {
	codec := &stubCodec{
		table: newTable(
			[]string{"Age", "$500"},
			[]string{"30", "100"},
			[]string{"31", "110"},
		),
	}
	svc := NewService(testConfig(), codec)

	result, err := svc.TransformWorkbook(context.Background(), "Input.xlsx", strings.NewReader("upload"))
	if err != nil {
		t.Fatalf("TransformWorkbook() error = %v", err)
	}

	if result.JobID == "" {
		t.Error("result has no job ID")
	}
	if result.FileName != "Input.xlsx" {
		t.Errorf("FileName = %q, want Input.xlsx", result.FileName)
	}
	if !bytes.Equal(result.Output, []byte("workbook-bytes")) {
		t.Errorf("Output = %q, want encoded workbook bytes", result.Output)
	}
	if result.Summary.Options != 1 || result.Summary.SourceRows != 2 {
		t.Errorf("Summary = %+v", result.Summary)
	}

	// 2 data rows + 1 divider handed to the encoder.
	if len(codec.encoded) != 3 {
		t.Errorf("encoder received %d rows, want 3", len(codec.encoded))
	}

	// The slot must be free again after the call.
	if got := svc.LimiterStatus().Active; got != 0 {
		t.Errorf("active transforms after completion = %d, want 0", got)
	}
}

func TestServiceDecodeFailure(t *testing.T) {
	codec := &stubCodec{decodeErr: errors.New("not a valid xlsx workbook")}
	svc := NewService(testConfig(), codec)

	_, err := svc.TransformWorkbook(context.Background(), "Input.xlsx", strings.NewReader("junk"))
	if err == nil {
		t.Fatal("TransformWorkbook() succeeded, want decode error")
	}
	if !strings.Contains(err.Error(), "not a valid xlsx") {
		t.Errorf("error = %v, want decode failure preserved", err)
	}
}

func TestServiceTransformFailure(t *testing.T) {
	codec := &stubCodec{
		table: newTable([]string{"Age", "$500"}, []string{"adult", "100"}),
	}
	svc := NewService(testConfig(), codec)

	_, err := svc.TransformWorkbook(context.Background(), "Input.xlsx", strings.NewReader("upload"))

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error = %v, want *ParseError to surface unwrapped", err)
	}
}

func TestServiceEncodeFailure(t *testing.T) {
	codec := &stubCodec{
		table:     newTable([]string{"Age", "$500"}, []string{"30", "100"}),
		encodeErr: errors.New("disk full"),
	}
	svc := NewService(testConfig(), codec)

	_, err := svc.TransformWorkbook(context.Background(), "Input.xlsx", strings.NewReader("upload"))
	if err == nil || !strings.Contains(err.Error(), "encode workbook") {
		t.Errorf("error = %v, want wrapped encode failure", err)
	}
}

func TestServiceRejectsWhenSaturated(t *testing.T) {
	codec := &stubCodec{
		table: newTable([]string{"Age", "$500"}, []string{"30", "100"}),
	}
	cfg := testConfig()
	cfg.Upload.MaxConcurrent = 1
	svc := NewService(cfg, codec)

	// Occupy the only slot directly through the limiter.
	if err := svc.limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer svc.limiter.Release()

	_, err := svc.TransformWorkbook(context.Background(), "Input.xlsx", strings.NewReader("upload"))
	if err != ErrTooManyTransforms {
		t.Errorf("error = %v, want ErrTooManyTransforms", err)
	}
}

func TestServiceWaitForTransforms(t *testing.T) {
	codec := &stubCodec{
		table: newTable([]string{"Age", "$500"}, []string{"30", "100"}),
	}
	svc := NewService(testConfig(), codec)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Nothing in flight: drain returns promptly.
	if err := svc.WaitForTransforms(ctx); err != nil {
		t.Errorf("WaitForTransforms() error = %v", err)
	}
}
