package wrapper

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// FactoryConfig contains the options used when opening documents
type FactoryConfig struct {
	// MaxFileSize limits the size of the PDF being opened (in bytes, 0 = unlimited)
	MaxFileSize int64 `json:"max_file_size"`

	// UserPassword and OwnerPassword are handed to pdfcpu for encrypted documents
	UserPassword  string `json:"-"`
	OwnerPassword string `json:"-"`
}

// DefaultFactoryConfig returns the configuration used by Open
func DefaultFactoryConfig() FactoryConfig {
	return FactoryConfig{
		MaxFileSize: 100 * 1024 * 1024, // 100MB
	}
}

// OpenFile reads the PDF at path into a pdfcpu-backed object graph
func OpenFile(path string, config FactoryConfig) (*PDFCPUGraph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to open file: %w", err),
		}
	}
	defer file.Close()

	if config.MaxFileSize > 0 {
		info, err := file.Stat()
		if err != nil {
			return nil, &WrapperError{Library: LibraryPDFCPU, Op: "open_file", Err: err}
		}
		if info.Size() > config.MaxFileSize {
			return nil, &WrapperError{
				Library: LibraryPDFCPU,
				Op:      "open_file",
				Err:     fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), config.MaxFileSize),
			}
		}
	}

	return open(file, config, "open_file")
}

// OpenBytes reads an in-memory PDF into a pdfcpu-backed object graph
func OpenBytes(data []byte, config FactoryConfig) (*PDFCPUGraph, error) {
	if len(data) == 0 {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "open_bytes", Err: fmt.Errorf("empty input")}
	}
	if config.MaxFileSize > 0 && int64(len(data)) > config.MaxFileSize {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open_bytes",
			Err:     fmt.Errorf("input too large: %d bytes (max: %d bytes)", len(data), config.MaxFileSize),
		}
	}
	return open(bytes.NewReader(data), config, "open_bytes")
}

func open(rs io.ReadSeeker, config FactoryConfig, op string) (*PDFCPUGraph, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if config.UserPassword != "" {
		conf.UserPW = config.UserPassword
	}
	if config.OwnerPassword != "" {
		conf.OwnerPW = config.OwnerPassword
	}

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      op,
			Err:     fmt.Errorf("failed to read PDF context: %w", err),
		}
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      op,
			Err:     fmt.Errorf("failed to ensure page count: %w", err),
		}
	}

	return NewPDFCPUGraph(ctx), nil
}
