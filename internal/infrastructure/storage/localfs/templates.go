package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
)

const PrintTemplateKey = "print.xlsx"

// TemplateSource serves the stored print template and falls back to a
// generated form when none is stored.
type TemplateSource struct {
	storage  ports.ObjectStorage
	generate func() ([]byte, error)
}

func NewTemplateSource(storage ports.ObjectStorage, generate func() ([]byte, error)) *TemplateSource {
	return &TemplateSource{storage: storage, generate: generate}
}

func (t *TemplateSource) PrintTemplate(ctx context.Context) ([]byte, error) {
	if t.storage != nil {
		rc, err := t.storage.Open(ctx, PrintTemplateKey)
		if err == nil {
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, fmt.Errorf("read print template: %w", err)
			}
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open print template: %w", err)
		}
	}
	data, err := t.generate()
	if err != nil {
		return nil, fmt.Errorf("generate print template: %w", err)
	}
	return data, nil
}
