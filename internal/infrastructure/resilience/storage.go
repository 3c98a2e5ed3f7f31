package resilience

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
)

// GuardedStorage reads objects through an Executor. Reads are buffered so a
// retried attempt never hands out a half-consumed reader.
type GuardedStorage struct {
	next ports.ObjectStorage
	exec *Executor
	name string
}

func GuardStorage(next ports.ObjectStorage, exec *Executor, name string) *GuardedStorage {
	return &GuardedStorage{next: next, exec: exec, name: name}
}

func (s *GuardedStorage) Save(ctx context.Context, key string, data io.Reader) error {
	return s.next.Save(ctx, key, data)
}

func (s *GuardedStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	var data []byte
	err := s.exec.Do(ctx, s.name+".open", func(ctx context.Context) error {
		rc, err := s.next.Open(ctx, key)
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err = io.ReadAll(rc)
		return err
	}, ClassifyStorage)
	if err != nil {
		if IsCircuitOpen(err) {
			return nil, domain.WrapError(domain.ErrTemporary, "open "+key, err)
		}
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ClassifyStorage treats missing objects and cancellation as final outcomes
// that say nothing about the health of the store.
func ClassifyStorage(err error) Outcome {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Outcome{}
	case errors.Is(err, fs.ErrPermission):
		return Outcome{Count: true}
	default:
		return Outcome{Retry: true, Count: true}
	}
}
