package riskdata

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"math"
	"strings"
	"testing"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

type fakeStorage struct {
	files map[string]string
	opens int
}

func (s *fakeStorage) Save(context.Context, string, io.Reader) error { return nil }

func (s *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.opens++
	data, ok := s.files[key]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func TestLoadBuiltInTables(t *testing.T) {
	tables, err := NewLoader(nil).LoadRiskTables(context.Background())
	if err != nil {
		t.Fatalf("LoadRiskTables() error = %v", err)
	}
	if len(tables.Base) == 0 || len(tables.Adjust) == 0 || len(tables.Treatment) != 3 || len(tables.Coverage) != 3 {
		t.Fatalf("unexpected table sizes: %d %d %d %d", len(tables.Base), len(tables.Adjust), len(tables.Treatment), len(tables.Coverage))
	}
	if tables.Base[0].Rate <= 0 {
		t.Fatalf("aliased rate column not read: %+v", tables.Base[0])
	}
}

func TestLoadOverridesWithAliases(t *testing.T) {
	storage := &fakeStorage{files: map[string]string{
		FileAdjust:    "\xEF\xBB\xBF질병군,항목종류,항목명,계수\n암,흡연여부,흡연,1.5\n",
		FileTreatment: "질병,수술비용\n암,1000\n",
	}}
	loader := NewLoader(storage)
	tables, err := loader.LoadRiskTables(context.Background())
	if err != nil {
		t.Fatalf("LoadRiskTables() error = %v", err)
	}
	if len(tables.Adjust) != 1 || tables.Adjust[0].Coefficient != 1.5 || tables.Adjust[0].Weight != 1 {
		t.Fatalf("unexpected adjust rows %+v", tables.Adjust)
	}
	tr := tables.Treatment[0]
	if !math.IsNaN(tr.AvgCost) || tr.SurgeryCost != 1000 || !math.IsNaN(tr.RecoveryDays) {
		t.Fatalf("unexpected treatment row %+v", tr)
	}

	opens := storage.opens
	if _, err := loader.LoadRiskTables(context.Background()); err != nil {
		t.Fatalf("second load error = %v", err)
	}
	if storage.opens != opens {
		t.Fatalf("expected cached tables on second load")
	}
}

func TestLoadRejectsMissingColumns(t *testing.T) {
	storage := &fakeStorage{files: map[string]string{
		FileBase: "질병군,연령대\n암,40대\n",
	}}
	_, err := NewLoader(storage).LoadRiskTables(context.Background())
	var missing *domain.MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected missing columns, got %v", err)
	}
	if strings.Join(missing.Columns, ",") != "성별,위험률" {
		t.Fatalf("unexpected columns %v", missing.Columns)
	}
}
