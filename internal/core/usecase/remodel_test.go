package usecase

import (
	"context"
	"testing"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/remodel"
)

func TestRemodelFormMirrorsBefore(t *testing.T) {
	store := newSessionStoreFake("s1")
	tax := remodel.DefaultTaxonomy()
	uc := NewRemodelUseCase(tax, keyRenderer{}, store, nil)
	item := tax.Groups[0].Items[0]

	before := domain.RemodelForm{MonthlyPremium: "100000", Items: map[string]domain.CoverageValue{item: domain.AmountValue(1000)}}
	if err := uc.SaveForm(context.Background(), "s1", before, nil); err != nil {
		t.Fatalf("SaveForm() error = %v", err)
	}
	b, a, err := uc.Form(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Form() error = %v", err)
	}
	if a.MonthlyPremium != "100000" || a.Items[item].AmountOrZero() != 1000 || b.Items[item].AmountOrZero() != 1000 {
		t.Fatalf("after form should mirror before: %+v %+v", b, a)
	}
}

func TestRemodelCompareRendersAndRemembers(t *testing.T) {
	store := newSessionStoreFake("s1")
	tax := remodel.DefaultTaxonomy()
	rec := newRecorderFake()
	uc := NewRemodelUseCase(tax, keyRenderer{}, store, rec)
	item := tax.Groups[0].Items[0]

	before := &domain.RemodelForm{MonthlyPremium: "150000", Items: map[string]domain.CoverageValue{item: domain.AmountValue(1000)}}
	after := &domain.RemodelForm{MonthlyPremium: "100000", Items: map[string]domain.CoverageValue{item: domain.AmountValue(3000)}}
	res, err := uc.Compare(context.Background(), "s1", before, after)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if res.Counts.Increased != 1 || res.Deltas.MonthlyFee != 50000 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Summary[0].Text != remodel.KeyFeeSaved || res.Effects[0].Text != remodel.KeyEffectFeeSaved {
		t.Fatalf("sentences not rendered: %+v %+v", res.Summary, res.Effects)
	}
	if store.sessions["s1"].After == nil || rec.runs["remodel/ok"] != 1 {
		t.Fatalf("forms not remembered")
	}

	// Without forms the remembered ones are compared again.
	again, err := uc.Compare(context.Background(), "s1", nil, nil)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if again.Counts != res.Counts {
		t.Fatalf("expected identical counts, got %+v", again.Counts)
	}
}

func TestRemodelCompareRequiresBefore(t *testing.T) {
	uc := NewRemodelUseCase(remodel.DefaultTaxonomy(), keyRenderer{}, newSessionStoreFake("s1"), nil)
	if _, err := uc.Compare(context.Background(), "s1", nil, nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestRemodelSaveFormNeedsSession(t *testing.T) {
	uc := NewRemodelUseCase(remodel.DefaultTaxonomy(), keyRenderer{}, newSessionStoreFake(), nil)
	err := uc.SaveForm(context.Background(), "", domain.RemodelForm{}, nil)
	if !domain.IsKind(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}
