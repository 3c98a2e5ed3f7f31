package narrative

import (
	"context"
	"testing"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/remodel"
)

func TestRenderSummarySentences(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	sentences := remodel.SummarySentences(
		domain.RemodelDeltas{MonthlyFee: 50000, Total: 6_500_000, AfterFee: 100000},
		domain.ChangeCounts{Increased: 2, New: 1},
	)
	out, err := r.Render(context.Background(), sentences)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := []string{
		"💸 월 보험료가 50,000원 절감되어 경제적입니다.",
		"📉 총 납입 보험료가 6,500,000원 줄어들어 효율적인 설계입니다. 💡 현재 보험료 기준으로 약 5년 5개월 동안 납입 가능해요.",
		"📊 총 변화 항목: 3개 | 🟦 강화: 2개 | 🟨 축소: 0개 | 🟢 신규: 1개 | 🔴 삭제: 0개",
	}
	if len(out) != len(want) {
		t.Fatalf("expected %d sentences, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i].Text != want[i] {
			t.Fatalf("sentence %d = %q, want %q", i, out[i].Text, want[i])
		}
	}
}

func TestRenderShortDuration(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	out, err := r.Render(context.Background(), remodel.SummarySentences(
		domain.RemodelDeltas{Total: 300000, AfterFee: 100000}, domain.ChangeCounts{},
	))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out[1].Text != "📉 총 납입 보험료가 300,000원 줄어들어 효율적인 설계입니다. 💡 현재 보험료 기준으로 약 3개월 동안 납입 가능해요." {
		t.Fatalf("unexpected text %q", out[1].Text)
	}
}

func TestEveryKeyHasTemplate(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	sentences := append(
		remodel.SummarySentences(domain.RemodelDeltas{MonthlyFee: -1, Total: -1, Years: 1}, domain.ChangeCounts{}),
		remodel.EffectSentences(domain.RemodelDeltas{MonthlyFee: -1, Total: -1, Years: -1}, domain.ChangeCounts{New: 1, Increased: 1, Removed: 1})...,
	)
	if _, err := r.Render(context.Background(), sentences); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
}

func TestRenderUnknownKey(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	_, err = r.Render(context.Background(), []domain.Sentence{{Key: "nope"}})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
