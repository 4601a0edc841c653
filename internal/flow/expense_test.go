package flow

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"finbot/internal/domain/transaction"
)

// step feeds one input and fails the test unless done matches.
func step(t *testing.T, f Flow, in Input, wantDone bool) Prompt {
	t.Helper()
	out, done, err := f.Handle(context.Background(), in)
	if err != nil {
		t.Fatalf("Handle(%+v) failed: %v", in, err)
	}
	if done != wantDone {
		t.Fatalf("Handle(%+v) done = %v, want %v (prompt: %s)", in, done, wantDone, out.Text)
	}
	return out
}

func TestExpenseFlow_SingleWithoutInstallmentOffer(t *testing.T) {
	env := newTestEnv()
	f := NewExpenseFlow(1, env.deps)

	out, err := f.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(out.Rows) == 0 {
		t.Fatal("expected category keyboard")
	}

	// Food never offers installments regardless of value.
	step(t, f, SelectionInput("food"), false)
	step(t, f, TextInput("Mercado do mês"), false)
	step(t, f, TextInput("850,50"), false)
	out = step(t, f, TextInput("hoje"), false)
	if !strings.Contains(out.Text, "conta") {
		t.Errorf("expected account prompt, got: %s", out.Text)
	}
	out = step(t, f, SelectionInput("account_c6_pf"), false)
	if !strings.Contains(out.Text, "Confirme") {
		t.Errorf("expected confirmation, got: %s", out.Text)
	}
	out = step(t, f, SelectionInput("confirm"), true)
	if !strings.Contains(out.Text, "✅") {
		t.Errorf("expected success message, got: %s", out.Text)
	}

	if len(env.txRepo.created) != 1 {
		t.Fatalf("created %d records, want 1", len(env.txRepo.created))
	}
	rec := env.txRepo.created[0]
	if !rec.Amount.Equal(decimal.RequireFromString("-850.5")) {
		t.Errorf("Amount = %s, want -850.5", rec.Amount)
	}
	if rec.Type != transaction.TypeExpense {
		t.Errorf("Type = %s, want expense", rec.Type)
	}
	if rec.AccountKey != "c6_pf" {
		t.Errorf("AccountKey = %s, want c6_pf", rec.AccountKey)
	}
	if rec.Installment != nil {
		t.Error("single record should have no installment info")
	}

	// A category matching the catalog entry was created on the fly.
	if len(env.catRepo.categories) != 1 {
		t.Fatalf("created %d categories, want 1", len(env.catRepo.categories))
	}
}

func TestExpenseFlow_Installments(t *testing.T) {
	env := newTestEnv()
	f := NewExpenseFlow(1, env.deps)
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	step(t, f, SelectionInput("shopping"), false)
	step(t, f, TextInput("Notebook novo"), false)
	step(t, f, TextInput("1.200,00"), false)
	step(t, f, TextInput("hoje"), false)

	out := step(t, f, SelectionInput("account_nubank_pf"), false)
	if !strings.Contains(out.Text, "parcelada") {
		t.Errorf("expected installment offer, got: %s", out.Text)
	}

	out = step(t, f, SelectionInput("install_multiple"), false)
	// 1200/12 = 100, well above the per-installment minimum.
	if !strings.Contains(out.Text, "12x") {
		t.Errorf("expected 12x suggestion, got: %s", out.Text)
	}

	step(t, f, SelectionInput("install_12"), false)
	out = step(t, f, SelectionInput("start_2025-07-05"), false)
	if !strings.Contains(out.Text, "12x R$ 100,00") {
		t.Errorf("expected installment summary, got: %s", out.Text)
	}
	step(t, f, SelectionInput("confirm"), true)

	if len(env.txRepo.created) != 12 {
		t.Fatalf("created %d records, want 12", len(env.txRepo.created))
	}
	first, last := env.txRepo.created[0], env.txRepo.created[11]
	if first.Installment == nil || first.Installment.Number != 1 || first.Installment.Total != 12 {
		t.Errorf("first installment info = %+v", first.Installment)
	}
	if got := first.Date.Format("2006-01-02"); got != "2025-07-05" {
		t.Errorf("first date = %s, want 2025-07-05", got)
	}
	if got := last.Date.Format("2006-01-02"); got != "2026-06-05" {
		t.Errorf("last date = %s, want 2026-06-05", got)
	}
	if !strings.Contains(first.Title, "(1/12)") {
		t.Errorf("first title = %q, want (1/12) suffix", first.Title)
	}
}

func TestExpenseFlow_CustomInstallmentCount(t *testing.T) {
	env := newTestEnv()
	f := NewExpenseFlow(1, env.deps)
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	step(t, f, SelectionInput("education"), false)
	step(t, f, TextInput("Curso de inglês"), false)
	step(t, f, TextInput("900"), false)
	step(t, f, TextInput("hoje"), false)
	step(t, f, SelectionInput("account_c6_pf"), false)
	step(t, f, SelectionInput("install_multiple"), false)
	step(t, f, SelectionInput("install_custom"), false)

	// Out of range is re-asked.
	out := step(t, f, TextInput("30"), false)
	if !strings.Contains(out.Text, "inválido") {
		t.Errorf("expected rejection, got: %s", out.Text)
	}
	step(t, f, TextInput("9"), false)
	step(t, f, SelectionInput("start_2025-07-01"), false)
	step(t, f, SelectionInput("confirm"), true)

	if len(env.txRepo.created) != 9 {
		t.Fatalf("created %d records, want 9", len(env.txRepo.created))
	}
	// 900/9 = 100 exactly, no remainder on the last one.
	for _, rec := range env.txRepo.created {
		if !rec.Amount.Equal(decimal.RequireFromString("-100")) {
			t.Errorf("installment amount = %s, want -100", rec.Amount)
		}
	}
}

func TestExpenseFlow_LowValueSkipsInstallmentOffer(t *testing.T) {
	env := newTestEnv()
	f := NewExpenseFlow(1, env.deps)
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	step(t, f, SelectionInput("shopping"), false)
	step(t, f, TextInput("Camiseta"), false)
	step(t, f, TextInput("59,90"), false)
	step(t, f, TextInput("ontem"), false)

	// Below the minimum total the flow goes straight to confirmation.
	out := step(t, f, SelectionInput("account_nubank_pf"), false)
	if !strings.Contains(out.Text, "Confirme") {
		t.Errorf("expected confirmation, got: %s", out.Text)
	}
	step(t, f, SelectionInput("confirm"), true)

	if len(env.txRepo.created) != 1 {
		t.Fatalf("created %d records, want 1", len(env.txRepo.created))
	}
}

func TestExpenseFlow_InvalidInputsReask(t *testing.T) {
	env := newTestEnv()
	f := NewExpenseFlow(1, env.deps)
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Unknown category re-shows the catalog.
	out := step(t, f, SelectionInput("nope"), false)
	if len(out.Rows) == 0 {
		t.Error("expected catalog keyboard again")
	}
	step(t, f, SelectionInput("food"), false)

	out = step(t, f, TextInput("ab"), false)
	if !strings.Contains(out.Text, "curta") {
		t.Errorf("expected short-description rejection, got: %s", out.Text)
	}
	step(t, f, TextInput("Padaria"), false)

	out = step(t, f, TextInput("abc"), false)
	if !strings.Contains(out.Text, "Valor inválido") {
		t.Errorf("expected invalid-value rejection, got: %s", out.Text)
	}
	step(t, f, TextInput("25"), false)

	out = step(t, f, TextInput("32/13"), false)
	if !strings.Contains(out.Text, "Data inválida") {
		t.Errorf("expected invalid-date rejection, got: %s", out.Text)
	}

	if len(env.txRepo.created) != 0 {
		t.Errorf("no records should exist yet, got %d", len(env.txRepo.created))
	}
}

func TestExpenseFlow_RevenueAccountRejected(t *testing.T) {
	env := newTestEnv()
	f := NewExpenseFlow(1, env.deps)
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	step(t, f, SelectionInput("food"), false)
	step(t, f, TextInput("Almoço"), false)
	step(t, f, TextInput("45"), false)
	step(t, f, TextInput("hoje"), false)

	// Revenue-only accounts cannot be debited.
	out := step(t, f, SelectionInput("account_inter_pj"), false)
	if !strings.Contains(out.Text, "conta") {
		t.Errorf("expected account prompt again, got: %s", out.Text)
	}
}

func TestExpenseFlow_EditRestarts(t *testing.T) {
	env := newTestEnv()
	f := NewExpenseFlow(1, env.deps)
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	step(t, f, SelectionInput("food"), false)
	step(t, f, TextInput("Jantar"), false)
	step(t, f, TextInput("120"), false)
	step(t, f, TextInput("hoje"), false)
	step(t, f, SelectionInput("account_c6_pf"), false)

	out := step(t, f, SelectionInput("edit"), false)
	if !strings.Contains(out.Text, "escolha a categoria") {
		t.Errorf("expected restart at category selection, got: %s", out.Text)
	}
	if len(env.txRepo.created) != 0 {
		t.Errorf("edit must not persist anything, got %d records", len(env.txRepo.created))
	}
}
