package flow

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"finbot/internal/domain/transaction"
)

func TestIncomeFlow_RecurringSalary(t *testing.T) {
	env := newTestEnv()
	f := NewIncomeFlow(1, env.deps)

	out, err := f.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(out.Rows) == 0 {
		t.Fatal("expected revenue type keyboard")
	}

	step(t, f, SelectionInput("salary"), false)
	step(t, f, TextInput("Salário - Empresa XYZ"), false)
	step(t, f, TextInput("8.500,00"), false)
	step(t, f, TextInput("hoje"), false)

	// Salary is recurring, so the frequency question shows up.
	out = step(t, f, SelectionInput("account_inter_pf"), false)
	if !strings.Contains(out.Text, "frequência") {
		t.Errorf("expected frequency question, got: %s", out.Text)
	}
	out = step(t, f, SelectionInput("freq_monthly"), false)
	if !strings.Contains(out.Text, "Mensal") {
		t.Errorf("expected monthly in confirmation, got: %s", out.Text)
	}
	step(t, f, SelectionInput("confirm"), true)

	if len(env.txRepo.created) != 1 {
		t.Fatalf("created %d records, want 1", len(env.txRepo.created))
	}
	rec := env.txRepo.created[0]
	if !rec.Amount.Equal(decimal.RequireFromString("8500")) {
		t.Errorf("Amount = %s, want 8500", rec.Amount)
	}
	if rec.Type != transaction.TypeIncome {
		t.Errorf("Type = %s, want income", rec.Type)
	}
	if !rec.IsRecurring {
		t.Error("monthly salary should be recurring")
	}
	if rec.AccountKey != "inter_pf" {
		t.Errorf("AccountKey = %s, want inter_pf", rec.AccountKey)
	}
}

func TestIncomeFlow_OneOffFreelanceSkipsFrequency(t *testing.T) {
	env := newTestEnv()
	f := NewIncomeFlow(1, env.deps)
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	step(t, f, SelectionInput("freelance"), false)
	step(t, f, TextInput("Projeto site - Cliente ABC"), false)
	step(t, f, TextInput("2500"), false)
	step(t, f, TextInput("ontem"), false)

	// Non-recurring types go straight to confirmation.
	out := step(t, f, SelectionInput("account_inter_pj"), false)
	if !strings.Contains(out.Text, "Confirme") {
		t.Errorf("expected confirmation, got: %s", out.Text)
	}
	if !strings.Contains(out.Text, "Uma vez") {
		t.Errorf("expected one-off frequency, got: %s", out.Text)
	}
	step(t, f, SelectionInput("confirm"), true)

	rec := env.txRepo.created[0]
	if rec.IsRecurring {
		t.Error("one-off income should not be recurring")
	}
}

func TestIncomeFlow_ExpenseAccountRejected(t *testing.T) {
	env := newTestEnv()
	f := NewIncomeFlow(1, env.deps)
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	step(t, f, SelectionInput("salary"), false)
	step(t, f, TextInput("Salário"), false)
	step(t, f, TextInput("5000"), false)
	step(t, f, TextInput("hoje"), false)

	// Income only lands on revenue accounts.
	out := step(t, f, SelectionInput("account_nubank_pf"), false)
	if !strings.Contains(out.Text, "Conta inválida") {
		t.Errorf("expected rejection, got: %s", out.Text)
	}
	if len(env.txRepo.created) != 0 {
		t.Errorf("no records should exist, got %d", len(env.txRepo.created))
	}
}
