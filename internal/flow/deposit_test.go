package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"finbot/internal/domain/goal"
)

func createGoal(t *testing.T, env *testEnv, userID int64, title string, target string) *goal.Goal {
	t.Helper()
	g, err := env.deps.Goals.CreateGoal(context.Background(), goal.CreateParams{
		UserID:       userID,
		Title:        title,
		Type:         goal.TypeSavings,
		TargetAmount: decimal.RequireFromString(target),
	})
	if err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	return g
}

func TestDepositFlow(t *testing.T) {
	env := newTestEnv()
	g := createGoal(t, env, 1, "Reserva de emergência", "1000")

	f := NewDepositFlow(1, env.deps)
	out, err := f.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(out.Choices) != 2 {
		t.Fatalf("got %d choices, want goal + cancel", len(out.Choices))
	}

	step(t, f, SelectionInput("deposit_1"), false)
	done := step(t, f, TextInput("250,00"), true)
	if !strings.Contains(done.Text, "Depósito registrado") {
		t.Errorf("expected confirmation, got: %s", done.Text)
	}
	if !strings.Contains(done.Text, "25%") {
		t.Errorf("expected 25%% progress, got: %s", done.Text)
	}

	if !g.CurrentAmount.Equal(decimal.RequireFromString("250")) {
		t.Errorf("CurrentAmount = %s, want 250", g.CurrentAmount)
	}
}

func TestDepositFlow_CompletesGoal(t *testing.T) {
	env := newTestEnv()
	createGoal(t, env, 1, "Viagem", "500")

	f := NewDepositFlow(1, env.deps)
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	step(t, f, SelectionInput("deposit_1"), false)
	done := step(t, f, TextInput("600,00"), true)
	if !strings.Contains(done.Text, "concluída") {
		t.Errorf("expected completion message, got: %s", done.Text)
	}
	if !env.goalRepo.goals[0].IsCompleted {
		t.Error("goal not marked completed")
	}
}

func TestDepositFlow_InvalidInputsReask(t *testing.T) {
	env := newTestEnv()
	createGoal(t, env, 1, "Viagem", "500")

	f := NewDepositFlow(1, env.deps)
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	out := step(t, f, SelectionInput("bogus"), false)
	if !strings.Contains(out.Text, "Escolha") {
		t.Errorf("expected reask on bad selection, got: %s", out.Text)
	}
	step(t, f, SelectionInput("deposit_1"), false)
	out = step(t, f, TextInput("abc"), false)
	if !strings.Contains(out.Text, "Valor inválido") {
		t.Errorf("expected reask on bad amount, got: %s", out.Text)
	}
	step(t, f, TextInput("100,00"), true)
}

func TestDepositFlow_NoGoals(t *testing.T) {
	env := newTestEnv()

	f := NewDepositFlow(1, env.deps)
	_, err := f.Start(context.Background())
	if !errors.Is(err, goal.ErrGoalNotFound) {
		t.Errorf("Start error = %v, want ErrGoalNotFound", err)
	}
}
