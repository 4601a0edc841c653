package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"finbot/internal/domain/goal"
	"finbot/internal/shared/parse"
)

// DepositFlow registers progress toward one of the user's open goals.
type DepositFlow struct {
	userID int64
	deps   Deps
	state  depositState
}

func NewDepositFlow(userID int64, deps Deps) *DepositFlow {
	return &DepositFlow{userID: userID, deps: deps}
}

func (f *DepositFlow) Start(ctx context.Context) (Prompt, error) {
	goals, err := f.deps.Goals.ListGoals(ctx, f.userID, false)
	if err != nil {
		return Prompt{}, err
	}
	if len(goals) == 0 {
		return Prompt{}, goal.ErrGoalNotFound
	}

	var choices []Choice
	for _, g := range goals {
		label := fmt.Sprintf("%s (%.0f%%)", g.Title, g.Progress())
		choices = append(choices, Choice{ID: "deposit_" + strconv.FormatInt(g.ID, 10), Label: label})
	}
	choices = append(choices, cancelChoice)

	f.state = depositSelectGoal{}
	return Prompt{Text: "💰 Depósito em meta\n\nEm qual meta deseja registrar progresso?", Choices: choices}, nil
}

func (f *DepositFlow) Handle(ctx context.Context, in Input) (Prompt, bool, error) {
	next, out, err := f.state.handle(ctx, f, in)
	if err != nil {
		return Prompt{}, true, err
	}
	if next == nil {
		return out, true, nil
	}
	f.state = next
	return out, false, nil
}

type depositState interface {
	handle(ctx context.Context, f *DepositFlow, in Input) (depositState, Prompt, error)
}

type depositSelectGoal struct{}

func (s depositSelectGoal) handle(ctx context.Context, f *DepositFlow, in Input) (depositState, Prompt, error) {
	idStr := strings.TrimPrefix(in.Selection, "deposit_")
	goalID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || in.Selection == idStr {
		return s, Prompt{Text: "Escolha uma das metas acima."}, nil
	}

	return depositEnterAmount{goalID: goalID}, Prompt{
		Text: "💵 Qual o valor do depósito?\n\n💡 Exemplo: 250,00",
	}, nil
}

type depositEnterAmount struct {
	goalID int64
}

func (s depositEnterAmount) handle(ctx context.Context, f *DepositFlow, in Input) (depositState, Prompt, error) {
	amount, err := parse.Amount(in.Text)
	if err != nil {
		return s, Prompt{Text: "❌ Valor inválido!\n\nDigite um valor numérico válido:\n• Exemplo: 250,00"}, nil
	}

	g, err := f.deps.Goals.Deposit(ctx, f.userID, s.goalID, amount)
	if err != nil {
		return nil, Prompt{}, err
	}

	if g.IsCompleted {
		return nil, Prompt{Text: fmt.Sprintf("🎉 Parabéns! Meta \"%s\" concluída!\n\nTotal acumulado: %s", g.Title, formatCurrency(g.CurrentAmount))}, nil
	}

	msg := fmt.Sprintf("✅ Depósito registrado!\n\n%s\n%s de %s (%.0f%%)",
		g.Title, formatCurrency(g.CurrentAmount), formatCurrency(g.TargetAmount), g.Progress())
	return nil, Prompt{Text: msg}, nil
}
