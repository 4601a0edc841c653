package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/domain/goal"
	"finbot/internal/shared/parse"
)

var goalTypes = []struct {
	Key  string
	Name string
}{
	{goal.TypeSavings, "💰 Poupança"},
	{goal.TypeSpending, "📉 Limite de Gastos"},
	{goal.TypeDebt, "💳 Quitar Dívida"},
	{goal.TypeInvesting, "📈 Investimento"},
}

// GoalFlow creates a financial goal: title, type, target amount and an
// optional target date.
type GoalFlow struct {
	userID int64
	deps   Deps
	state  goalState
}

// NewGoalFlow creates the goal creation flow for one user.
func NewGoalFlow(userID int64, deps Deps) *GoalFlow {
	return &GoalFlow{userID: userID, deps: deps}
}

func (f *GoalFlow) Start(ctx context.Context) (Prompt, error) {
	f.state = goalEnterTitle{}
	return Prompt{Text: "🎯 Nova Meta\n\nVamos criar sua meta financeira!\n\nPrimeiro, dê um nome para ela:\n\n💡 Exemplos:\n• \"Viagem de férias\"\n• \"Reserva de emergência\""}, nil
}

func (f *GoalFlow) Handle(ctx context.Context, in Input) (Prompt, bool, error) {
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

type goalState interface {
	handle(ctx context.Context, f *GoalFlow, in Input) (goalState, Prompt, error)
}

type goalEnterTitle struct{}

func (goalEnterTitle) handle(ctx context.Context, f *GoalFlow, in Input) (goalState, Prompt, error) {
	title := strings.TrimSpace(in.Text)
	if len([]rune(title)) < minDescriptionLength {
		return goalEnterTitle{}, Prompt{Text: "❌ Nome muito curto!\n\nDigite um nome com pelo menos 3 caracteres:"}, nil
	}

	var choices []Choice
	for _, gt := range goalTypes {
		choices = append(choices, Choice{ID: "goal_" + gt.Key, Label: gt.Name})
	}
	choices = append(choices, cancelChoice)

	return goalSelectType{title: title}, Prompt{
		Text:    fmt.Sprintf("✅ Meta: %s\n\n🏷️ Qual o tipo desta meta?", title),
		Choices: choices,
	}, nil
}

type goalSelectType struct {
	title string
}

func (s goalSelectType) handle(ctx context.Context, f *GoalFlow, in Input) (goalState, Prompt, error) {
	key := strings.TrimPrefix(in.Selection, "goal_")
	var name string
	for _, gt := range goalTypes {
		if gt.Key == key {
			name = gt.Name
		}
	}
	if name == "" {
		return s, Prompt{Text: "Escolha um dos tipos acima."}, nil
	}

	return goalEnterTarget{title: s.title, goalType: key}, Prompt{
		Text: fmt.Sprintf("✅ Tipo: %s\n\n💵 Qual o valor alvo?\n\n💡 Exemplo: 5000,00", name),
	}, nil
}

type goalEnterTarget struct {
	title    string
	goalType string
}

func (s goalEnterTarget) handle(ctx context.Context, f *GoalFlow, in Input) (goalState, Prompt, error) {
	target, err := parse.Amount(in.Text)
	if err != nil {
		return s, Prompt{Text: "❌ Valor inválido!\n\nDigite um valor numérico válido:\n• Exemplo: 5000,00"}, nil
	}

	return goalEnterDate{title: s.title, goalType: s.goalType, target: target}, Prompt{
		Text: fmt.Sprintf("✅ Valor alvo: %s\n\n📅 Até quando deseja atingir esta meta?\n\nDigite uma data (ex: 31/12/2026) ou \"pular\":", formatCurrency(target)),
	}, nil
}

type goalEnterDate struct {
	title    string
	goalType string
	target   decimal.Decimal
}

func (s goalEnterDate) handle(ctx context.Context, f *GoalFlow, in Input) (goalState, Prompt, error) {
	var targetDate *time.Time
	text := strings.ToLower(strings.TrimSpace(in.Text))
	if text != "pular" && text != "skip" {
		date, err := parse.FutureDateWith(in.Text, f.deps.today(), f.deps.keywords())
		if err != nil {
			return s, Prompt{Text: "❌ Data inválida!\n\nDigite uma data futura (ex: 31/12/2026) ou \"pular\":"}, nil
		}
		targetDate = &date
	}

	g, err := f.deps.Goals.CreateGoal(ctx, goal.CreateParams{
		UserID:       f.userID,
		Title:        s.title,
		Type:         s.goalType,
		TargetAmount: s.target,
		TargetDate:   targetDate,
	})
	if err != nil {
		return nil, Prompt{}, err
	}

	msg := fmt.Sprintf("🎯 Meta criada!\n\n%s\nAlvo: %s", g.Title, formatCurrency(g.TargetAmount))
	if g.TargetDate != nil {
		msg += fmt.Sprintf("\nPrazo: %s", formatDate(*g.TargetDate))
	}
	msg += "\n\nUse /depositar para registrar progressos."
	return nil, Prompt{Text: msg}, nil
}
