package flow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"finbot/internal/domain/goal"
	"finbot/internal/domain/user"
)

var (
	flowMeter           = otel.Meter("finbot/flow")
	flowStartedTotal, _ = flowMeter.Int64Counter("bot.flow.started.total",
		metric.WithDescription("Conversational flows started"),
	)
	flowFinishedTotal, _ = flowMeter.Int64Counter("bot.flow.finished.total",
		metric.WithDescription("Conversational flows finished, by outcome"),
	)
)

// ErrUnknownCommand is returned when no command is bound to the given name.
var ErrUnknownCommand = errors.New("unknown command")

// Factory builds a flow for one user. For commands that run before login the
// id is the chat id.
type Factory func(id int64, deps Deps) Flow

// Handler serves a single-shot command that needs no follow-up input.
type Handler func(ctx context.Context, userID int64, deps Deps) (Prompt, error)

type command struct {
	factory      Factory
	handler      Handler
	requiresAuth bool
}

// Registry binds command names to flows and single-shot handlers and routes
// follow-up input to the active flow of each chat.
type Registry struct {
	deps     Deps
	sessions *SessionManager
	commands map[string]command
	// OnLogin is invoked when a register or login flow authenticates a
	// chat. The transport uses it to bind chatID to the user.
	OnLogin func(chatID int64, u *user.User)
}

// NewRegistry creates a registry with the standard command set.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{
		deps:     deps,
		sessions: NewSessionManager(),
		commands: make(map[string]command),
	}

	r.register("registrar", command{factory: func(chatID int64, d Deps) Flow {
		f := NewRegisterFlow(chatID, d)
		f.OnSuccess = func(u *user.User) { r.login(chatID, u) }
		return f
	}})
	r.register("login", command{factory: func(chatID int64, d Deps) Flow {
		f := NewLoginFlow(chatID, d)
		f.OnSuccess = func(u *user.User) { r.login(chatID, u) }
		return f
	}})
	r.register("senha", command{factory: func(userID int64, d Deps) Flow { return NewPasswordFlow(userID, d) }, requiresAuth: true})
	r.register("despesa", command{factory: func(userID int64, d Deps) Flow { return NewExpenseFlow(userID, d) }, requiresAuth: true})
	r.register("receita", command{factory: func(userID int64, d Deps) Flow { return NewIncomeFlow(userID, d) }, requiresAuth: true})
	r.register("meta", command{factory: func(userID int64, d Deps) Flow { return NewGoalFlow(userID, d) }, requiresAuth: true})
	r.register("depositar", command{factory: func(userID int64, d Deps) Flow { return NewDepositFlow(userID, d) }, requiresAuth: true})
	r.register("metas", command{handler: listGoals, requiresAuth: true})
	r.register("resumo", command{handler: monthlySummary, requiresAuth: true})
	r.register("analise", command{handler: spendingAnalysis, requiresAuth: true})
	return r
}

func (r *Registry) register(name string, c command) {
	r.commands[name] = c
}

func (r *Registry) login(chatID int64, u *user.User) {
	if r.OnLogin != nil {
		r.OnLogin(chatID, u)
	}
}

// Sessions exposes the per-chat flow sessions, mainly for the transport to
// query whether a chat has an active flow.
func (r *Registry) Sessions() *SessionManager {
	return r.sessions
}

// StartCommand begins the flow (or runs the handler) bound to name. The chat's
// previous flow, if any, is discarded. userID is zero when the chat is not
// logged in.
func (r *Registry) StartCommand(ctx context.Context, chatID, userID int64, name string) (Prompt, error) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "/")
	if name == "cancelar" || name == "cancel" {
		return r.cancel(ctx, chatID), nil
	}

	c, ok := r.commands[name]
	if !ok {
		return Prompt{}, ErrUnknownCommand
	}
	if c.requiresAuth && userID == 0 {
		return Prompt{Text: "🔐 Você precisa estar logado.\n\nUse /login para entrar ou /registrar para criar uma conta."}, nil
	}

	flowStartedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("command", name)))

	if c.handler != nil {
		r.sessions.Clear(chatID)
		out, err := c.handler(ctx, userID, r.deps)
		r.finish(ctx, name, err)
		return out, err
	}

	id := userID
	if !c.requiresAuth {
		id = chatID
	}
	f := c.factory(id, r.deps)
	out, err := f.Start(ctx)
	if err != nil {
		r.finish(ctx, name, err)
		if errors.Is(err, user.ErrUserAlreadyExists) {
			return Prompt{Text: "Você já tem uma conta. Use /login para entrar."}, nil
		}
		if errors.Is(err, user.ErrUserNotFound) {
			return Prompt{Text: "Você ainda não tem uma conta. Use /registrar para criar uma."}, nil
		}
		if errors.Is(err, goal.ErrGoalNotFound) {
			return Prompt{Text: "Você ainda não tem metas. Use /meta para criar uma."}, nil
		}
		return Prompt{}, err
	}
	r.sessions.Set(chatID, f)
	return out, nil
}

// HandleInput routes input to the chat's active flow. The second return is
// false when no flow is active.
func (r *Registry) HandleInput(ctx context.Context, chatID int64, in Input) (Prompt, bool, error) {
	if in.Kind == KindSelection && in.Selection == cancelChoice.ID {
		return r.cancel(ctx, chatID), true, nil
	}

	f := r.sessions.Get(chatID)
	if f == nil {
		return Prompt{}, false, nil
	}

	out, done, err := f.Handle(ctx, in)
	if err != nil {
		r.sessions.Clear(chatID)
		r.finish(ctx, "active", err)
		log.Printf("Flow failed for chat %d: %v", chatID, err)
		return Prompt{Text: "❌ Algo deu errado. Tente novamente em alguns instantes."}, true, nil
	}
	if done {
		r.sessions.Clear(chatID)
		r.finish(ctx, "active", nil)
	}
	return out, true, nil
}

func (r *Registry) cancel(ctx context.Context, chatID int64) Prompt {
	if r.sessions.Get(chatID) != nil {
		r.sessions.Clear(chatID)
		flowFinishedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "canceled")))
		return Prompt{Text: "❌ Operação cancelada."}
	}
	return Prompt{Text: "Nenhuma operação em andamento."}
}

func (r *Registry) finish(ctx context.Context, name string, err error) {
	outcome := "completed"
	if err != nil {
		outcome = "failed"
	}
	flowFinishedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", name),
		attribute.String("outcome", outcome),
	))
}

func monthlySummary(ctx context.Context, userID int64, deps Deps) (Prompt, error) {
	now := deps.now()
	s, err := deps.Transactions.Summary(ctx, userID, now.Year(), now.Month())
	if err != nil {
		return Prompt{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Resumo de %02d/%d\n\n", int(s.Month), s.Year)
	fmt.Fprintf(&b, "💰 Receitas: %s\n", formatCurrency(s.TotalIncome))
	fmt.Fprintf(&b, "💸 Gastos: %s\n", formatCurrency(s.TotalExpense))
	fmt.Fprintf(&b, "⚖️ Saldo: %s\n", formatCurrency(s.Balance))

	if len(s.ByCategory) > 0 {
		b.WriteString("\n🏷️ Gastos por categoria:\n")
		for _, c := range s.ByCategory {
			fmt.Fprintf(&b, "• %s: %s\n", c.CategoryName, formatCurrency(c.Total))
		}
	}
	return Prompt{Text: b.String()}, nil
}

func listGoals(ctx context.Context, userID int64, deps Deps) (Prompt, error) {
	goals, err := deps.Goals.ListGoals(ctx, userID, true)
	if err != nil {
		return Prompt{}, err
	}
	if len(goals) == 0 {
		return Prompt{Text: "Você ainda não tem metas. Use /meta para criar uma."}, nil
	}

	var b strings.Builder
	b.WriteString("🎯 Suas metas\n")
	for _, g := range goals {
		status := fmt.Sprintf("%.0f%%", g.Progress())
		if g.IsCompleted {
			status = "✅ concluída"
		}
		fmt.Fprintf(&b, "\n• %s\n  %s de %s (%s)\n",
			g.Title, formatCurrency(g.CurrentAmount), formatCurrency(g.TargetAmount), status)
		if g.TargetDate != nil && !g.IsCompleted {
			fmt.Fprintf(&b, "  Prazo: %s\n", formatDate(*g.TargetDate))
		}
	}
	return Prompt{Text: b.String()}, nil
}

func spendingAnalysis(ctx context.Context, userID int64, deps Deps) (Prompt, error) {
	text, err := deps.Insights.Analyze(ctx, userID)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{Text: text}, nil
}
