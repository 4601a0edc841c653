package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/domain/account"
	"finbot/internal/domain/category"
	"finbot/internal/domain/transaction"
	"finbot/internal/shared/parse"
)

// Income frequencies
const (
	freqOnce    = "once"
	freqWeekly  = "weekly"
	freqMonthly = "monthly"
)

// IncomeFlow captures one income record through the guided steps: type,
// description, value, date, receiving account, frequency for recurring
// types, confirmation.
type IncomeFlow struct {
	userID int64
	deps   Deps
	state  incomeState
}

// NewIncomeFlow creates the guided income entry flow for one user.
func NewIncomeFlow(userID int64, deps Deps) *IncomeFlow {
	return &IncomeFlow{userID: userID, deps: deps}
}

func (f *IncomeFlow) Start(ctx context.Context) (Prompt, error) {
	f.state = incomeSelectType{}
	return incomeTypePrompt(), nil
}

func (f *IncomeFlow) Handle(ctx context.Context, in Input) (Prompt, bool, error) {
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

type incomeState interface {
	handle(ctx context.Context, f *IncomeFlow, in Input) (incomeState, Prompt, error)
}

type incomeSelectType struct{}

func (incomeSelectType) handle(ctx context.Context, f *IncomeFlow, in Input) (incomeState, Prompt, error) {
	rt, ok := revenueTypeByKey(in.Selection)
	if !ok {
		return incomeSelectType{}, incomeTypePrompt(), nil
	}

	text := fmt.Sprintf("✅ %s Selecionado\n\n📝 %s\n\nAgora, digite uma descrição para esta receita:\n\n"+
		"💡 Exemplos:\n• \"Salário - Empresa XYZ\"\n• \"Projeto site - Cliente ABC\"\n\nDigite a descrição:", rt.Name, rt.Description)
	return incomeEnterDescription{rtype: rt}, Prompt{Text: text}, nil
}

type incomeEnterDescription struct {
	rtype RevenueType
}

func (s incomeEnterDescription) handle(ctx context.Context, f *IncomeFlow, in Input) (incomeState, Prompt, error) {
	description := strings.TrimSpace(in.Text)
	if len([]rune(description)) < minDescriptionLength {
		return s, Prompt{Text: "❌ Descrição muito curta!\n\nDigite uma descrição com pelo menos 3 caracteres:"}, nil
	}

	text := fmt.Sprintf("✅ Descrição salva: %s\n\n💵 Agora digite o valor da receita:\n\n"+
		"💡 Formatos aceitos:\n• 3000 ou 3000,00\n• 1.350,50 (com pontos e vírgulas)\n\nQual o valor desta receita?", description)
	return incomeEnterValue{rtype: s.rtype, description: description}, Prompt{Text: text}, nil
}

type incomeEnterValue struct {
	rtype       RevenueType
	description string
}

func (s incomeEnterValue) handle(ctx context.Context, f *IncomeFlow, in Input) (incomeState, Prompt, error) {
	value, err := parse.Amount(in.Text)
	if err != nil {
		return s, Prompt{Text: "❌ Valor inválido!\n\nDigite um valor numérico válido:\n• Exemplo: 3000,00\n\nDigite novamente o valor:"}, nil
	}

	text := fmt.Sprintf("✅ Valor salvo: %s\n\n📅 Agora digite a data desta receita:\n\n"+
		"💡 Formatos aceitos:\n• 15/12/2025 (dd/mm/aaaa)\n• 15/12 (assumirá ano atual)\n• hoje\n• ontem\n\nQual a data desta receita?", formatCurrency(value))
	return incomeEnterDate{rtype: s.rtype, description: s.description, value: value}, Prompt{Text: text}, nil
}

type incomeEnterDate struct {
	rtype       RevenueType
	description string
	value       decimal.Decimal
}

func (s incomeEnterDate) handle(ctx context.Context, f *IncomeFlow, in Input) (incomeState, Prompt, error) {
	date, err := parse.DateWith(in.Text, f.deps.today(), f.deps.keywords())
	if err != nil {
		return s, Prompt{Text: "❌ Data inválida!\n\nUse um dos formatos:\n• 15/12/2025\n• 15/12 (ano atual)\n• hoje\n• ontem\n\nDigite novamente a data:"}, nil
	}

	var rows [][]Choice
	for _, a := range account.RevenueAccounts() {
		rows = append(rows, []Choice{{ID: "account_" + a.Key, Label: a.Label()}})
	}
	rows = append(rows, []Choice{cancelChoice})

	return incomeSelectAccount{
			rtype:       s.rtype,
			description: s.description,
			value:       s.value,
			date:        date,
		}, Prompt{
			Text: fmt.Sprintf("✅ Data salva: %s\n\n🏦 Em qual conta esta receita será creditada?", formatDate(date)),
			Rows: rows,
		}, nil
}

type incomeSelectAccount struct {
	rtype       RevenueType
	description string
	value       decimal.Decimal
	date        time.Time
}

func (s incomeSelectAccount) handle(ctx context.Context, f *IncomeFlow, in Input) (incomeState, Prompt, error) {
	acc, err := account.ByKey(strings.TrimPrefix(in.Selection, "account_"))
	if err != nil || !acc.IsRevenueAccount {
		return s, Prompt{Text: "❌ Conta inválida. Escolha uma das contas de receita."}, nil
	}

	if s.rtype.IsRecurring {
		return incomeFrequency{
				rtype:       s.rtype,
				description: s.description,
				value:       s.value,
				date:        s.date,
				account:     acc,
			}, Prompt{
				Text: fmt.Sprintf("✅ Conta selecionada: %s\n\n🔄 Esta receita se repete?\n\nEscolha a frequência:", acc.Label()),
				Choices: []Choice{
					{ID: "freq_monthly", Label: "📅 Mensal"},
					{ID: "freq_weekly", Label: "📆 Semanal"},
					{ID: "freq_once", Label: "🔄 Apenas uma vez"},
					cancelChoice,
				},
			}, nil
	}

	confirm := incomeConfirm{
		rtype:       s.rtype,
		description: s.description,
		value:       s.value,
		date:        s.date,
		account:     acc,
		frequency:   freqOnce,
	}
	return confirm, confirm.prompt(), nil
}

type incomeFrequency struct {
	rtype       RevenueType
	description string
	value       decimal.Decimal
	date        time.Time
	account     account.Account
}

func (s incomeFrequency) handle(ctx context.Context, f *IncomeFlow, in Input) (incomeState, Prompt, error) {
	frequency := strings.TrimPrefix(in.Selection, "freq_")
	switch frequency {
	case freqOnce, freqWeekly, freqMonthly:
	default:
		return s, Prompt{Text: "Escolha uma das frequências acima."}, nil
	}

	confirm := incomeConfirm{
		rtype:       s.rtype,
		description: s.description,
		value:       s.value,
		date:        s.date,
		account:     s.account,
		frequency:   frequency,
	}
	return confirm, confirm.prompt(), nil
}

type incomeConfirm struct {
	rtype       RevenueType
	description string
	value       decimal.Decimal
	date        time.Time
	account     account.Account
	frequency   string
}

func (s incomeConfirm) prompt() Prompt {
	frequencyText := map[string]string{
		freqMonthly: "Mensal",
		freqWeekly:  "Semanal",
		freqOnce:    "Uma vez",
	}[s.frequency]

	var b strings.Builder
	b.WriteString("📋 Confirme os dados da receita:\n\n")
	fmt.Fprintf(&b, "🏷️ Tipo: %s\n", s.rtype.Name)
	fmt.Fprintf(&b, "📝 Descrição: %s\n", s.description)
	fmt.Fprintf(&b, "💵 Valor: %s\n", formatCurrency(s.value))
	fmt.Fprintf(&b, "📅 Data: %s\n", formatDate(s.date))
	fmt.Fprintf(&b, "🏦 Conta: %s\n", s.account.Label())
	fmt.Fprintf(&b, "🔄 Frequência: %s\n", frequencyText)
	b.WriteString("\nConfirmar cadastro?")

	return Prompt{
		Text: b.String(),
		Choices: []Choice{
			{ID: "confirm", Label: "✅ Confirmar"},
			{ID: "edit", Label: "✏️ Editar"},
			cancelChoice,
		},
	}
}

func (s incomeConfirm) handle(ctx context.Context, f *IncomeFlow, in Input) (incomeState, Prompt, error) {
	switch in.Selection {
	case "edit":
		return incomeSelectType{}, incomeTypePrompt(), nil
	case "confirm":
	default:
		return s, s.prompt(), nil
	}

	cat, err := f.deps.Categories.FindOrCreate(ctx, f.userID, s.rtype.Name, category.TypeIncome)
	if err != nil {
		return nil, Prompt{}, fmt.Errorf("failed to resolve category: %w", err)
	}

	params := transaction.CreateParams{
		UserID:      f.userID,
		Title:       s.description,
		Description: fmt.Sprintf("Receita: %s", s.rtype.Description),
		Amount:      s.value,
		Type:        transaction.TypeIncome,
		CategoryID:  &cat.ID,
		AccountKey:  s.account.Key,
		AccountName: s.account.Name,
		Date:        s.date,
		IsRecurring: s.frequency != freqOnce,
		Tags:        []string{s.rtype.Key, s.account.Key},
	}
	if _, err := f.deps.Transactions.CreateSingle(ctx, params); err != nil {
		return nil, Prompt{}, err
	}

	return nil, Prompt{Text: fmt.Sprintf("✅ Receita cadastrada!\n\n%s em %s (%s)", formatCurrency(s.value), s.account.Name, formatDate(s.date))}, nil
}

func incomeTypePrompt() Prompt {
	var rows [][]Choice
	for _, rt := range revenueCatalog {
		rows = append(rows, []Choice{{ID: rt.Key, Label: rt.Name}})
	}
	rows = append(rows, []Choice{cancelChoice})

	return Prompt{
		Text: "💰 Adicionar Nova Receita\n\n🎯 Vamos cadastrar sua receita passo a passo!\n\nPrimeiro, escolha o tipo de receita:",
		Rows: rows,
	}
}
