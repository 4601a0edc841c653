package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/domain/account"
	"finbot/internal/domain/category"
	"finbot/internal/domain/transaction"
	"finbot/internal/shared/parse"
)

var (
	// installmentMinTotal is the amount below which splitting is not offered.
	installmentMinTotal = decimal.NewFromInt(100)
	// installmentMinValue is the minimum per-installment amount.
	installmentMinValue = decimal.NewFromInt(10)
)

// installmentSuggestions are the offered split counts, filtered by the
// per-installment minimum at prompt time.
var installmentSuggestions = []int{2, 3, 4, 6, 10, 12}

const (
	minDescriptionLength  = 3
	maxCustomInstallments = 24
)

// ExpenseFlow captures one expense through the guided steps: category,
// description, value, date, account, optional installment split,
// confirmation. Each state struct carries exactly the data collected so
// far, so a step can only see what earlier steps produced.
type ExpenseFlow struct {
	userID int64
	deps   Deps
	state  expenseState
}

// NewExpenseFlow creates the guided expense entry flow for one user.
func NewExpenseFlow(userID int64, deps Deps) *ExpenseFlow {
	return &ExpenseFlow{userID: userID, deps: deps}
}

func (f *ExpenseFlow) Start(ctx context.Context) (Prompt, error) {
	f.state = expenseSelectType{}
	return expenseTypePrompt(), nil
}

func (f *ExpenseFlow) Handle(ctx context.Context, in Input) (Prompt, bool, error) {
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

type expenseState interface {
	handle(ctx context.Context, f *ExpenseFlow, in Input) (expenseState, Prompt, error)
}

// expenseSelectType waits for a category pick from the fixed catalog.
type expenseSelectType struct{}

func (expenseSelectType) handle(ctx context.Context, f *ExpenseFlow, in Input) (expenseState, Prompt, error) {
	cat, ok := expenseCategoryByKey(in.Selection)
	if !ok {
		return expenseSelectType{}, expenseTypePrompt(), nil
	}

	text := fmt.Sprintf("✅ %s Selecionado\n\n📝 %s", cat.Name, cat.Description)
	if cat.AllowInstallments {
		text += "\n\n💳 Esta categoria permite parcelamento!"
	}
	text += "\n\nAgora, digite uma descrição para esta despesa:\n\n" +
		"💡 Exemplos:\n• \"Mercado - Atacadão\"\n• \"Combustível - Posto Shell\"\n\nDigite a descrição:"

	return expenseEnterDescription{category: cat}, Prompt{Text: text}, nil
}

// expenseEnterDescription waits for a free-text description.
type expenseEnterDescription struct {
	category ExpenseCategory
}

func (s expenseEnterDescription) handle(ctx context.Context, f *ExpenseFlow, in Input) (expenseState, Prompt, error) {
	description := strings.TrimSpace(in.Text)
	if len([]rune(description)) < minDescriptionLength {
		return s, Prompt{Text: "❌ Descrição muito curta!\n\nDigite uma descrição com pelo menos 3 caracteres:"}, nil
	}

	text := fmt.Sprintf("✅ Descrição salva: %s\n\n💵 Agora digite o valor da despesa:\n\n"+
		"💡 Formatos aceitos:\n• 150 ou 150,00\n• 1.350,50 (com pontos e vírgulas)\n• 2500.00 (formato americano)\n\n"+
		"Qual o valor desta despesa?", description)
	return expenseEnterValue{category: s.category, description: description}, Prompt{Text: text}, nil
}

// expenseEnterValue waits for the amount.
type expenseEnterValue struct {
	category    ExpenseCategory
	description string
}

func (s expenseEnterValue) handle(ctx context.Context, f *ExpenseFlow, in Input) (expenseState, Prompt, error) {
	value, err := parse.Amount(in.Text)
	if err != nil {
		return s, Prompt{Text: "❌ Valor inválido!\n\nDigite um valor numérico válido:\n• Exemplo: 150,00\n• Exemplo: 1.350,50\n\nDigite novamente o valor:"}, nil
	}

	text := fmt.Sprintf("✅ Valor salvo: %s\n\n📅 Agora digite a data desta despesa:\n\n"+
		"💡 Formatos aceitos:\n• 15/12/2025 (dd/mm/aaaa)\n• 15/12 (assumirá ano atual)\n• hoje (data de hoje)\n• ontem (data de ontem)\n\n"+
		"Qual a data desta despesa?", formatCurrency(value))
	return expenseEnterDate{category: s.category, description: s.description, value: value}, Prompt{Text: text}, nil
}

// expenseEnterDate waits for the effective date.
type expenseEnterDate struct {
	category    ExpenseCategory
	description string
	value       decimal.Decimal
}

func (s expenseEnterDate) handle(ctx context.Context, f *ExpenseFlow, in Input) (expenseState, Prompt, error) {
	date, err := parse.DateWith(in.Text, f.deps.today(), f.deps.keywords())
	if err != nil {
		return s, Prompt{Text: "❌ Data inválida!\n\nUse um dos formatos:\n• 15/12/2025\n• 15/12 (ano atual)\n• hoje\n• ontem\n\nDigite novamente a data:"}, nil
	}

	return expenseSelectAccount{
		category:    s.category,
		description: s.description,
		value:       s.value,
		date:        date,
	}, accountPrompt(s.category, date), nil
}

// expenseSelectAccount waits for the debited account pick.
type expenseSelectAccount struct {
	category    ExpenseCategory
	description string
	value       decimal.Decimal
	date        time.Time
}

func (s expenseSelectAccount) handle(ctx context.Context, f *ExpenseFlow, in Input) (expenseState, Prompt, error) {
	if in.Selection == "separator" {
		return s, accountPrompt(s.category, s.date), nil
	}
	acc, err := account.ByKey(strings.TrimPrefix(in.Selection, "account_"))
	if err != nil || acc.IsRevenueAccount {
		return s, accountPrompt(s.category, s.date), nil
	}

	if s.category.AllowInstallments && s.value.GreaterThanOrEqual(installmentMinTotal) {
		text := fmt.Sprintf("✅ Conta selecionada: %s\n\n💳 Esta despesa pode ser parcelada!\n\nValor: %s\n\nEscolha uma opção:",
			acc.Label(), formatCurrency(s.value))
		return expenseInstallmentOption{
				category:    s.category,
				description: s.description,
				value:       s.value,
				date:        s.date,
				account:     acc,
			}, Prompt{
				Text: text,
				Choices: []Choice{
					{ID: "install_once", Label: "💰 À vista"},
					{ID: "install_multiple", Label: "💳 Parcelar"},
					cancelChoice,
				},
			}, nil
	}

	confirm := expenseConfirm{
		category:    s.category,
		description: s.description,
		value:       s.value,
		date:        s.date,
		account:     acc,
		count:       1,
		startDate:   s.date,
	}
	return confirm, confirm.prompt(), nil
}

// expenseInstallmentOption waits for the pay-in-full vs split decision.
type expenseInstallmentOption struct {
	category    ExpenseCategory
	description string
	value       decimal.Decimal
	date        time.Time
	account     account.Account
}

func (s expenseInstallmentOption) handle(ctx context.Context, f *ExpenseFlow, in Input) (expenseState, Prompt, error) {
	switch in.Selection {
	case "install_once":
		confirm := expenseConfirm{
			category:    s.category,
			description: s.description,
			value:       s.value,
			date:        s.date,
			account:     s.account,
			count:       1,
			startDate:   s.date,
		}
		return confirm, confirm.prompt(), nil
	case "install_multiple":
		next := expenseInstallmentCount{
			category:    s.category,
			description: s.description,
			value:       s.value,
			date:        s.date,
			account:     s.account,
		}
		return next, next.prompt(), nil
	}
	return s, Prompt{Text: "Escolha uma das opções acima."}, nil
}

// expenseInstallmentCount waits for the split count, suggested or custom.
type expenseInstallmentCount struct {
	category    ExpenseCategory
	description string
	value       decimal.Decimal
	date        time.Time
	account     account.Account
	custom      bool
}

func (s expenseInstallmentCount) prompt() Prompt {
	var rows [][]Choice
	var row []Choice
	for _, n := range installmentSuggestions {
		per := transaction.InstallmentAmount(s.value, n)
		if per.LessThan(installmentMinValue) {
			continue
		}
		row = append(row, Choice{
			ID:    fmt.Sprintf("install_%d", n),
			Label: fmt.Sprintf("%dx %s", n, formatCurrency(per)),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []Choice{{ID: "install_custom", Label: "✏️ Outro valor"}}, []Choice{cancelChoice})

	return Prompt{
		Text: fmt.Sprintf("💳 Parcelamento da despesa\n\nValor total: %s\n\nEm quantas parcelas?", formatCurrency(s.value)),
		Rows: rows,
	}
}

func (s expenseInstallmentCount) handle(ctx context.Context, f *ExpenseFlow, in Input) (expenseState, Prompt, error) {
	var count int
	switch {
	case in.Kind == KindSelection && in.Selection == "install_custom":
		s.custom = true
		return s, Prompt{Text: "✏️ Parcelas personalizadas\n\nDigite o número de parcelas desejado:\n\n💡 Entre 2 e 24 parcelas\n• Valor mínimo por parcela: R$ 10,00"}, nil
	case in.Kind == KindSelection && strings.HasPrefix(in.Selection, "install_"):
		n, err := strconv.Atoi(strings.TrimPrefix(in.Selection, "install_"))
		if err != nil {
			return s, s.prompt(), nil
		}
		count = n
	case s.custom && in.Kind == KindText:
		n, err := strconv.Atoi(strings.TrimSpace(in.Text))
		if err != nil || n < 2 || n > maxCustomInstallments {
			return s, Prompt{Text: "❌ Número inválido!\n\nDigite um número entre 2 e 24:"}, nil
		}
		count = n
	default:
		return s, s.prompt(), nil
	}

	per := transaction.InstallmentAmount(s.value, count)
	if per.LessThan(installmentMinValue) {
		return s, Prompt{Text: fmt.Sprintf("❌ Parcela muito baixa!\n\nCom %d parcelas, cada parcela seria %s\nValor mínimo por parcela: R$ 10,00\n\nDigite um número menor de parcelas:", count, formatCurrency(per))}, nil
	}

	next := expenseStartDate{
		category:    s.category,
		description: s.description,
		value:       s.value,
		date:        s.date,
		account:     s.account,
		count:       count,
	}
	return next, next.prompt(f.deps.today()), nil
}

// expenseStartDate waits for the first installment's due date.
type expenseStartDate struct {
	category    ExpenseCategory
	description string
	value       decimal.Decimal
	date        time.Time
	account     account.Account
	count       int
	custom      bool
}

func (s expenseStartDate) prompt(today time.Time) Prompt {
	per := transaction.InstallmentAmount(s.value, s.count)
	var rows [][]Choice
	for _, sug := range startDateSuggestions(today) {
		rows = append(rows, []Choice{{
			ID:    "start_" + sug.Date.Format("2006-01-02"),
			Label: fmt.Sprintf("%s (%s)", sug.Label, formatShortDate(sug.Date)),
		}})
	}
	rows = append(rows, []Choice{{ID: "start_custom", Label: "✏️ Outra data"}}, []Choice{cancelChoice})

	return Prompt{
		Text: fmt.Sprintf("📅 Data das parcelas\n\nParcelamento: %dx %s\n\nQuando será cobrada a primeira parcela?", s.count, formatCurrency(per)),
		Rows: rows,
	}
}

func (s expenseStartDate) handle(ctx context.Context, f *ExpenseFlow, in Input) (expenseState, Prompt, error) {
	var start time.Time
	switch {
	case in.Kind == KindSelection && in.Selection == "start_custom":
		s.custom = true
		return s, Prompt{Text: "✏️ Digite a data da primeira parcela:\n\n• 15/12/2025\n• 15/12 (ano atual)\n• hoje"}, nil
	case in.Kind == KindSelection && strings.HasPrefix(in.Selection, "start_"):
		t, err := time.Parse("2006-01-02", strings.TrimPrefix(in.Selection, "start_"))
		if err != nil {
			return s, s.prompt(f.deps.today()), nil
		}
		start = t
	case s.custom && in.Kind == KindText:
		t, err := parse.FutureDateWith(in.Text, f.deps.today(), f.deps.keywords())
		if err != nil {
			return s, Prompt{Text: "❌ Data inválida!\n\nA data não pode estar a mais de 30 dias no passado.\nUse 15/12/2025, 15/12 ou hoje.\n\nDigite novamente:"}, nil
		}
		start = t
	default:
		return s, s.prompt(f.deps.today()), nil
	}

	confirm := expenseConfirm{
		category:    s.category,
		description: s.description,
		value:       s.value,
		date:        s.date,
		account:     s.account,
		count:       s.count,
		startDate:   start,
	}
	return confirm, confirm.prompt(), nil
}

// expenseConfirm shows the full summary and waits for the final decision.
type expenseConfirm struct {
	category    ExpenseCategory
	description string
	value       decimal.Decimal
	date        time.Time
	account     account.Account
	count       int
	startDate   time.Time
}

func (s expenseConfirm) prompt() Prompt {
	var b strings.Builder
	b.WriteString("📋 Confirme os dados da despesa:\n\n")
	fmt.Fprintf(&b, "🏷️ Categoria: %s\n", s.category.Name)
	fmt.Fprintf(&b, "📝 Descrição: %s\n", s.description)
	fmt.Fprintf(&b, "💵 Valor: %s\n", formatCurrency(s.value))
	fmt.Fprintf(&b, "📅 Data: %s\n", formatDate(s.date))
	fmt.Fprintf(&b, "🏦 Conta: %s\n", s.account.Label())

	if s.count > 1 {
		per := transaction.InstallmentAmount(s.value, s.count)
		last := transaction.LastInstallmentDate(s.startDate, s.count)
		fmt.Fprintf(&b, "💳 Parcelamento: %dx %s\n", s.count, formatCurrency(per))
		fmt.Fprintf(&b, "📅 Primeira parcela: %s\n", formatDate(s.startDate))
		fmt.Fprintf(&b, "📅 Última parcela: %s\n", formatDate(last))
	}
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

func (s expenseConfirm) handle(ctx context.Context, f *ExpenseFlow, in Input) (expenseState, Prompt, error) {
	switch in.Selection {
	case "edit":
		// Restart from scratch; partial data is discarded.
		return expenseSelectType{}, expenseTypePrompt(), nil
	case "confirm":
	default:
		return s, s.prompt(), nil
	}

	cat, err := f.deps.Categories.FindOrCreate(ctx, f.userID, s.category.Name, category.TypeExpense)
	if err != nil {
		return nil, Prompt{}, fmt.Errorf("failed to resolve category: %w", err)
	}

	params := transaction.CreateParams{
		UserID:      f.userID,
		Title:       s.description,
		Description: fmt.Sprintf("Despesa: %s", s.category.Description),
		Amount:      s.value,
		Type:        transaction.TypeExpense,
		CategoryID:  &cat.ID,
		AccountKey:  s.account.Key,
		AccountName: s.account.Name,
		Date:        s.date,
		Tags:        []string{s.category.Key, s.account.Key},
	}

	if s.count == 1 {
		if _, err := f.deps.Transactions.CreateSingle(ctx, params); err != nil {
			return nil, Prompt{}, err
		}
		return nil, Prompt{Text: fmt.Sprintf("✅ Despesa cadastrada!\n\n%s em %s (%s)", formatCurrency(s.value), s.account.Name, formatDate(s.date))}, nil
	}

	params.Tags = append(params.Tags, "installment")
	result, err := f.deps.Transactions.CreateInstallments(ctx, params, s.count, s.startDate)
	if err != nil {
		return nil, Prompt{}, err
	}

	per := transaction.InstallmentAmount(s.value, s.count)
	text := fmt.Sprintf("✅ Despesa parcelada cadastrada!\n\n%dx %s\nPrimeira parcela: %s\nÚltima parcela: %s",
		result.Succeeded, formatCurrency(per), formatDate(s.startDate), formatDate(transaction.LastInstallmentDate(s.startDate, s.count)))
	if result.Failed > 0 {
		text += fmt.Sprintf("\n\n⚠️ %d parcelas não puderam ser salvas.", result.Failed)
	}
	return nil, Prompt{Text: text}, nil
}

func expenseTypePrompt() Prompt {
	var rows [][]Choice
	var row []Choice
	for _, cat := range expenseCatalog {
		row = append(row, Choice{ID: cat.Key, Label: cat.Name})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []Choice{cancelChoice})

	return Prompt{
		Text: "💳 Adicionar Nova Despesa\n\n🎯 Vamos cadastrar sua despesa passo a passo!\n\nPrimeiro, escolha a categoria da despesa:",
		Rows: rows,
	}
}

func accountPrompt(cat ExpenseCategory, date time.Time) Prompt {
	suggested, others := account.Suggested(cat.CommonAccounts)

	var rows [][]Choice
	for _, a := range suggested {
		rows = append(rows, []Choice{{ID: "account_" + a.Key, Label: "⭐ " + a.Label()}})
	}
	if len(suggested) > 0 && len(others) > 0 {
		rows = append(rows, []Choice{{ID: "separator", Label: "➖ Outras contas ➖"}})
	}
	for _, a := range others {
		rows = append(rows, []Choice{{ID: "account_" + a.Key, Label: a.Label()}})
	}
	rows = append(rows, []Choice{cancelChoice})

	return Prompt{
		Text: fmt.Sprintf("✅ Data salva: %s\n\n🏦 Escolha a conta que será debitada:\n\n💡 Contas sugeridas para %s:", formatDate(date), cat.Name),
		Rows: rows,
	}
}
