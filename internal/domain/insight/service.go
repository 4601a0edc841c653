package insight

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"finbot/internal/domain/transaction"
)

// analysisWindowDays is how far back the analysis looks.
const analysisWindowDays = 30

const systemPrompt = "Você é um consultor financeiro especializado no mercado brasileiro. " +
	"Forneça conselhos práticos e específicos."

// UnavailableMessage is shown when the generator fails. The analysis is
// best-effort and never retried.
const UnavailableMessage = "Análise temporariamente indisponível. Tente novamente em alguns instantes."

// Service builds spending analyses from recent transactions
type Service struct {
	transactions *transaction.Service
	generator    Generator
}

// NewService creates a new insight service
func NewService(transactions *transaction.Service, generator Generator) *Service {
	return &Service{transactions: transactions, generator: generator}
}

// Analyze summarizes the user's last 30 days of records. Generator
// failures degrade to UnavailableMessage rather than an error.
func (s *Service) Analyze(ctx context.Context, userID int64) (string, error) {
	records, err := s.transactions.ListRecent(ctx, userID, analysisWindowDays)
	if err != nil {
		return "", fmt.Errorf("failed to load recent transactions: %w", err)
	}
	if len(records) == 0 {
		return "Nenhuma transação nos últimos 30 dias. Registre seus gastos para receber uma análise.", nil
	}

	prompt := buildPrompt(records)
	analysis, err := s.generator.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		log.Printf("Insight generation failed for user %d: %v", userID, err)
		return UnavailableMessage, nil
	}
	return analysis, nil
}

func buildPrompt(records []*transaction.Transaction) string {
	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	var order []string

	for _, tr := range records {
		if tr.Amount.IsNegative() {
			name := tr.Title
			if tr.Installment != nil {
				name = strings.TrimSpace(strings.SplitN(tr.Title, "(", 2)[0])
			}
			if _, ok := byCategory[name]; !ok {
				order = append(order, name)
			}
			byCategory[name] = byCategory[name].Add(tr.Amount.Abs())
			totalExpenses = totalExpenses.Add(tr.Amount.Abs())
		} else {
			totalIncome = totalIncome.Add(tr.Amount)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analise os seguintes dados financeiros dos últimos %d dias:\n\n", analysisWindowDays)
	fmt.Fprintf(&b, "Receitas: R$ %s\n", totalIncome.StringFixed(2))
	fmt.Fprintf(&b, "Gastos: R$ %s\n", totalExpenses.StringFixed(2))
	fmt.Fprintf(&b, "Saldo: R$ %s\n\n", totalIncome.Sub(totalExpenses).StringFixed(2))
	b.WriteString("Gastos por categoria:\n")

	hundred := decimal.NewFromInt(100)
	for _, name := range order {
		amount := byCategory[name]
		pct := decimal.Zero
		if totalExpenses.IsPositive() {
			pct = amount.Div(totalExpenses).Mul(hundred)
		}
		fmt.Fprintf(&b, "- %s: R$ %s (%s%%)\n", name, amount.StringFixed(2), pct.StringFixed(1))
	}

	b.WriteString("\nComo consultor financeiro brasileiro, forneça:\n")
	b.WriteString("1. Análise dos padrões de gastos\n")
	b.WriteString("2. Categorias que podem ser otimizadas\n")
	b.WriteString("3. Sugestões específicas de economia\n")
	b.WriteString("4. Alertas sobre gastos excessivos\n")
	b.WriteString("5. Dicas práticas para o perfil brasileiro\n\n")
	b.WriteString("Seja direto, prático e motivacional. Máximo 500 palavras.")

	return b.String()
}
