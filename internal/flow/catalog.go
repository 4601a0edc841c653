package flow

// ExpenseCategory is one entry of the fixed expense catalog. Each entry
// carries the accounts usually charged for it and whether installment
// payment is offered.
type ExpenseCategory struct {
	Key               string
	Name              string
	Description       string
	CommonAccounts    []string
	AllowInstallments bool
}

var expenseCatalog = []ExpenseCategory{
	{
		Key:            "food",
		Name:           "🍽️ Alimentação",
		Description:    "Mercado, restaurantes, delivery, cafés",
		CommonAccounts: []string{"c6_pf", "nubank_pf", "inter_pf"},
	},
	{
		Key:            "transport",
		Name:           "🚗 Transporte",
		Description:    "Combustível, Uber, transporte público, pedágios",
		CommonAccounts: []string{"c6_pf", "nubank_pf"},
	},
	{
		Key:               "shopping",
		Name:              "🛒 Compras Pessoais",
		Description:       "Roupas, eletrônicos, casa, presentes",
		CommonAccounts:    []string{"c6_pf", "nubank_pf", "inter_pf"},
		AllowInstallments: true,
	},
	{
		Key:               "health",
		Name:              "🏥 Saúde",
		Description:       "Médico, dentista, farmácia, planos de saúde",
		CommonAccounts:    []string{"c6_pf", "nubank_pf", "santander_pf"},
		AllowInstallments: true,
	},
	{
		Key:               "education",
		Name:              "📚 Educação",
		Description:       "Cursos, livros, materiais, mensalidades",
		CommonAccounts:    []string{"c6_pf", "inter_pf"},
		AllowInstallments: true,
	},
	{
		Key:            "bills",
		Name:           "🏠 Contas Fixas",
		Description:    "Luz, água, internet, telefone, streaming",
		CommonAccounts: []string{"c6_pf", "santander_pf"},
	},
	{
		Key:               "business",
		Name:              "🏢 Empresarial",
		Description:       "Despesas da empresa, fornecedores, equipamentos",
		CommonAccounts:    []string{"inter_pj", "c6_pj", "santander_pj"},
		AllowInstallments: true,
	},
	{
		Key:            "investment",
		Name:           "📈 Investimentos",
		Description:    "Ações, fundos, criptomoedas, aplicações",
		CommonAccounts: []string{"inter_pf", "c6_pf"},
	},
	{
		Key:               "entertainment",
		Name:              "🎮 Lazer",
		Description:       "Cinema, shows, jogos, viagens, hobbies",
		CommonAccounts:    []string{"nubank_pf", "c6_pf"},
		AllowInstallments: true,
	},
	{
		Key:               "other",
		Name:              "💡 Outras Despesas",
		Description:       "Outras categorias de gastos",
		CommonAccounts:    []string{"c6_pf", "nubank_pf"},
		AllowInstallments: true,
	},
}

// ExpenseCategories returns the fixed expense catalog.
func ExpenseCategories() []ExpenseCategory {
	out := make([]ExpenseCategory, len(expenseCatalog))
	copy(out, expenseCatalog)
	return out
}

func expenseCategoryByKey(key string) (ExpenseCategory, bool) {
	for _, c := range expenseCatalog {
		if c.Key == key {
			return c, true
		}
	}
	return ExpenseCategory{}, false
}

// RevenueType is one entry of the fixed income catalog.
type RevenueType struct {
	Key              string
	Name             string
	Description      string
	IsRecurring      bool
	DefaultFrequency string
}

var revenueCatalog = []RevenueType{
	{Key: "salary", Name: "💰 Salário", Description: "Salário mensal ou pagamento de trabalho", IsRecurring: true, DefaultFrequency: "monthly"},
	{Key: "freelance", Name: "💻 Freelance", Description: "Trabalho freelancer ou consultoria", DefaultFrequency: "once"},
	{Key: "business", Name: "🏢 Faturamento Empresa", Description: "Receita de vendas ou serviços da empresa", DefaultFrequency: "once"},
	{Key: "investment", Name: "📈 Rendimentos", Description: "Dividendos, juros ou ganhos de investimentos", IsRecurring: true, DefaultFrequency: "monthly"},
	{Key: "rental", Name: "🏠 Aluguel Recebido", Description: "Receita de aluguel de imóveis", IsRecurring: true, DefaultFrequency: "monthly"},
	{Key: "other", Name: "💡 Outras Receitas", Description: "Outras formas de receita", DefaultFrequency: "once"},
}

// RevenueTypes returns the fixed income catalog.
func RevenueTypes() []RevenueType {
	out := make([]RevenueType, len(revenueCatalog))
	copy(out, revenueCatalog)
	return out
}

func revenueTypeByKey(key string) (RevenueType, bool) {
	for _, r := range revenueCatalog {
		if r.Key == key {
			return r, true
		}
	}
	return RevenueType{}, false
}
