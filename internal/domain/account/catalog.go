package account

import "errors"

// Holder types for the predefined accounts.
const (
	HolderPersonal = "Pessoa Física"
	HolderBusiness = "Pessoa Jurídica"
)

// Domain errors
var (
	ErrAccountNotFound = errors.New("account not found")
)

// Account is a predefined bank account entry. The catalog is static:
// users pick from it instead of registering their own accounts.
type Account struct {
	Key              string
	Name             string
	HolderType       string
	BankCode         string
	Icon             string
	IsRevenueAccount bool
}

var catalog = []Account{
	{Key: "inter_pf", Name: "Banco Inter PF", HolderType: HolderPersonal, BankCode: "INTER", Icon: "🟡", IsRevenueAccount: true},
	{Key: "inter_pj", Name: "Banco Inter PJ", HolderType: HolderBusiness, BankCode: "INTER", Icon: "🟡", IsRevenueAccount: true},
	{Key: "c6_pf", Name: "C6 Bank PF", HolderType: HolderPersonal, BankCode: "C6", Icon: "⚫", IsRevenueAccount: false},
	{Key: "c6_pj", Name: "C6 Bank PJ", HolderType: HolderBusiness, BankCode: "C6", Icon: "⚫", IsRevenueAccount: false},
	{Key: "nubank_pf", Name: "Nubank PF", HolderType: HolderPersonal, BankCode: "NUBANK", Icon: "💜", IsRevenueAccount: false},
	{Key: "nubank_pj", Name: "Nubank PJ", HolderType: HolderBusiness, BankCode: "NUBANK", Icon: "💜", IsRevenueAccount: false},
	{Key: "santander_pf", Name: "Santander PF", HolderType: HolderPersonal, BankCode: "SANTANDER", Icon: "🔴", IsRevenueAccount: false},
	{Key: "santander_pj", Name: "Santander PJ", HolderType: HolderBusiness, BankCode: "SANTANDER", Icon: "🔴", IsRevenueAccount: false},
}

// All returns every predefined account in catalog order.
func All() []Account {
	out := make([]Account, len(catalog))
	copy(out, catalog)
	return out
}

// RevenueAccounts returns the accounts that receive income.
func RevenueAccounts() []Account {
	return filter(func(a Account) bool { return a.IsRevenueAccount })
}

// ExpenseAccounts returns the accounts that pay expenses.
func ExpenseAccounts() []Account {
	return filter(func(a Account) bool { return !a.IsRevenueAccount })
}

// ByKey looks up a single account by its catalog key.
func ByKey(key string) (Account, error) {
	for _, a := range catalog {
		if a.Key == key {
			return a, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

// Suggested splits the expense accounts into the ones matching the given
// keys (in key order) and the rest. Unknown keys are ignored.
func Suggested(keys []string) (suggested, others []Account) {
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if a, err := ByKey(key); err == nil && !a.IsRevenueAccount {
			suggested = append(suggested, a)
			seen[key] = struct{}{}
		}
	}
	for _, a := range ExpenseAccounts() {
		if _, ok := seen[a.Key]; !ok {
			others = append(others, a)
		}
	}
	return suggested, others
}

// Label returns the display form used in selection keyboards.
func (a Account) Label() string {
	return a.Icon + " " + a.Name
}

func filter(keep func(Account) bool) []Account {
	var out []Account
	for _, a := range catalog {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
