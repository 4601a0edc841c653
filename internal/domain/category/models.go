package category

import (
	"errors"
	"time"
)

// Category types
const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// Domain errors
var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrInvalidInput      = errors.New("invalid input")
)

// Category classifies a user's transactions.
type Category struct {
	ID        int64
	UserID    int64
	Name      string
	Type      string
	Color     string
	Icon      string
	IsActive  bool
	CreatedAt time.Time
}

// IsValidType checks if the provided category type is valid.
func IsValidType(t string) bool {
	return t == TypeExpense || t == TypeIncome
}

// defaultCategories are seeded for every new user.
var defaultCategories = []Category{
	{Name: "Alimentação", Type: TypeExpense, Color: "#FF6B6B", Icon: "🍽️"},
	{Name: "Transporte", Type: TypeExpense, Color: "#4ECDC4", Icon: "🚗"},
	{Name: "Moradia", Type: TypeExpense, Color: "#45B7D1", Icon: "🏠"},
	{Name: "Saúde", Type: TypeExpense, Color: "#96CEB4", Icon: "🏥"},
	{Name: "Educação", Type: TypeExpense, Color: "#FFEAA7", Icon: "📚"},
	{Name: "Lazer", Type: TypeExpense, Color: "#DDA0DD", Icon: "🎮"},
	{Name: "Roupas", Type: TypeExpense, Color: "#98D8C8", Icon: "👕"},
	{Name: "Outros", Type: TypeExpense, Color: "#A0A0A0", Icon: "📦"},
	{Name: "Salário", Type: TypeIncome, Color: "#55A3FF", Icon: "💼"},
	{Name: "Freelance", Type: TypeIncome, Color: "#26de81", Icon: "💻"},
	{Name: "Investimentos", Type: TypeIncome, Color: "#FD79A8", Icon: "📈"},
	{Name: "Outros", Type: TypeIncome, Color: "#FDCB6E", Icon: "💰"},
}

// DefaultCategories returns the seed list for a new user.
func DefaultCategories() []Category {
	out := make([]Category, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}
