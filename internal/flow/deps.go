package flow

import (
	"time"

	"finbot/internal/domain/category"
	"finbot/internal/domain/goal"
	"finbot/internal/domain/insight"
	"finbot/internal/domain/transaction"
	"finbot/internal/domain/user"
	"finbot/internal/shared/parse"
)

// Deps bundles the services flows act on. Now and DateKeywords are
// overridable for tests and locale configuration.
type Deps struct {
	Users        *user.Service
	Categories   *category.Service
	Transactions *transaction.Service
	Goals        *goal.Service
	Insights     *insight.Service
	Now          func() time.Time
	DateKeywords parse.DateKeywords
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) today() time.Time {
	return parse.Midnight(d.now())
}

func (d Deps) keywords() parse.DateKeywords {
	if len(d.DateKeywords.Today) == 0 && len(d.DateKeywords.Yesterday) == 0 {
		return parse.DefaultDateKeywords
	}
	return d.DateKeywords
}

var cancelChoice = Choice{ID: "cancel", Label: "❌ Cancelar"}
