package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finbot/internal/domain/user"
)

// PasswordFlow changes the password of a logged-in user: current password,
// then the new one with strength feedback.
type PasswordFlow struct {
	userID int64
	deps   Deps
	state  passwordState
}

// NewPasswordFlow creates the change-password flow for the given user.
func NewPasswordFlow(userID int64, deps Deps) *PasswordFlow {
	return &PasswordFlow{userID: userID, deps: deps}
}

func (f *PasswordFlow) Start(ctx context.Context) (Prompt, error) {
	f.state = passwordEnterOld{}
	return Prompt{Text: "🔐 Alterar Senha\n\nDigite sua senha atual:"}, nil
}

func (f *PasswordFlow) Handle(ctx context.Context, in Input) (Prompt, bool, error) {
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

type passwordState interface {
	handle(ctx context.Context, f *PasswordFlow, in Input) (passwordState, Prompt, error)
}

type passwordEnterOld struct{}

func (passwordEnterOld) handle(ctx context.Context, f *PasswordFlow, in Input) (passwordState, Prompt, error) {
	return passwordEnterNew{old: in.Text}, Prompt{
		Text: "🔑 Agora digite a nova senha.\n\nRequisitos:\n• Mínimo de 8 caracteres\n• Letras maiúsculas e minúsculas\n• Pelo menos um número",
	}, nil
}

type passwordEnterNew struct {
	old string
}

func (s passwordEnterNew) handle(ctx context.Context, f *PasswordFlow, in Input) (passwordState, Prompt, error) {
	err := f.deps.Users.ChangePassword(ctx, f.userID, s.old, in.Text)
	if err == nil {
		return nil, Prompt{Text: "✅ Senha alterada com sucesso!"}, nil
	}

	var weak *user.WeakPasswordError
	if errors.As(err, &weak) {
		var b strings.Builder
		b.WriteString("❌ Nova senha muito fraca!\n\n")
		for _, issue := range weak.Issues {
			fmt.Fprintf(&b, "• %s\n", issue)
		}
		b.WriteString("\nDigite outra senha:")
		return s, Prompt{Text: b.String()}, nil
	}

	var invalid *user.InvalidPasswordError
	if errors.As(err, &invalid) {
		return nil, Prompt{Text: "❌ Senha atual incorreta.\n\nUse /senha para tentar novamente."}, nil
	}
	return nil, Prompt{}, err
}
