package flow

import (
	"context"
	"errors"
	"fmt"

	"finbot/internal/domain/user"
)

// LoginFlow asks for the password and reports the lockout state on failure.
type LoginFlow struct {
	chatID int64
	deps   Deps
	// OnSuccess receives the authenticated user. The transport uses it to
	// mark the chat session as logged in.
	OnSuccess func(u *user.User)
}

// NewLoginFlow creates the login flow bound to one chat.
func NewLoginFlow(chatID int64, deps Deps) *LoginFlow {
	return &LoginFlow{chatID: chatID, deps: deps}
}

func (f *LoginFlow) Start(ctx context.Context) (Prompt, error) {
	if _, err := f.deps.Users.Profile(ctx, f.chatID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return Prompt{}, user.ErrUserNotFound
		}
		return Prompt{}, err
	}
	return Prompt{Text: "🔐 Login\n\nDigite sua senha:"}, nil
}

func (f *LoginFlow) Handle(ctx context.Context, in Input) (Prompt, bool, error) {
	u, err := f.deps.Users.Authenticate(ctx, f.chatID, in.Text)
	if err != nil {
		var invalid *user.InvalidPasswordError
		if errors.As(err, &invalid) {
			return Prompt{
				Text: fmt.Sprintf("❌ Senha incorreta!\n\nVocê tem %d tentativa(s) restante(s).\n\nUse /login para tentar novamente.", invalid.AttemptsRemaining),
			}, true, nil
		}
		var locked *user.AccountLockedError
		if errors.As(err, &locked) {
			return Prompt{
				Text: fmt.Sprintf("🔒 Conta bloqueada!\n\nMuitas tentativas incorretas. Tente novamente após %s.", locked.Until.Format("15:04")),
			}, true, nil
		}
		return Prompt{}, true, err
	}

	if f.OnSuccess != nil {
		f.OnSuccess(u)
	}
	return Prompt{Text: fmt.Sprintf("✅ Login realizado!\n\nBem-vindo(a) de volta, %s!", u.Name)}, true, nil
}
