package flow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"finbot/internal/domain/user"
	"finbot/internal/shared/parse"
)

// RegisterFlow signs a new user up: name, optional email, password with
// strength feedback, then seeds the default categories.
type RegisterFlow struct {
	chatID int64
	deps   Deps
	state  registerState
	// OnSuccess receives the created user. The transport uses it to mark
	// the chat session as logged in right after signup.
	OnSuccess func(u *user.User)
}

// NewRegisterFlow creates the registration flow bound to one chat.
func NewRegisterFlow(chatID int64, deps Deps) *RegisterFlow {
	return &RegisterFlow{chatID: chatID, deps: deps}
}

func (f *RegisterFlow) Start(ctx context.Context) (Prompt, error) {
	if _, err := f.deps.Users.Profile(ctx, f.chatID); err == nil {
		return Prompt{}, user.ErrUserAlreadyExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return Prompt{}, err
	}

	f.state = registerEnterName{}
	return Prompt{Text: "👤 Criar Conta\n\nVamos criar sua conta em 3 passos.\n\nPrimeiro, qual é o seu nome?"}, nil
}

func (f *RegisterFlow) Handle(ctx context.Context, in Input) (Prompt, bool, error) {
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

type registerState interface {
	handle(ctx context.Context, f *RegisterFlow, in Input) (registerState, Prompt, error)
}

type registerEnterName struct{}

func (registerEnterName) handle(ctx context.Context, f *RegisterFlow, in Input) (registerState, Prompt, error) {
	name := strings.TrimSpace(in.Text)
	if n := utf8.RuneCountInString(name); n < 2 || n > 500 {
		return registerEnterName{}, Prompt{Text: "❌ Nome inválido!\n\nDigite um nome com pelo menos 2 caracteres:"}, nil
	}

	return registerEnterEmail{name: name}, Prompt{
		Text: fmt.Sprintf("✅ Olá, %s!\n\n📧 Agora, digite seu e-mail (opcional).\n\nDigite \"pular\" para continuar sem e-mail:", name),
	}, nil
}

type registerEnterEmail struct {
	name string
}

func (s registerEnterEmail) handle(ctx context.Context, f *RegisterFlow, in Input) (registerState, Prompt, error) {
	email := strings.TrimSpace(in.Text)
	switch strings.ToLower(email) {
	case "pular", "skip":
		email = ""
	default:
		if !parse.ValidEmail(email) {
			return s, Prompt{Text: "❌ E-mail inválido!\n\nDigite um e-mail válido ou \"pular\":"}, nil
		}
		taken, err := f.deps.Users.EmailInUse(ctx, email)
		if err != nil {
			return nil, Prompt{}, err
		}
		if taken {
			return nil, Prompt{Text: "❌ Este e-mail já está cadastrado.\n\nUse /login para entrar na sua conta."}, nil
		}
	}

	return registerEnterPassword{name: s.name, email: email}, Prompt{
		Text: "🔐 Para finalizar, crie uma senha.\n\nRequisitos:\n• Mínimo de 8 caracteres\n• Letras maiúsculas e minúsculas\n• Pelo menos um número\n\nDigite sua senha:",
	}, nil
}

type registerEnterPassword struct {
	name  string
	email string
}

func (s registerEnterPassword) handle(ctx context.Context, f *RegisterFlow, in Input) (registerState, Prompt, error) {
	params := user.CreateParams{ChatID: f.chatID, Name: s.name, Email: s.email}
	u, err := f.deps.Users.Register(ctx, params, in.Text)
	if err != nil {
		var weak *user.WeakPasswordError
		if errors.As(err, &weak) {
			var b strings.Builder
			b.WriteString("❌ Senha muito fraca!\n\n")
			for _, issue := range weak.Issues {
				fmt.Fprintf(&b, "• %s\n", issue)
			}
			b.WriteString("\nDigite outra senha:")
			return s, Prompt{Text: b.String()}, nil
		}
		return nil, Prompt{}, err
	}

	// Registration stands even if seeding fails; categories are created
	// on demand later.
	if err := f.deps.Categories.SeedDefaults(ctx, u.ID); err != nil {
		log.Printf("Failed to seed default categories for user %d: %v", u.ID, err)
	}

	if f.OnSuccess != nil {
		f.OnSuccess(u)
	}

	return nil, Prompt{
		Text: fmt.Sprintf("🎉 Conta criada com sucesso!\n\nBem-vindo(a), %s!\n\nUse /despesa ou /receita para registrar sua primeira movimentação.", u.Name),
	}, nil
}
