package telegram

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"finbot/internal/domain/user"
	"finbot/internal/flow"
)

const welcomeText = `👋 Olá! Eu sou seu assistente financeiro.

Comandos disponíveis:
/registrar - Criar conta
/login - Entrar
/despesa - Registrar despesa
/receita - Registrar receita
/meta - Criar meta financeira
/metas - Listar suas metas
/depositar - Registrar progresso em uma meta
/resumo - Resumo do mês
/analise - Análise dos seus gastos
/senha - Alterar senha
/cancelar - Cancelar operação em andamento`

// Bot runs the long-polling loop and bridges Telegram updates into the
// flow registry. It tracks which chats are logged in.
type Bot struct {
	api         *api
	registry    *flow.Registry
	pollTimeout time.Duration

	mu     sync.Mutex
	logins map[int64]int64 // chatID -> userID
}

// NewBot creates the Telegram transport over the given registry.
func NewBot(token string, pollTimeout time.Duration, registry *flow.Registry) *Bot {
	b := &Bot{
		api:         newAPI(token, pollTimeout),
		registry:    registry,
		pollTimeout: pollTimeout,
		logins:      make(map[int64]int64),
	}
	registry.OnLogin = func(chatID int64, u *user.User) {
		b.mu.Lock()
		b.logins[chatID] = u.ID
		b.mu.Unlock()
	}
	return b
}

// Run polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	log.Printf("Telegram bot started (poll timeout %s)", b.pollTimeout)

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := b.api.getUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("getUpdates failed: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, upd := range updates {
			offset = upd.UpdateID + 1
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd Update) {
	switch {
	case upd.CallbackQuery != nil:
		cb := upd.CallbackQuery
		if err := b.api.answerCallbackQuery(ctx, cb.ID); err != nil {
			log.Printf("answerCallbackQuery failed: %v", err)
		}
		if cb.Message == nil {
			return
		}
		b.dispatchCallback(ctx, cb.Message.Chat.ID, cb.Message.MessageID, flow.SelectionInput(cb.Data))
	case upd.Message != nil:
		chatID := upd.Message.Chat.ID
		text := strings.TrimSpace(upd.Message.Text)
		if strings.HasPrefix(text, "/") {
			b.command(ctx, chatID, text)
			return
		}
		b.dispatch(ctx, chatID, flow.TextInput(text))
	}
}

func (b *Bot) command(ctx context.Context, chatID int64, text string) {
	name := strings.Fields(text)[0]
	// Group chats address commands as /cmd@botname.
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}
	if name == "/start" || name == "/ajuda" || name == "/help" {
		b.send(ctx, chatID, flow.Prompt{Text: welcomeText})
		return
	}

	out, err := b.registry.StartCommand(ctx, chatID, b.userID(chatID), name)
	if err != nil {
		if errors.Is(err, flow.ErrUnknownCommand) {
			b.send(ctx, chatID, flow.Prompt{Text: "Comando desconhecido. Use /ajuda para ver os comandos."})
			return
		}
		log.Printf("Command %s failed for chat %d: %v", name, chatID, err)
		b.send(ctx, chatID, flow.Prompt{Text: "❌ Algo deu errado. Tente novamente em alguns instantes."})
		return
	}
	b.send(ctx, chatID, out)
}

func (b *Bot) dispatch(ctx context.Context, chatID int64, in flow.Input) {
	out, handled, err := b.registry.HandleInput(ctx, chatID, in)
	if err != nil {
		log.Printf("Input handling failed for chat %d: %v", chatID, err)
		return
	}
	if !handled {
		b.send(ctx, chatID, flow.Prompt{Text: "Use /ajuda para ver os comandos disponíveis."})
		return
	}
	b.send(ctx, chatID, out)
}

// dispatchCallback answers a button press by editing the message that held
// the keyboard, so the chat does not pile up stale keyboards.
func (b *Bot) dispatchCallback(ctx context.Context, chatID, messageID int64, in flow.Input) {
	out, handled, err := b.registry.HandleInput(ctx, chatID, in)
	if err != nil {
		log.Printf("Input handling failed for chat %d: %v", chatID, err)
		return
	}
	if !handled {
		b.send(ctx, chatID, flow.Prompt{Text: "Use /ajuda para ver os comandos disponíveis."})
		return
	}
	if out.Text == "" {
		return
	}
	if err := b.api.editMessageText(ctx, chatID, messageID, out.Text, keyboard(out)); err != nil {
		log.Printf("editMessageText failed for chat %d: %v", chatID, err)
		b.send(ctx, chatID, out)
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, p flow.Prompt) {
	if p.Text == "" {
		return
	}
	if _, err := b.api.sendMessage(ctx, chatID, p.Text, keyboard(p)); err != nil {
		log.Printf("sendMessage failed for chat %d: %v", chatID, err)
	}
}

func (b *Bot) userID(chatID int64) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.logins[chatID]
}

// keyboard renders a prompt's choices as an inline keyboard. Rows takes
// precedence over the flat Choices list.
func keyboard(p flow.Prompt) *InlineKeyboardMarkup {
	rows := p.Rows
	if len(rows) == 0 && len(p.Choices) > 0 {
		for _, c := range p.Choices {
			rows = append(rows, []flow.Choice{c})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	markup := &InlineKeyboardMarkup{}
	for _, row := range rows {
		var buttons []InlineKeyboardButton
		for _, c := range row {
			buttons = append(buttons, InlineKeyboardButton{Text: c.Label, CallbackData: c.ID})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}
