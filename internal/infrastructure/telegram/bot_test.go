package telegram

import (
	"testing"

	"finbot/internal/flow"
)

func TestKeyboard_FromRows(t *testing.T) {
	p := flow.Prompt{
		Text: "pick",
		Rows: [][]flow.Choice{
			{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
			{{ID: "cancel", Label: "❌ Cancelar"}},
		},
	}

	markup := keyboard(p)
	if markup == nil {
		t.Fatal("expected a keyboard")
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("got %d rows, want 2", len(markup.InlineKeyboard))
	}
	if len(markup.InlineKeyboard[0]) != 2 {
		t.Errorf("first row has %d buttons, want 2", len(markup.InlineKeyboard[0]))
	}
	if got := markup.InlineKeyboard[0][1]; got.Text != "B" || got.CallbackData != "b" {
		t.Errorf("button = %+v", got)
	}
}

func TestKeyboard_FlatChoicesOnePerRow(t *testing.T) {
	p := flow.Prompt{
		Text: "confirm",
		Choices: []flow.Choice{
			{ID: "confirm", Label: "✅ Confirmar"},
			{ID: "edit", Label: "✏️ Editar"},
		},
	}

	markup := keyboard(p)
	if markup == nil {
		t.Fatal("expected a keyboard")
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("got %d rows, want 2", len(markup.InlineKeyboard))
	}
	for _, row := range markup.InlineKeyboard {
		if len(row) != 1 {
			t.Errorf("row has %d buttons, want 1", len(row))
		}
	}
}

func TestKeyboard_NoChoices(t *testing.T) {
	if markup := keyboard(flow.Prompt{Text: "plain"}); markup != nil {
		t.Errorf("expected nil markup, got %+v", markup)
	}
}
