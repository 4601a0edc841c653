package flow

import "context"

// InputKind distinguishes free text from a keyboard selection.
type InputKind int

const (
	KindText InputKind = iota
	KindSelection
)

// Input is one inbound user event. Text inputs carry the message text;
// selections carry the chosen option's ID.
type Input struct {
	Kind      InputKind
	Text      string
	Selection string
}

// TextInput wraps a free-text message.
func TextInput(text string) Input {
	return Input{Kind: KindText, Text: text}
}

// SelectionInput wraps a keyboard selection by option ID.
func SelectionInput(id string) Input {
	return Input{Kind: KindSelection, Selection: id}
}

// Choice is one selectable option of a prompt.
type Choice struct {
	ID    string
	Label string
}

// Prompt is the bot's next message: text plus, optionally, a selection
// keyboard. Rows groups choices for rendering; a nil Rows means one
// choice per row.
type Prompt struct {
	Text    string
	Choices []Choice
	Rows    [][]Choice
}

// Flow is one guided conversation with a single user. Start returns the
// opening prompt; Handle advances the flow with the user's next input and
// reports whether the flow has finished. Validation failures re-prompt
// the same state; only store or backend failures surface as errors.
type Flow interface {
	Start(ctx context.Context) (Prompt, error)
	Handle(ctx context.Context, in Input) (Prompt, bool, error)
}
