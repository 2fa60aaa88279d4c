// internal/input/action.go
package input

// Action represents a command or operation to be performed by the editor.
type Action int

// Define the set of possible editor actions.
const (
	// --- Meta Actions ---
	ActionUnknown   Action = iota // Default/invalid action
	ActionQuit                    // Esc: cancels a prompt, else quits (asks once when modified)
	ActionForceQuit               // Quit without checking modified status
	ActionSave

	// --- Caret Movement ---
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveHome // Beginning of line
	ActionMoveEnd  // End of line
	ActionSelectAll

	// --- Text Manipulation ---
	ActionInsertRune         // Requires Rune argument
	ActionInsertNewLine      // Enter
	ActionDeleteCharForward  // Delete key
	ActionDeleteCharBackward // Backspace key
	ActionCopy
	ActionCut
	ActionPaste

	// --- Toolbar ---
	ActionFormat // Requires Token argument

	// --- Prompts ---
	ActionEnterCommandMode
	ActionEnterFindMode
	ActionFindNext
	ActionFindPrevious
)

// ActionEvent represents a decoded input event resulting in an action.
type ActionEvent struct {
	Action Action
	Rune   rune   // Used for ActionInsertRune
	Token  string // Used for ActionFormat
}
