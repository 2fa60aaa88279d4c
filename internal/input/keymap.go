// internal/input/keymap.go
package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to editor actions.
type Keymap map[tcell.Key]Action        // For special keys (Enter, Arrows, etc.)
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Ctrl, Alt, Shift)

// ToolbarKeymap maps Alt+<rune> to toolbar command tokens.
type ToolbarKeymap map[rune]string

// DefaultToolbar is the toolbar bound to Alt+<key>.
var DefaultToolbar = ToolbarKeymap{
	'1': "h1",
	'2': "h2",
	'3': "h3",
	'4': "h4",
	'5': "h5",
	'6': "h6",
	'q': "quote",
	'o': "ordered",
	'l': "unordered",
	's': "strike",
	'`': "code",
	'k': "link",
	'[': "left",
	'e': "center",
	']': "right",
	'j': "justify",
}

// InputProcessor translates tcell events into ActionEvents. Editor shortcuts
// (Ctrl+B/I/U/Z/Y and Enter) are not mapped here; the editor sees every key
// first and only unhandled keys reach the processor.
type InputProcessor struct {
	keymap    Keymap
	modKeymap ModKeymap
	toolbar   ToolbarKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:    make(Keymap),
		modKeymap: make(ModKeymap),
		toolbar:   make(ToolbarKeymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyPgUp] = ActionMovePageUp
	p.keymap[tcell.KeyPgDn] = ActionMovePageDown
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyEnter] = ActionInsertNewLine
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward
	p.keymap[tcell.KeyDelete] = ActionDeleteCharForward
	p.keymap[tcell.KeyEscape] = ActionQuit
	p.keymap[tcell.KeyF3] = ActionFindNext

	// --- Ctrl bindings ---
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlS] = ActionSave
	ctrlMap[tcell.KeyCtrlQ] = ActionForceQuit
	ctrlMap[tcell.KeyCtrlA] = ActionSelectAll
	ctrlMap[tcell.KeyCtrlC] = ActionCopy
	ctrlMap[tcell.KeyCtrlX] = ActionCut
	ctrlMap[tcell.KeyCtrlV] = ActionPaste
	ctrlMap[tcell.KeyCtrlF] = ActionEnterFindMode
	ctrlMap[tcell.KeyCtrlN] = ActionFindNext
	ctrlMap[tcell.KeyCtrlP] = ActionFindPrevious
	ctrlMap[tcell.KeyCtrlK] = ActionEnterCommandMode
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	for r, token := range DefaultToolbar {
		p.toolbar[r] = token
	}
}

// BindToolbar binds Alt+r to a toolbar token, replacing any earlier binding.
func (p *InputProcessor) BindToolbar(r rune, token string) {
	p.toolbar[unicode.ToLower(r)] = token
}

// ProcessEvent takes a tcell key event and returns the corresponding ActionEvent.
// The prompt mode is not handled here; the mode handler interprets the action.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	runeVal := ev.Rune()

	// 1. Toolbar: Alt (or Meta) + rune
	if key == tcell.KeyRune && mod&(tcell.ModAlt|tcell.ModMeta) != 0 {
		if token, ok := p.toolbar[unicode.ToLower(runeVal)]; ok {
			return ActionEvent{Action: ActionFormat, Token: token}
		}
		return ActionEvent{Action: ActionUnknown}
	}

	// 2. Ctrl+<key>. Terminals report Ctrl+letter as its own key code, with
	// or without the Ctrl modifier set.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		if action, ok := p.modKeymap[tcell.ModCtrl][key]; ok {
			return ActionEvent{Action: action}
		}
	}
	if modKeyMap, modOk := p.modKeymap[mod]; modOk {
		if action, keyOk := modKeyMap[key]; keyOk {
			return ActionEvent{Action: action}
		}
	}

	// 3. Simple keys; Shift is allowed so Shift+arrows extend the selection.
	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 4. Plain runes are typed.
	if key == tcell.KeyRune && mod&tcell.ModCtrl == 0 {
		return ActionEvent{Action: ActionInsertRune, Rune: runeVal}
	}
	if key == tcell.KeyTab {
		return ActionEvent{Action: ActionInsertRune, Rune: '\t'}
	}

	return ActionEvent{Action: ActionUnknown}
}
