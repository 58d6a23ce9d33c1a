// Package keymap resolves named actions to key chords.
//
// Resolution order: the user's per-action override table, then the selected
// profile ("default" or "vim"), with actions the alternate profile leaves
// undefined falling through to the default profile. A key event matches an
// action only when both the key code and the full modifier set are equal to
// the resolved chord.
package keymap

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Modifier is a bit set of chord modifiers.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
)

// Chord is a key code plus its complete modifier set.
type Chord struct {
	// Code is a normalized key name: a single rune, or a lowercase named
	// key ("enter", "tab", "pgup", ...).
	Code string
	Mods Modifier
}

var namedKeys = map[string]string{
	"enter":     "enter",
	"esc":       "esc",
	"escape":    "esc",
	"tab":       "tab",
	"backtab":   "shift+tab",
	"backspace": "backspace",
	"delete":    "delete",
	"del":       "delete",
	"insert":    "insert",
	"ins":       "insert",
	"space":     " ",
	"home":      "home",
	"end":       "end",
	"pageup":    "pgup",
	"pgup":      "pgup",
	"pagedown":  "pgdown",
	"pgdn":      "pgdown",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
}

// Parse parses a chord string like "q", "Ctrl+g", "Shift+Tab" or "Enter".
func Parse(s string) (Chord, error) {
	parts := strings.Split(s, "+")
	keyPart := parts[len(parts)-1]
	if keyPart == "" {
		return Chord{}, fmt.Errorf("invalid key string: %q", s)
	}

	var mods Modifier
	for _, part := range parts[:len(parts)-1] {
		switch strings.ToLower(part) {
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt":
			mods |= ModAlt
		case "shift":
			mods |= ModShift
		default:
			return Chord{}, fmt.Errorf("unknown modifier %q in %q", part, s)
		}
	}

	if name, ok := namedKeys[strings.ToLower(keyPart)]; ok {
		if name == "shift+tab" {
			return Chord{Code: "tab", Mods: mods | ModShift}, nil
		}
		return Chord{Code: name, Mods: mods}, nil
	}
	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Chord{}, fmt.Errorf("unknown key %q in %q", keyPart, s)
	}
	r := runes[0]
	if unicode.IsUpper(r) {
		return Chord{Code: string(unicode.ToLower(r)), Mods: mods | ModShift}, nil
	}
	return Chord{Code: string(r), Mods: mods}, nil
}

// String renders the chord in the form key events arrive in: modifiers
// encode as prefixes for named keys, as the uppercase rune for shifted
// letters, and not at all for shifted symbols (the terminal reports the
// symbol itself).
func (c Chord) String() string {
	var b strings.Builder
	if c.Mods&ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if c.Mods&ModAlt != 0 {
		b.WriteString("alt+")
	}
	code := c.Code
	if c.Mods&ModShift != 0 {
		r := []rune(code)
		switch {
		case len(r) == 1 && unicode.IsLetter(r[0]):
			code = string(unicode.ToUpper(r[0]))
		case len(r) > 1:
			b.WriteString("shift+")
		}
	}
	b.WriteString(code)
	return b.String()
}

// profile is an action-to-chord-string table.
type profile map[string]string

var defaultProfile = profile{
	"quit":              "q",
	"help":              "?",
	"theme_toggle":      "t",
	"toggle_formulas":   "f",
	"search":            "/",
	"next_match":        "n",
	"prev_match":        "Shift+n",
	"copy_cell":         "c",
	"copy_row":          "Shift+c",
	"jump":              "Ctrl+g",
	"show_cell_detail":  "Enter",
	"next_sheet":        "Tab",
	"prev_sheet":        "Shift+Tab",
	"up":                "Up",
	"down":              "Down",
	"left":              "Left",
	"right":             "Right",
	"page_up":           "PageUp",
	"page_down":         "PageDown",
	"jump_to_top":       "Ctrl+Home",
	"jump_to_bottom":    "Ctrl+End",
	"jump_to_row_start": "Home",
	"jump_to_row_end":   "End",
}

var vimProfile = profile{
	"up":                "k",
	"down":              "j",
	"left":              "h",
	"right":             "l",
	"page_up":           "Ctrl+u",
	"page_down":         "Ctrl+d",
	"jump_to_top":       "g",
	"jump_to_bottom":    "Shift+g",
	"jump_to_row_start": "0",
	"jump_to_row_end":   "$",
	"quit":              "q",
	"copy_cell":         "y",
	"copy_row":          "Shift+y",
}

// ActionOrder is the fixed priority in which the session controller tests
// actions against a key event; the first match fires.
var ActionOrder = []string{
	"quit",
	"help",
	"theme_toggle",
	"toggle_formulas",
	"search",
	"next_match",
	"prev_match",
	"copy_cell",
	"copy_row",
	"jump",
	"show_cell_detail",
	"next_sheet",
	"prev_sheet",
	"up",
	"down",
	"left",
	"right",
	"page_up",
	"page_down",
	"jump_to_top",
	"jump_to_bottom",
	"jump_to_row_start",
	"jump_to_row_end",
}

// Keymap resolves actions against a profile plus user overrides.
type Keymap struct {
	profileName string
	custom      map[string]string
	bindings    map[string]key.Binding
}

// New builds a Keymap for the named profile ("default" unless "vim") and
// the given override table.
func New(profileName string, custom map[string]string) *Keymap {
	k := &Keymap{
		profileName: profileName,
		custom:      custom,
		bindings:    make(map[string]key.Binding, len(ActionOrder)),
	}
	for _, action := range ActionOrder {
		if chord, ok := k.Resolve(action); ok {
			k.bindings[action] = key.NewBinding(
				key.WithKeys(chord.String()),
				key.WithHelp(chord.String(), strings.ReplaceAll(action, "_", " ")),
			)
		}
	}
	return k
}

// Resolve returns the chord bound to action: the override table wins, then
// the selected profile, then the default profile. An override that fails to
// parse leaves the action unbound.
func (k *Keymap) Resolve(action string) (Chord, bool) {
	if s, ok := k.custom[action]; ok {
		chord, err := Parse(s)
		if err != nil {
			return Chord{}, false
		}
		return chord, true
	}
	if k.profileName == "vim" {
		if s, ok := vimProfile[action]; ok {
			chord, err := Parse(s)
			if err != nil {
				return Chord{}, false
			}
			return chord, true
		}
	}
	s, ok := defaultProfile[action]
	if !ok {
		return Chord{}, false
	}
	chord, err := Parse(s)
	if err != nil {
		return Chord{}, false
	}
	return chord, true
}

// Binding returns the bubbles key binding for action, if bound.
func (k *Keymap) Binding(action string) (key.Binding, bool) {
	b, ok := k.bindings[action]
	return b, ok
}

// Matches reports whether the key event is exactly the chord bound to
// action.
func (k *Keymap) Matches(msg tea.KeyMsg, action string) bool {
	b, ok := k.bindings[action]
	if !ok {
		return false
	}
	return key.Matches(msg, b)
}

// Help returns chord/action help pairs in priority order, for the help
// overlay.
func (k *Keymap) Help() [][2]string {
	out := make([][2]string, 0, len(ActionOrder))
	for _, action := range ActionOrder {
		if chord, ok := k.Resolve(action); ok {
			out = append(out, [2]string{chord.String(), strings.ReplaceAll(action, "_", " ")})
		}
	}
	return out
}
