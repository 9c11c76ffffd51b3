// Package tui is the terminal client: a bubbletea program whose model is
// the session-local cache of categories and tasks. The cache is never
// authoritative; it only ever applies what the server responded with, and a
// reload refetches everything.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/ticklist/ticklist/internal/client"
	"github.com/ticklist/ticklist/internal/model"
	"github.com/ticklist/ticklist/internal/repository"
)

type mode int

const (
	modeLogin mode = iota
	modeBoard
	modeInput
	modeConfirm
)

type inputKind int

const (
	inputAddTask inputKind = iota
	inputAddCategory
	inputEditTask
)

// Toast is a transient status line. Seq identifies the toast generation:
// a dismissal carrying a stale generation is ignored, so a newer toast
// supersedes any pending dismissal of an older one.
type Toast struct {
	Text    string
	IsError bool
	Seq     int
}

// Confirmation stages a destructive action. Action fires only on confirm;
// cancelling drops the descriptor with no side effect.
type Confirmation struct {
	Title   string
	Message string
	Action  tea.Cmd
}

type Model struct {
	api *client.Client

	mode mode

	// login view
	registering bool
	loginFocus  int
	username    textinput.Model
	email       textinput.Model
	password    textinput.Model

	// board state: the client-side cache of server data
	user       *model.User
	categories []string
	tasks      []model.Task
	selected   string // active category filter
	cursor     int

	// single-line input for add/edit flows
	input     textinput.Model
	inputKind inputKind
	editID    uuid.UUID

	confirm *Confirmation
	toast   Toast

	width  int
	height int
}

func New(api *client.Client) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 30
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	input := textinput.New()
	input.CharLimit = 500

	return Model{
		api:      api,
		mode:     modeLogin,
		email:    email,
		username: username,
		password: password,
		input:    input,
		selected: repository.AllCategories,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// filterOptions is the cycle order for the category filter.
func (m Model) filterOptions() []string {
	return append([]string{repository.AllCategories}, m.categories...)
}

// selectedTask returns the task under the cursor, or nil.
func (m Model) selectedTask() *model.Task {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.cursor]
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
