package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ticklist/ticklist/internal/client"
	"github.com/ticklist/ticklist/internal/model"
	"github.com/ticklist/ticklist/internal/repository"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(typed)

	case authOKMsg:
		m.user = &typed.result.User
		m.mode = modeBoard
		m.password.SetValue("")
		toastCmd := m.showToast(fmt.Sprintf("Welcome, %s!", typed.result.User.Username), false)
		return m, tea.Batch(toastCmd, loadInitialDataCmd(m.api))

	case initialDataMsg:
		m.categories = make([]string, 0, len(typed.categories))
		for _, category := range typed.categories {
			m.categories = append(m.categories, category.Name)
		}
		m.tasks = typed.tasks
		m.cursor = 0
		return m, nil

	case tasksLoadedMsg:
		m.tasks = typed.tasks
		m.clampCursor()
		return m, nil

	case categoryCreatedMsg:
		// Server lists newest first; mirror that ordering locally.
		m.categories = append([]string{typed.category.Name}, m.categories...)
		return m, m.showToast(fmt.Sprintf("Category %q created successfully!", typed.category.Name), false)

	case categoryDeletedMsg:
		// Mirror the server cascade: drop the category name and every local
		// task tagged with it. Anything else would diverge until reload.
		kept := m.categories[:0]
		for _, name := range m.categories {
			if name != typed.name {
				kept = append(kept, name)
			}
		}
		m.categories = kept

		keptTasks := m.tasks[:0]
		for _, task := range m.tasks {
			if task.Category != typed.name {
				keptTasks = append(keptTasks, task)
			}
		}
		m.tasks = keptTasks

		if m.selected == typed.name {
			m.selected = repository.AllCategories
		}
		m.clampCursor()
		return m, m.showToast(fmt.Sprintf("Category %q deleted (%d tasks removed)", typed.name, typed.deletedTasks), false)

	case taskCreatedMsg:
		if m.selected == repository.AllCategories || m.selected == typed.task.Category {
			m.tasks = append([]model.Task{*typed.task}, m.tasks...)
		}
		return m, m.showToast("Task created successfully!", false)

	case taskUpdatedMsg:
		for i := range m.tasks {
			if m.tasks[i].ID == typed.task.ID {
				m.tasks[i] = *typed.task
				break
			}
		}
		return m, m.showToast("Task updated successfully!", false)

	case taskDeletedMsg:
		kept := m.tasks[:0]
		for _, task := range m.tasks {
			if task.ID != typed.id {
				kept = append(kept, task)
			}
		}
		m.tasks = kept
		m.clampCursor()
		return m, m.showToast("Task deleted successfully!", false)

	case errMsg:
		// Local state is left exactly as it was; the failure only surfaces
		// as a toast.
		return m, m.showToast(typed.err.Error(), true)

	case toastExpiredMsg:
		if typed.seq == m.toast.Seq {
			m.toast = Toast{Seq: m.toast.Seq}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeLogin:
		return m.updateLoginKey(key)
	case modeBoard:
		return m.updateBoardKey(key)
	case modeInput:
		return m.updateInputKey(key)
	case modeConfirm:
		return m.updateConfirmKey(key)
	}
	return m, nil
}

// LOGIN VIEW

func (m *Model) loginFields() []*textinput.Model {
	if m.registering {
		return []*textinput.Model{&m.username, &m.email, &m.password}
	}
	return []*textinput.Model{&m.email, &m.password}
}

func (m Model) updateLoginKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.loginFields()

	switch key.String() {
	case "tab", "down":
		m.loginFocus = (m.loginFocus + 1) % len(fields)
	case "shift+tab", "up":
		m.loginFocus = (m.loginFocus + len(fields) - 1) % len(fields)
	case "ctrl+r":
		m.registering = !m.registering
		m.loginFocus = 0
	case "enter":
		email := strings.TrimSpace(m.email.Value())
		password := m.password.Value()
		if m.registering {
			return m, registerCmd(m.api, strings.TrimSpace(m.username.Value()), email, password)
		}
		return m, loginCmd(m.api, email, password)
	default:
		var cmd tea.Cmd
		*fields[m.loginFocus], cmd = fields[m.loginFocus].Update(key)
		return m, cmd
	}

	for i, field := range m.loginFields() {
		if i == m.loginFocus {
			field.Focus()
		} else {
			field.Blur()
		}
	}
	return m, nil
}

// BOARD VIEW

func (m Model) updateBoardKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case "left", "h", "right", "l":
		// Changing the filter refetches from the server instead of
		// filtering the cache.
		options := m.filterOptions()
		current := 0
		for i, name := range options {
			if name == m.selected {
				current = i
				break
			}
		}
		if key.String() == "right" || key.String() == "l" {
			current = (current + 1) % len(options)
		} else {
			current = (current + len(options) - 1) % len(options)
		}
		m.selected = options[current]
		return m, loadTasksCmd(m.api, m.selected)

	case " ", "enter":
		if task := m.selectedTask(); task != nil {
			return m, toggleTaskCmd(m.api, task.ID)
		}

	case "a":
		if m.selected == repository.AllCategories {
			return m, m.showToast("Select a category filter before adding a task", true)
		}
		m.mode = modeInput
		m.inputKind = inputAddTask
		m.input.Placeholder = "task text"
		m.input.SetValue("")
		m.input.Focus()

	case "c":
		m.mode = modeInput
		m.inputKind = inputAddCategory
		m.input.Placeholder = "category name"
		m.input.SetValue("")
		m.input.Focus()

	case "e":
		if task := m.selectedTask(); task != nil {
			m.mode = modeInput
			m.inputKind = inputEditTask
			m.editID = task.ID
			m.input.Placeholder = "task text"
			m.input.SetValue(task.Text)
			m.input.Focus()
		}

	case "d":
		if task := m.selectedTask(); task != nil {
			m.confirm = &Confirmation{
				Title:   "Delete Task",
				Message: fmt.Sprintf("Are you sure you want to delete %q?", task.Text),
				Action:  deleteTaskCmd(m.api, task.ID),
			}
			m.mode = modeConfirm
		}

	case "D":
		if m.selected == repository.AllCategories {
			return m, m.showToast("Select a category filter to delete it", true)
		}
		m.confirm = &Confirmation{
			Title:   "Delete Category",
			Message: fmt.Sprintf("Are you sure you want to delete %q? This will also delete all tasks in this category.", m.selected),
			Action:  deleteCategoryCmd(m.api, m.selected),
		}
		m.mode = modeConfirm

	case "r":
		return m, loadInitialDataCmd(m.api)
	}

	return m, nil
}

// INPUT VIEW

func (m Model) updateInputKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = modeBoard
		m.input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, m.showToast("Nothing to submit", true)
		}
		m.mode = modeBoard
		m.input.Blur()

		switch m.inputKind {
		case inputAddCategory:
			return m, createCategoryCmd(m.api, value)
		case inputAddTask:
			return m, createTaskCmd(m.api, value, m.selected)
		case inputEditTask:
			return m, updateTaskCmd(m.api, m.editID, client.TaskUpdate{Text: &value})
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(key)
		return m, cmd
	}
}

// CONFIRM VIEW

func (m Model) updateConfirmKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y", "enter":
		var action tea.Cmd
		if m.confirm != nil {
			action = m.confirm.Action
		}
		m.confirm = nil
		m.mode = modeBoard
		return m, action

	case "n", "esc":
		// Cancelling discards the staged action entirely.
		m.confirm = nil
		m.mode = modeBoard
		return m, nil
	}
	return m, nil
}

// showToast installs a new toast generation. Any dismissal scheduled for an
// earlier generation becomes a no-op.
func (m *Model) showToast(text string, isError bool) tea.Cmd {
	m.toast = Toast{Text: text, IsError: isError, Seq: m.toast.Seq + 1}
	seq := m.toast.Seq
	return expireToastCmd(seq)
}
