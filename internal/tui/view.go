package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ticklist/ticklist/internal/repository"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	filterStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeFilterStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Underline(true)

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243"))

	toastStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	toastErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	switch m.mode {
	case modeLogin:
		return m.viewLogin()
	case modeConfirm:
		return m.viewConfirm()
	default:
		return m.viewBoard()
	}
}

func (m Model) viewLogin() string {
	var b strings.Builder

	if m.registering {
		b.WriteString(titleStyle.Render("ticklist — register"))
		b.WriteString("\n\n")
		b.WriteString(m.username.View())
		b.WriteString("\n")
	} else {
		b.WriteString(titleStyle.Render("ticklist — login"))
		b.WriteString("\n\n")
	}
	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter submit • tab next field • ctrl+r switch login/register • ctrl+c quit"))
	b.WriteString("\n")
	b.WriteString(m.viewToast())

	return b.String()
}

func (m Model) viewBoard() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ticklist"))
	if m.user != nil {
		b.WriteString(helpStyle.Render("  (" + m.user.Username + ")"))
	}
	b.WriteString("\n\n")

	// filter bar
	parts := make([]string, 0, len(m.categories)+1)
	for _, name := range m.filterOptions() {
		if name == m.selected {
			parts = append(parts, activeFilterStyle.Render(name))
		} else {
			parts = append(parts, filterStyle.Render(name))
		}
	}
	b.WriteString(strings.Join(parts, "  "))
	b.WriteString("\n\n")

	// task list
	if len(m.tasks) == 0 {
		if m.selected == repository.AllCategories {
			b.WriteString(helpStyle.Render("no tasks yet — press c to create a category, a to add a task"))
		} else {
			b.WriteString(helpStyle.Render("no tasks in this category"))
		}
		b.WriteString("\n")
	}
	for i, task := range m.tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		line := task.Text
		if task.Completed {
			check = "[x]"
			line = doneStyle.Render(line)
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s\n", cursor, check, line, helpStyle.Render("("+task.Category+")")))
	}
	b.WriteString("\n")

	if m.mode == modeInput {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter submit • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("a add task • c add category • e edit • space toggle • d delete task • D delete category • ←/→ filter • r reload • q quit"))
	}
	b.WriteString("\n")
	b.WriteString(m.viewToast())

	return b.String()
}

func (m Model) viewConfirm() string {
	if m.confirm == nil {
		return m.viewBoard()
	}
	body := titleStyle.Render(m.confirm.Title) + "\n\n" +
		m.confirm.Message + "\n\n" +
		helpStyle.Render("y confirm • n cancel")
	return confirmStyle.Render(body)
}

func (m Model) viewToast() string {
	if m.toast.Text == "" {
		return ""
	}
	if m.toast.IsError {
		return toastErrorStyle.Render(m.toast.Text)
	}
	return toastStyle.Render(m.toast.Text)
}
