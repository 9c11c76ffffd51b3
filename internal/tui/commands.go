package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/ticklist/ticklist/internal/client"
	"github.com/ticklist/ticklist/internal/model"
)

const (
	requestTimeout = 10 * time.Second
	toastDuration  = 3 * time.Second
)

// MESSAGES

type authOKMsg struct {
	result *client.AuthResult
}

type initialDataMsg struct {
	categories []model.Category
	tasks      []model.Task
}

type tasksLoadedMsg struct {
	tasks []model.Task
}

type categoryCreatedMsg struct {
	category *model.Category
}

type categoryDeletedMsg struct {
	name         string
	deletedTasks int64
}

type taskCreatedMsg struct {
	task *model.Task
}

type taskUpdatedMsg struct {
	task *model.Task
}

type taskDeletedMsg struct {
	id uuid.UUID
}

type errMsg struct {
	err error
}

type toastExpiredMsg struct {
	seq int
}

// COMMANDS

func expireToastCmd(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func registerCmd(api *client.Client, username, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		result, err := api.Register(ctx, username, email, password)
		if err != nil {
			return errMsg{err: err}
		}
		return authOKMsg{result: result}
	}
}

func loginCmd(api *client.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		result, err := api.Login(ctx, email, password)
		if err != nil {
			return errMsg{err: err}
		}
		return authOKMsg{result: result}
	}
}

// loadInitialDataCmd fetches categories and tasks in parallel. If either
// call fails the whole load fails: the cache stays empty rather than
// holding partial data.
func loadInitialDataCmd(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		type catResult struct {
			categories []model.Category
			err        error
		}
		catCh := make(chan catResult, 1)
		go func() {
			categories, err := api.Categories(ctx)
			catCh <- catResult{categories: categories, err: err}
		}()

		tasks, taskErr := api.Tasks(ctx, "")
		cats := <-catCh

		if taskErr != nil {
			return errMsg{err: taskErr}
		}
		if cats.err != nil {
			return errMsg{err: cats.err}
		}
		return initialDataMsg{categories: cats.categories, tasks: tasks}
	}
}

// loadTasksCmd refetches tasks for the given filter; the server, not the
// local cache, decides what a filter contains.
func loadTasksCmd(api *client.Client, categoryFilter string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		tasks, err := api.Tasks(ctx, categoryFilter)
		if err != nil {
			return errMsg{err: err}
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

func createCategoryCmd(api *client.Client, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		category, err := api.CreateCategory(ctx, name)
		if err != nil {
			return errMsg{err: err}
		}
		return categoryCreatedMsg{category: category}
	}
}

func deleteCategoryCmd(api *client.Client, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		deleted, err := api.DeleteCategory(ctx, name)
		if err != nil {
			return errMsg{err: err}
		}
		return categoryDeletedMsg{name: name, deletedTasks: deleted}
	}
}

func createTaskCmd(api *client.Client, text, category string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		task, err := api.CreateTask(ctx, text, category)
		if err != nil {
			return errMsg{err: err}
		}
		return taskCreatedMsg{task: task}
	}
}

func updateTaskCmd(api *client.Client, id uuid.UUID, update client.TaskUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		task, err := api.UpdateTask(ctx, id, update)
		if err != nil {
			return errMsg{err: err}
		}
		return taskUpdatedMsg{task: task}
	}
}

func toggleTaskCmd(api *client.Client, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		task, err := api.ToggleTask(ctx, id)
		if err != nil {
			return errMsg{err: err}
		}
		return taskUpdatedMsg{task: task}
	}
}

func deleteTaskCmd(api *client.Client, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := api.DeleteTask(ctx, id); err != nil {
			return errMsg{err: err}
		}
		return taskDeletedMsg{id: id}
	}
}
