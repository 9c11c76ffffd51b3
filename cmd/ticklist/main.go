package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ticklist/ticklist/internal/client"
	"github.com/ticklist/ticklist/internal/tui"
)

func main() {
	serverURL := os.Getenv("TICKLIST_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	program := tea.NewProgram(tui.New(client.New(serverURL)), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "ticklist:", err)
		os.Exit(1)
	}
}
