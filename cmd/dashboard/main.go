package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/example/taskhub/client"
	"github.com/example/taskhub/tui"
)

var (
	serverURL string
	token     string
	userID    string
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Terminal dashboard for the task API",
	Long: `dashboard is a terminal UI over the task API server.
Browse, search, filter, and sort your tasks, and create or edit them
without leaving the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		if token != "" {
			c.SetToken(token)
		}

		program := tea.NewProgram(tui.NewApp(c, userID), tea.WithAltScreen())
		_, err := program.Run()
		return err
	},
}

func init() {
	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:3000", "task API server base URL")
	rootCmd.Flags().StringVar(&token, "token", "", "Bearer token for authenticated requests")
	rootCmd.Flags().StringVar(&userID, "user", "", "scope the task list to this user ID")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
