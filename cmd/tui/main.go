package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"newsbrief/app"
	"newsbrief/client"
	"newsbrief/config"
	"newsbrief/tui"
	"newsbrief/types"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	// Parse command-line flags
	serverURL := flag.String("url", "", "Run against a newsbrief server at this URL instead of in-process")
	modeFlag := flag.String("mode", string(types.ModeSummary), "Initial mode: summary or sentiment")
	logFile := flag.String("log", "newsbrief.log", "Log file (the terminal is owned by the UI)")
	flag.Parse()

	mode, err := types.ParseMode(*modeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := run(*serverURL, *logFile, mode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run owns every resource so deferred cleanup happens before main exits
func run(serverURL, logFile string, mode types.Mode) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runner tui.Runner
	if serverURL != "" {
		// Remote mode needs no local keys
		runner = client.New(serverURL)
	} else {
		// Fail on missing keys before the UI takes over the terminal
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		runner = a.Summarizer
	}

	f, err := tea.LogToFile(logFile, "newsbrief")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	// Create the tea program
	program := tea.NewProgram(tui.NewModel(ctx, runner, mode), tea.WithAltScreen())

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
			program.Quit()
		case <-ctx.Done():
		}
	}()

	// Run the program
	if _, err := program.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
