package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"swiftsell/internal/assistant"
	"swiftsell/internal/config"
	"swiftsell/internal/listing"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the selling assistant",
	Long: `Starts an interactive session with the SwiftSell assistant for advice
on pricing, listing quality, and which marketplace fits an item.

Type 'exit' or 'quit' to leave.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var mu sync.Mutex
	client, err := assistant.NewClient(cmd.Context(), a.cfg)
	if err != nil {
		return fmt.Errorf("failed to create assistant client: %w", err)
	}

	// The chat session is the one long-lived process; credential edits take
	// effect by rebuilding the client on config reload.
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	watcher, err := config.NewWatcher(path, func(cfg *config.Config) {
		fresh, err := assistant.NewClient(cmd.Context(), cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config reloaded but assistant rebuild failed:", err)
			return
		}
		mu.Lock()
		client = fresh
		mu.Unlock()
		fmt.Println("\n(configuration reloaded)")
	})
	if err == nil {
		if err := watcher.Start(); err == nil {
			defer watcher.Stop()
		}
	}

	fmt.Println("SwiftSell assistant. Ask about pricing, listings, or marketplaces.")
	var history []listing.ChatMessage
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		mu.Lock()
		active := client
		mu.Unlock()
		history = append(history, listing.ChatMessage{Role: listing.RoleUser, Content: input})
		reply, err := active.Respond(cmd.Context(), history)
		if err != nil {
			fmt.Fprintln(os.Stderr, "assistant error:", err)
			// Drop the failed turn so the transcript stays consistent.
			history = history[:len(history)-1]
			continue
		}
		history = append(history, listing.ChatMessage{Role: listing.RoleAssistant, Content: reply})
		fmt.Println(reply)
	}
	return scanner.Err()
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
