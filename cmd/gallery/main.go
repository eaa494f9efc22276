package main

import (
	"context"
	"os"
	"path/filepath"

	"ourphotos/client"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

func serverURL() string {
	if url := os.Getenv("GALLERY_SERVER"); url != "" {
		return url
	}
	return "http://localhost:3001"
}

func tokenPath() string {
	if path := os.Getenv("GALLERY_TOKEN_FILE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ourphotos-token.json"
	}
	return filepath.Join(home, ".ourphotos-token.json")
}

func main() {
	_ = godotenv.Load()
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "gallery"})

	api := client.New(serverURL(), client.NewFileTokenStore(tokenPath()))
	gallery := client.NewGallery(api)

	model := NewModel(context.Background(), gallery)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Fatal("UI error", "err", err)
	}
}
