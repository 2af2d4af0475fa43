package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"tripmitra/internal/config"
	llmModels "tripmitra/internal/domain/models/llm"
	domainLLM "tripmitra/internal/domain/services/llm"
	"tripmitra/internal/repository"
	"tripmitra/internal/service"
	llmService "tripmitra/internal/service/llm"
	"tripmitra/internal/service/llm/conversation"

	"github.com/joho/godotenv"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type CLI struct {
	ctx      context.Context
	prefs    *service.PreferenceService
	enricher *conversation.QueryEnricher
	sessions domainLLM.SessionService
	runner   domainLLM.Runner
	timeout  time.Duration
	scanner  *bufio.Scanner
	userID   string
	logger   *slog.Logger
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Console is for the conversation; logs go to a file only
	logDir := cfg.LogDir
	if logDir == "" {
		logDir = "logs"
	}
	logFile, err := config.SetupLogFile(logDir, cfg.LogMaxFiles)
	if err != nil {
		fmt.Printf("%s❌ Failed to setup logger: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("session started", "log_file", logFile.Name())

	userID := os.Getenv("TEST_USER_ID")
	if userID == "" {
		userID = "cli_user"
	}

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("store connection failed", "error", err)
		fmt.Printf("%s❌ Failed to open preference store: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	prefs := service.NewPreferenceService(store.Preferences, logger)
	failSoft := service.NewFailSoftPreferenceService(prefs, logger)

	registry, err := llmService.SetupProviders(cfg, logger)
	if err != nil {
		fmt.Printf("%s❌ Failed to setup providers: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	services, err := llmService.SetupServices(ctx, cfg, registry, failSoft, logger)
	if err != nil {
		fmt.Printf("%s❌ Failed to setup agent: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	cli := &CLI{
		ctx:      ctx,
		prefs:    prefs,
		enricher: conversation.NewQueryEnricher(failSoft, logger),
		sessions: services.Sessions,
		runner:   services.Runner,
		timeout:  cfg.AgentTimeout,
		scanner:  bufio.NewScanner(os.Stdin),
		userID:   userID,
		logger:   logger,
	}
	cli.run()
}

func (cli *CLI) run() {
	fmt.Printf("\n%s╔══════════════════════════════════════╗%s\n", colorCyan, colorReset)
	fmt.Printf("%s║    Trip Mitra Agent CLI              ║%s\n", colorCyan, colorReset)
	fmt.Printf("%s╚══════════════════════════════════════╝%s\n", colorCyan, colorReset)
	fmt.Printf("%sUser: %s%s\n\n", colorBlue, cli.userID, colorReset)

	for {
		fmt.Println("\n" + strings.Repeat("─", 40))
		fmt.Println("Main Menu:")
		fmt.Println("1. Ask the trip agent")
		fmt.Println("2. Show my preferences")
		fmt.Println("3. Show session history")
		fmt.Println("4. Exit")
		fmt.Print("\nSelect option (1-4): ")

		choice := cli.readLine()
		fmt.Println()

		switch choice {
		case "1":
			cli.ask()
		case "2":
			cli.showPreferences()
		case "3":
			cli.showHistory()
		case "4":
			fmt.Printf("%s✓ Goodbye!%s\n", colorGreen, colorReset)
			return
		default:
			fmt.Printf("%s⚠ Invalid choice. Please enter 1-4.%s\n", colorYellow, colorReset)
		}
	}
}

// ask streams the agent's answer as it arrives
func (cli *CLI) ask() {
	fmt.Print("Where do you want to go? ")
	query := cli.readLine()
	if query == "" {
		fmt.Printf("%s⚠ Query cannot be empty%s\n", colorYellow, colorReset)
		return
	}

	enriched := cli.enricher.Enrich(cli.ctx, cli.userID, query)
	if enriched != query {
		fmt.Printf("%s(using saved preferences)%s\n", colorBlue, colorReset)
	}

	sessionID := llmService.SessionKey(cli.userID)
	if _, err := cli.sessions.CreateSession(cli.ctx, llmService.AppName, cli.userID, sessionID); err != nil {
		fmt.Printf("%s❌ Failed to create session: %v%s\n", colorRed, err, colorReset)
		return
	}

	ctx := cli.ctx
	if cli.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(cli.ctx, cli.timeout)
		defer cancel()
	}

	started := time.Now()
	message := domainLLM.Message{Role: domainLLM.RoleUser, Text: enriched}
	fmt.Printf("\n%sAgent:%s ", colorGreen, colorReset)

	var final *llmModels.Event
	for event, err := range cli.runner.Run(ctx, cli.userID, sessionID, message) {
		if err != nil {
			fmt.Printf("\n%s❌ %v%s\n", colorRed, err, colorReset)
			return
		}
		if event.Partial {
			fmt.Print(event.Text)
			continue
		}
		if event.IsFinalResponse() {
			final = event
			break
		}
	}
	fmt.Println()

	if final == nil {
		fmt.Printf("%s⚠ Agent finished without a final response%s\n", colorYellow, colorReset)
		return
	}
	fmt.Printf("%s✓ Done in %s (finish: %s)%s\n", colorGreen, time.Since(started).Round(time.Millisecond), final.FinishReason, colorReset)
}

func (cli *CLI) showPreferences() {
	record, err := cli.prefs.Get(cli.ctx, cli.userID)
	if err != nil {
		fmt.Printf("%s⚠ %v%s\n", colorYellow, err, colorReset)
		return
	}
	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		fmt.Printf("%s❌ %v%s\n", colorRed, err, colorReset)
		return
	}
	fmt.Println(string(out))
}

func (cli *CLI) showHistory() {
	session, err := cli.sessions.GetSession(cli.ctx, llmService.AppName, cli.userID, llmService.SessionKey(cli.userID))
	if err != nil {
		fmt.Printf("%s⚠ No session yet%s\n", colorYellow, colorReset)
		return
	}
	for i, event := range session.Events {
		color := colorBlue
		if event.Author == llmModels.AuthorUser {
			color = colorCyan
		}
		fmt.Printf("%s[%d] %s%s (%s)\n", color, i+1, event.Author, colorReset, event.Timestamp.Format(time.Kitchen))
		fmt.Println(truncate(event.Text, 400))
	}
}

func (cli *CLI) readLine() string {
	if !cli.scanner.Scan() {
		return "4"
	}
	return strings.TrimSpace(cli.scanner.Text())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
