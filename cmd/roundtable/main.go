package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/roundtable/agents"
	"github.com/tailored-agentic-units/roundtable/archive"
	"github.com/tailored-agentic-units/roundtable/bridge"
	"github.com/tailored-agentic-units/roundtable/conversation"
	"github.com/tailored-agentic-units/roundtable/llm"
	"github.com/tailored-agentic-units/roundtable/observability"
	"github.com/tailored-agentic-units/roundtable/pricing"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to conversation config JSON file (optional)")
		task        = flag.String("task", "", "Migration task to analyze (required)")
		archiveDir  = flag.String("archive", "", "Directory for archived transcripts (optional)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging to stderr")
		showHistory = flag.Bool("history", false, "Print the full transcript after completion")
	)
	flag.Parse()

	if *task == "" {
		fmt.Fprintln(os.Stderr, "Usage: roundtable -task <text> [-config <file>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := conversation.DefaultConfig()
	if *configFile != "" {
		loaded, err := conversation.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	llmCfg := llm.ConfigFromEnv()
	client, err := llm.NewClient(llmCfg)
	if err != nil {
		log.Fatalf("Failed to create model client: %v", err)
	}

	if err := pricing.RegisterTools(pricing.NewClient()); err != nil {
		log.Fatalf("Failed to register pricing tools: %v", err)
	}

	b := bridge.New()
	roster, err := agents.MigrationTeam(client, b, cfg.Selector.HumanInputMarker)
	if err != nil {
		log.Fatalf("Failed to build team: %v", err)
	}

	sess, err := conversation.New(cfg, roster,
		conversation.WithBridge(b),
		conversation.WithObserver(observability.NewSlogObserver(logger)),
	)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := make(chan outcome, 1)
	go func() {
		result, err := sess.Run(ctx, *task)
		done <- outcome{result, err}
	}()

	result := serveConversation(sess, done)
	if result == nil {
		os.Exit(1)
	}

	fmt.Printf("\nTermination: %s (%d turns)\n", result.Reason, result.Turns)

	if *showHistory {
		fmt.Println("\nTranscript:")
		for _, rec := range sess.Transcript() {
			fmt.Printf("  [%d] %s: %s\n", rec.Seq, rec.Sender, rec.Content)
		}
	}

	if *archiveDir != "" {
		store := archive.NewStore(*archiveDir)
		key, err := store.Save(ctx, archive.Record{
			ID:          uuid.Must(uuid.NewV7()).String(),
			Task:        *task,
			FinalAnswer: result.FinalAnswer,
			Reason:      string(result.Reason),
			Turns:       sess.Transcript(),
		})
		if err != nil {
			log.Fatalf("Failed to archive transcript: %v", err)
		}
		fmt.Printf("Archived: %s\n", key)
	}
}

type outcome struct {
	result *conversation.Result
	err    error
}

// serveConversation is the foreground loop: it prints feed messages as they
// arrive and answers user_input_request messages from stdin via the bridge.
// Returns nil when the session failed.
func serveConversation(sess *conversation.Session, done <-chan outcome) *conversation.Result {
	stdin := bufio.NewScanner(os.Stdin)
	feed := sess.Feed()

	for {
		msg, ok := feed.TryReceive()
		if !ok {
			select {
			case out := <-done:
				// Flush whatever the worker published before finishing.
				for _, msg := range feed.Drain() {
					printMessage(msg)
				}
				if out.err != nil {
					fmt.Fprintf(os.Stderr, "conversation error: %v\n", out.err)
					return nil
				}
				return out.result
			case <-time.After(50 * time.Millisecond):
			}
			continue
		}

		printMessage(msg)

		if msg.Kind == conversation.KindUserInputRequest {
			fmt.Print("> ")
			answer := ""
			if stdin.Scan() {
				answer = strings.TrimSpace(stdin.Text())
			}
			if answer == "" {
				answer = bridge.DefaultFallback
			}
			sess.Bridge().Respond(answer)
		}
	}
}

func printMessage(msg conversation.DisplayMessage) {
	switch msg.Kind {
	case conversation.KindInfo:
		fmt.Printf("-- %s\n", msg.Content)
	case conversation.KindError:
		fmt.Fprintf(os.Stderr, "!! %s\n", msg.Content)
	case conversation.KindUserInputRequest:
		fmt.Printf("?? %s\n", msg.Content)
	default:
		fmt.Printf("[%s] %s\n", msg.Sender, msg.Content)
	}
}
