// Command mira runs the companion agent: an interactive chat REPL, a
// WebSocket gateway, or a one-shot stats dump.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	mrand "math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nyxia-labs/mira/config"
	"github.com/nyxia-labs/mira/llm"
	"github.com/nyxia-labs/mira/memory"
	"github.com/nyxia-labs/mira/memory/embedder/cached"
	"github.com/nyxia-labs/mira/memory/embedder/mock"
	ollamaembed "github.com/nyxia-labs/mira/memory/embedder/ollama"
	"github.com/nyxia-labs/mira/memory/store/chromem"
	"github.com/nyxia-labs/mira/persona"
	"github.com/nyxia-labs/mira/runtime"
	"github.com/nyxia-labs/mira/web"
)

var (
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	replyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	thoughtStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "mira",
		Short: "Mira, an AI companion with memory and moods",
		Long: "Mira is a conversational companion with a two-tier memory\n" +
			"(short-term buffer plus a durable vector store), an affective\n" +
			"state that drifts with the conversation, and a proactive loop\n" +
			"that occasionally speaks up on its own.",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(newChatCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newStatsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newChatCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if quiet {
				log.SetOutput(io.Discard)
			}
			session, cleanup, err := buildSession(cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			return runChat(cfg, session)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress internal logs")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the WebSocket chat gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			session, cleanup, err := buildSession(cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			return web.NewServer(session).ListenAndServe(cfg.Web.Addr)
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print memory and emotional state statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log.SetOutput(io.Discard)
			session, cleanup, err := buildSession(cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			printStats(session.Stats(context.Background()))
			return nil
		},
	}
}

// buildSession wires config into the full stack: store, embedder,
// memory manager, character, backend, session.
func buildSession(cfg *config.Config) (*runtime.Session, func(), error) {
	store, err := chromem.New(chromem.Config{
		Path:  cfg.Memory.StorePath,
		Reset: cfg.Memory.Reset,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open memory store: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}
	cachedEmbedder, err := cached.New(embedder, cfg.Embedder.CacheEntries)
	if err != nil {
		return nil, nil, err
	}

	manager := memory.NewManager(store, cachedEmbedder, nil, &memory.Config{
		ShortTermCapacity:          cfg.Memory.ShortTermCapacity,
		ConsolidateOnAdd:           cfg.Memory.ConsolidateOnAdd,
		MinConsolidationImportance: cfg.Memory.MinConsolidationImportance,
		RetrievalThreshold:         cfg.Memory.RetrievalThreshold,
	})

	character := persona.Load(cfg.Personality.Path, mrand.New(mrand.NewSource(time.Now().UnixNano())))

	backend, err := newBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []runtime.Option{runtime.WithRetrieval(cfg.Memory.RetrieveN)}
	if cfg.LLM.FactExtraction {
		opts = append(opts, runtime.WithLLMFactExtraction())
	}
	session := runtime.NewSession(character, manager, backend, opts...)

	cleanup := func() {
		cachedEmbedder.Close()
		if err := store.Close(); err != nil {
			log.Printf("[MAIN] Store close failed: %v", err)
		}
	}
	return session, cleanup, nil
}

func newEmbedder(cfg *config.Config) (memory.Embedder, error) {
	switch cfg.Embedder.Provider {
	case "mock":
		return mock.NewWithDimensions(cfg.Embedder.Dimensions), nil
	case "ollama":
		return ollamaembed.New(cfg.Embedder.OllamaURL, cfg.Embedder.OllamaModel, cfg.Embedder.Dimensions), nil
	case "onnx":
		return newONNXEmbedder(cfg)
	}
	return nil, fmt.Errorf("unknown embedder provider %q", cfg.Embedder.Provider)
}

func newBackend(cfg *config.Config) (llm.Backend, error) {
	switch cfg.LLM.Backend {
	case "anthropic":
		return llm.NewAnthropicBackend(llm.AnthropicConfig{
			Model:     cfg.LLM.Model,
			MaxTokens: int64(cfg.LLM.MaxTokens),
		}), nil
	case "ollama":
		backend := llm.NewOllamaBackend(llm.OllamaConfig{
			BaseURL:     cfg.LLM.OllamaURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.VerifyModel(ctx); err != nil {
			log.Printf("[MAIN] Ollama model check failed, continuing anyway: %v", err)
		}
		return backend, nil
	}
	return nil, fmt.Errorf("unknown llm backend %q", cfg.LLM.Backend)
}

// runChat is the interactive REPL. Besides free-form chat it accepts
// the commands quit/exit, stats, and clear.
func runChat(cfg *config.Config, session *runtime.Session) error {
	name := session.Character().Name()
	fmt.Println(headerStyle.Render(fmt.Sprintf("=== Chat with %s ===", name)))
	fmt.Println("Commands: quit, stats, clear")
	fmt.Println()

	if cfg.Proactive.Enabled {
		interval := time.Duration(cfg.Proactive.IntervalSeconds) * time.Second
		proactive := session.StartProactive(interval, func(thought string) {
			fmt.Printf("\n%s\n%s", thoughtStyle.Render(fmt.Sprintf("(%s thinks: %s)", name, thought)), promptStyle.Render("You> "))
		})
		defer proactive.Stop()
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("You> "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit":
			fmt.Println(replyStyle.Render(name + "> Bye! Talk to you soon."))
			return nil
		case "stats":
			printStats(session.Stats(context.Background()))
			continue
		case "clear":
			session.Memory().ClearShortTerm()
			fmt.Println("Short-term memory cleared.")
			continue
		}

		response := session.ProcessInput(context.Background(), input)
		fmt.Println(replyStyle.Render(name + "> " + response))
	}
	return scanner.Err()
}

func printStats(stats runtime.Stats) {
	fmt.Println(headerStyle.Render("=== " + stats.Character + " ==="))
	fmt.Printf("Emotional state:  %s\n", stats.Emotional)
	fmt.Printf("Short-term turns: %d\n", stats.Memory.ShortTermSize)
	fmt.Printf("Episodic records: %d\n", stats.Memory.EpisodicCount)
	fmt.Printf("Semantic facts:   %d\n", stats.Memory.SemanticCount)
}
