package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yoonbit/dramatalk/internal/config"
	"github.com/yoonbit/dramatalk/internal/core"
	"github.com/yoonbit/dramatalk/internal/engine"
	"github.com/yoonbit/dramatalk/internal/export"
	"github.com/yoonbit/dramatalk/internal/genai"
	"github.com/yoonbit/dramatalk/internal/persona"
	"github.com/yoonbit/dramatalk/internal/prompt"
	"github.com/yoonbit/dramatalk/internal/storage"
)

var (
	configPath string
	verbose    bool

	chatCharacter string
	chatNickname  string
	chatMood      string
	chatTime      string
	chatWeather   string

	debateCharA  string
	debateCharB  string
	debateTone   string
	debateRounds int

	exportFormat string
	exportOutput string
)

var rootCmd = &cobra.Command{
	Use:   "dramatalk",
	Short: "Chat and debate with K-drama characters",
	Long:  "dramatalk runs persona-constrained conversations and debates between drama characters, backed by the Gemini API.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	chatCmd.Flags().StringVarP(&chatCharacter, "character", "c", "kim_shin", "character to talk to")
	chatCmd.Flags().StringVarP(&chatNickname, "nickname", "n", "", "how the character should call you")
	chatCmd.Flags().StringVar(&chatMood, "mood", "", "mood: normal, romantic, friendly, serious")
	chatCmd.Flags().StringVar(&chatTime, "time", "", "time of day: current, morning, afternoon, evening, night")
	chatCmd.Flags().StringVar(&chatWeather, "weather", "", "weather to weave into the conversation")

	debateCmd.Flags().StringVar(&debateCharA, "first", "kim_shin", "first debater")
	debateCmd.Flags().StringVar(&debateCharB, "second", "wang_yeo", "second debater")
	debateCmd.Flags().StringVar(&debateTone, "tone", "balanced", "tone: aggressive, calm, playful, balanced")
	debateCmd.Flags().IntVar(&debateRounds, "rounds", 3, "number of debate rounds")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "format: markdown, json, pdf")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default conversation id + extension)")

	rootCmd.AddCommand(chatCmd, debateCmd, exportCmd, personasCmd)
}

// setup loads config and builds the engine with its collaborators. The
// returned cleanup closes the store.
func setup() (*engine.Engine, storage.Store, persona.Store, *config.Config, func(), error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := config.LoadEnv(".env"); err != nil {
		return nil, nil, nil, nil, nil, err
	}
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	personas, err := persona.NewFileStore(cfg.PersonaDir)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	if err := store.Initialize(); err != nil {
		store.Close()
		return nil, nil, nil, nil, nil, err
	}

	var gen genai.Generator
	if cfg.APIKey != "" {
		gen = genai.NewRetrier(genai.NewClient(cfg.APIKey, cfg.Model), logger)
	} else {
		logger.Warn("GEMINI_API_KEY is not set, replies will be placeholders")
	}

	eng := engine.New(gen, personas, store, cfg, logger)
	cleanup := func() { store.Close() }
	return eng, store, personas, cfg, cleanup, nil
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat with a character",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, personas, _, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		p, err := personas.Get(chatCharacter)
		if err != nil {
			return err
		}

		conv := &core.Conversation{
			UserID:       "local",
			Title:        p.Name + "와의 대화",
			CharacterIDs: []string{p.ID},
		}
		if err := store.CreateConversation(conv); err != nil {
			return err
		}

		settings := core.ChatSettings{
			TimeOfDay: core.TimeOfDay(chatTime),
			Weather:   chatWeather,
			Mood:      core.Mood(chatMood),
		}

		fmt.Printf("%s와 대화를 시작합니다. 빈 줄을 입력하면 종료됩니다.\n\n", p.Name)
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				break
			}

			if err := store.AppendTurn(&core.Turn{
				ConversationID: conv.ID,
				Sender:         core.SenderUser,
				Text:           input,
			}); err != nil {
				return err
			}

			reply := eng.Respond(cmd.Context(), engine.ChatRequest{
				ConversationID: conv.ID,
				UserID:         conv.UserID,
				CharacterID:    p.ID,
				Nickname:       chatNickname,
				UserText:       input,
				Settings:       settings,
			})
			for _, text := range reply.Texts {
				fmt.Printf("\n%s: %s\n", p.Name, text)
				if err := store.AppendTurn(&core.Turn{
					ConversationID: conv.ID,
					Sender:         core.SenderAI,
					CharacterID:    p.ID,
					Text:           text,
				}); err != nil {
					return err
				}
			}
			fmt.Println()
		}
		fmt.Printf("대화가 저장되었습니다: %s\n", conv.ID)
		return scanner.Err()
	},
}

var debateCmd = &cobra.Command{
	Use:   "debate [topic]",
	Short: "Run a debate between two characters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, personas, _, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		topic := args[0]
		pa, err := personas.Get(debateCharA)
		if err != nil {
			return err
		}
		pb, err := personas.Get(debateCharB)
		if err != nil {
			return err
		}

		conv := &core.Conversation{
			UserID:       "local",
			Title:        "토론: " + topic,
			CharacterIDs: []string{pa.ID, pb.ID},
		}
		if err := store.CreateConversation(conv); err != nil {
			return err
		}
		if err := store.AppendTurn(&core.Turn{
			ConversationID: conv.ID,
			Sender:         core.SenderSystem,
			Text:           fmt.Sprintf("%s: %s", core.DebateStartMarker, topic),
		}); err != nil {
			return err
		}

		names := map[string]string{pa.ID: pa.Name, pb.ID: pb.Name}
		fmt.Printf("토론 시작: %s (%s vs %s)\n\n", topic, pa.Name, pb.Name)

		for round := 1; round <= debateRounds; round++ {
			if round > 1 {
				if err := store.AppendTurn(&core.Turn{
					ConversationID: conv.ID,
					Sender:         core.SenderSystem,
					Text:           fmt.Sprintf("%s %d", core.RoundMarker, round),
				}); err != nil {
					return err
				}
			}

			replies := eng.Debate(cmd.Context(), engine.DebateRequest{
				ConversationID: conv.ID,
				UserID:         conv.UserID,
				CharacterAID:   pa.ID,
				CharacterBID:   pb.ID,
				Topic:          topic,
				Tone:           prompt.Tone(debateTone),
			})
			for _, reply := range replies {
				for _, text := range reply.Texts {
					fmt.Printf("%s: %s\n\n", names[reply.CharacterID], text)
					if err := store.AppendTurn(&core.Turn{
						ConversationID: conv.ID,
						Sender:         core.SenderAI,
						CharacterID:    reply.CharacterID,
						Text:           text,
					}); err != nil {
						return err
					}
				}
			}
		}

		if err := store.AppendTurn(&core.Turn{
			ConversationID: conv.ID,
			Sender:         core.SenderSystem,
			Text:           core.DebateEndMarker,
		}); err != nil {
			return err
		}
		fmt.Printf("토론이 저장되었습니다: %s\n", conv.ID)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [conversation-id]",
	Short: "Export a conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, personas, _, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		conv, err := store.GetConversation(args[0])
		if err != nil {
			return err
		}
		turns, err := store.GetTurns(conv.ID, 0)
		if err != nil {
			return err
		}

		names := make(map[string]string)
		for _, p := range personas.List() {
			names[p.ID] = p.Name
		}

		exporter, err := export.GetExporter(exportFormat, names)
		if err != nil {
			return err
		}

		output := exportOutput
		if output == "" {
			output = conv.ID + "." + exporter.FileExtension()
		}
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := exporter.Export(conv, turns, f); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", filepath.Clean(output))
		return nil
	},
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List available characters",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(".env"); err != nil {
			return err
		}
		cfg, err := config.LoadFrom(configPath)
		if err != nil {
			return err
		}
		personas, err := persona.NewFileStore(cfg.PersonaDir)
		if err != nil {
			return err
		}

		for _, p := range personas.List() {
			status := ""
			if !p.Ready() {
				status = " (준비 중)"
			}
			fmt.Printf("%-12s %s", p.ID, p.Name)
			if p.Title != "" {
				fmt.Printf(" - %s", p.Title)
			}
			fmt.Println(status)
		}
		return nil
	},
}
