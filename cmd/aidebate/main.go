package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssmithers/aidebate/internal/backend"
	"github.com/ssmithers/aidebate/internal/config"
	"github.com/ssmithers/aidebate/internal/core"
	"github.com/ssmithers/aidebate/internal/debate"
	"github.com/ssmithers/aidebate/internal/export"
	"github.com/ssmithers/aidebate/internal/judge"
	"github.com/ssmithers/aidebate/internal/sanitize"
	"github.com/ssmithers/aidebate/internal/storage"
	"github.com/ssmithers/aidebate/web/handlers"
)

var (
	dbPath     string
	configPath string
	debugFlag  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "aidebate",
	Short: "Scripted policy debates between AI models",
	Long: `aidebate runs structured policy debates between two AI models.

Debates follow the full 18-speech policy format: constructives,
cross-examinations, rebuttals, and closing statements. A moderator can
interject at any point, and completed debates can be judged and exported.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		if debugFlag {
			opts.Level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, opts)))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: ~/.aidebate/aidebate.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config path (default: ~/.aidebate/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(exportCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func getStorage(cfg *config.Config) (storage.Store, error) {
	path := dbPath
	if path == "" {
		path = cfg.DBPath
	}
	if path == "" {
		path = storage.DefaultDBPath()
	}

	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(); err != nil {
		return nil, err
	}
	return store, nil
}

func buildClient(ctx context.Context, cfg *config.Config) *backend.Client {
	catalog := cfg.Catalog()

	// Pick up whatever model LM Studio has loaded so it is usable by alias.
	dctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if det, err := backend.DetectLoadedModel(dctx, cfg.LMStudio.Endpoint); err == nil {
		if alias, added := backend.MergeDetection(catalog, det); added {
			slog.Info("Detected local model", "model", det.ModelID, "alias", alias)
		}
	}

	local := backend.NewLMStudioBackend(cfg.LMStudio.Endpoint, backend.DefaultTimeout)
	var hosted backend.Completer
	if cfg.Anthropic.APIKey != "" {
		hosted = backend.NewAnthropicBackend(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL, backend.DefaultTimeout)
	}
	return backend.NewClient(catalog, local, hosted)
}

// serve command - start the API server

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the debate API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := getStorage(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		client := buildClient(cmd.Context(), cfg)
		sanitizer := sanitize.New(client, cfg.Debate.FormattingModel)
		orchestrator := debate.New(store, client, sanitizer)
		j := judge.New(client, cfg.Debate.JudgeModel)

		h := handlers.New(orchestrator, j, client, cfg.LMStudio.Endpoint)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		addr := fmt.Sprintf(":%d", port)
		server := &http.Server{
			Addr:    addr,
			Handler: h.Router(),
		}

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			slog.Info("Shutting down...")
			server.Close()
		}()

		slog.Info("Starting aidebate server", "url", fmt.Sprintf("http://localhost%s", addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Server port (default from config)")
}

// run command - drive a full debate in the terminal

var (
	model1Flag   string
	model2Flag   string
	positionFlag string
	judgeFlag    bool
)

var runCmd = &cobra.Command{
	Use:   "run [topic]",
	Short: "Run a full policy debate",
	Long: `Create a debate on the given topic and execute all 18 speeches.

Examples:
  aidebate run "This House would ban autonomous weapons"
  aidebate run "Nuclear power is the answer to climate change" -1 claude-sonnet -2 glm-flash
  aidebate run "Universal basic income" --position "2N/1A" --judge`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDebate,
}

func init() {
	runCmd.Flags().StringVarP(&model1Flag, "model1", "1", "glm-flash", "Model alias for the first debater")
	runCmd.Flags().StringVarP(&model2Flag, "model2", "2", "glm-flash", "Model alias for the second debater")
	runCmd.Flags().StringVar(&positionFlag, "position", "2A/1N", "Side assignment for model1 (2A/1N or 2N/1A)")
	runCmd.Flags().BoolVar(&judgeFlag, "judge", false, "Judge the debate after the final speech")
}

func runDebate(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	client := buildClient(cmd.Context(), cfg)
	sanitizer := sanitize.New(client, cfg.Debate.FormattingModel)
	orchestrator := debate.New(store, client, sanitizer)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\nInterrupted. Debate state saved.")
		cancel()
	}()

	session, err := orchestrator.Start(ctx, topic, model1Flag, model2Flag, core.Position(positionFlag))
	if err != nil {
		return fmt.Errorf("failed to start debate: %w", err)
	}

	fmt.Printf("\nPolicy Debate: %s\n", session.Topic)
	fmt.Printf("   Affirmative: %s\n", session.Models[core.SideAffirmative])
	fmt.Printf("   Negative:    %s\n", session.Models[core.SideNegative])
	fmt.Printf("   ID: %s\n\n", session.ID)
	fmt.Println(strings.Repeat("─", 60))

	for {
		turn, err := orchestrator.ExecuteTurn(ctx, session.ID, "", false)
		if errors.Is(err, debate.ErrDebateComplete) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nDebate paused. Resume or export later with the session id above.")
				return nil
			}
			return fmt.Errorf("debate failed: %w", err)
		}

		fmt.Printf("\n%s - %s (%s)\n", turn.Slot.Label, turn.Response.Side.Label(), turn.Response.Speaker)
		fmt.Println(strings.Repeat("─", 40))
		fmt.Println(turn.Response.Content)
	}

	if _, err := orchestrator.End(ctx, session.ID); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(strings.Repeat("═", 60))
	fmt.Println("DEBATE COMPLETE")
	fmt.Println(strings.Repeat("═", 60))

	if report, err := orchestrator.UsageReport(session.ID); err == nil {
		fmt.Printf("\nHosted tokens: %d in / %d out  (est. $%.4f)\n",
			report.Totals.HostedInputTokens, report.Totals.HostedOutputTokens, report.Totals.EstimatedCost)
		fmt.Printf("Local calls:   %d\n", report.Totals.LocalCalls)
	}

	if judgeFlag {
		fmt.Println("\nJudging debate...")
		j := judge.New(client, cfg.Debate.JudgeModel)

		updated, err := orchestrator.GetSession(session.ID)
		if err != nil {
			return err
		}

		judgment, err := j.Evaluate(ctx, updated)
		if err != nil {
			return fmt.Errorf("judging failed: %w", err)
		}
		if err := orchestrator.RecordJudgment(session.ID, judgment); err != nil {
			return err
		}

		fmt.Printf("\nWinner: %s (confidence %.2f)\n", strings.ToUpper(judgment.Winner), judgment.Confidence)
		fmt.Printf("Scores: aff %d / neg %d\n", judgment.TotalScores.Aff, judgment.TotalScores.Neg)
		fmt.Printf("\n%s\n", judgment.Reasoning)
	}

	return nil
}

// list command

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List debate sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := getStorage(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		sessions, err := store.ListSessions(50, 0)
		if err != nil {
			return err
		}

		if len(sessions) == 0 {
			fmt.Println("No debates found. Start one with: aidebate run \"Your topic\"")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTOPIC\tSTATUS\tTURNS\tCREATED")

		for _, s := range sessions {
			shortTopic := s.Topic
			if len(shortTopic) > 40 {
				shortTopic = shortTopic[:37] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				s.ID[:8], shortTopic, s.Status, s.TurnCount, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		w.Flush()

		return nil
	},
}

// models command

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known models and detect the loaded local model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		catalog := cfg.Catalog()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		det, detErr := backend.DetectLoadedModel(ctx, cfg.LMStudio.Endpoint)
		if detErr == nil {
			backend.MergeDetection(catalog, det)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ALIAS\tMODEL\tTYPE")
		for _, alias := range catalog.Aliases() {
			mc, _ := catalog.Lookup(alias)
			fmt.Fprintf(w, "%s\t%s\t%s\n", alias, mc.ID, mc.Class)
		}
		w.Flush()

		if detErr != nil {
			fmt.Printf("\nLM Studio not reachable at %s\n", cfg.LMStudio.Endpoint)
		} else {
			fmt.Printf("\nLoaded local model: %s\n", det.ModelID)
		}

		return nil
	},
}

// export command

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a debate transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := getStorage(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		// Find by prefix
		sessions, err := store.ListSessions(100, 0)
		if err != nil {
			return err
		}
		var sessionID string
		for _, s := range sessions {
			if strings.HasPrefix(s.ID, args[0]) {
				sessionID = s.ID
				break
			}
		}
		if sessionID == "" {
			return fmt.Errorf("debate not found: %s", args[0])
		}

		session, err := store.GetSession(sessionID)
		if err != nil {
			return err
		}

		exporter, err := export.GetExporter(export.Format(exportFormat))
		if err != nil {
			return err
		}

		filename := export.GenerateFilename(session, exporter.FileExtension())
		f, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer f.Close()

		if err := exporter.Export(session, f); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Printf("Exported to %s\n", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "Export format (markdown, pdf, json)")
}
