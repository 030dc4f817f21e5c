package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"blokuszero/executor/inference"
	"blokuszero/executor/mcts"
	"blokuszero/executor/selfplay"
	"blokuszero/rules"
	"blokuszero/store"
)

type GameUpdate struct {
	GameID  string
	Plies   int
	Samples int
	Scores  [4]int
}

type model struct {
	orch    *selfplay.Orchestrator
	batcher *inference.Batcher

	startTime   time.Time
	stats       selfplay.Stats
	batch       inference.Stats
	healthy     bool
	recentGames []string
	updates     chan GameUpdate
}

func initialModel(updates chan GameUpdate, orch *selfplay.Orchestrator, batcher *inference.Batcher) model {
	return model{
		orch:      orch,
		batcher:   batcher,
		startTime: time.Now(),
		healthy:   true,
		updates:   updates,
	}
}

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*250, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func waitForUpdate(updates chan GameUpdate) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		m.stats = m.orch.Stats()
		m.batch = m.batcher.Stats()
		m.healthy = m.batcher.Healthy()
		return m, tickCmd()
	case GameUpdate:
		line := fmt.Sprintf("%s plies=%d samples=%d scores=%v", msg.GameID[:8], msg.Plies, msg.Samples, msg.Scores)
		m.recentGames = append([]string{line}, m.recentGames...)
		if len(m.recentGames) > 10 {
			m.recentGames = m.recentGames[:10]
		}
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	secs := duration.Seconds()
	movesPerSec := 0.0
	evalsPerSec := 0.0
	if secs >= 1 {
		movesPerSec = float64(m.stats.Moves) / secs
		evalsPerSec = float64(m.batch.TotalItems) / secs
	}

	health := "ok"
	if !m.healthy {
		health = "UNREACHABLE"
	}

	s := fmt.Sprintf("Games Completed: %d\n", m.stats.Completed)
	s += fmt.Sprintf("Games Abandoned: %d\n", m.stats.Abandoned)
	s += fmt.Sprintf("Total Moves:     %d (%.2f/s)\n", m.stats.Moves, movesPerSec)
	s += fmt.Sprintf("Evaluations:     %d (%.2f/s)\n", m.batch.TotalItems, evalsPerSec)
	s += fmt.Sprintf("Batches:         %d (avg %.1f, last %d, failed %d)\n", m.batch.TotalBatches, m.batch.AvgBatchSize, m.batch.LastBatchSize, m.batch.TotalFailures)
	s += fmt.Sprintf("Model Server:    %s\n", health)
	s += fmt.Sprintf("Duration:        %s\n\n", duration.Round(time.Second))

	s += "Recent Games:\n"
	for _, g := range m.recentGames {
		s += g + "\n"
	}

	s += "\nPress q to quit.\n"
	return s
}

func main() {
	server := flag.String("server", "localhost:50051", "Model server gRPC address")
	outDir := flag.String("out-dir", "data/generated", "Output directory for parquet batches")
	logPath := flag.String("log-file", "executor.log", "Log file (logs would corrupt the TUI on stdout)")
	workers := flag.Int("workers", 64, "Number of concurrent self-play games")
	games := flag.Int("games", 0, "If > 0, stop after this many completed games")
	gamesPerFlush := flag.Int("games-per-flush", 20, "Games buffered per parquet flush")
	pushReplay := flag.Bool("push-replay", true, "Push finished games to the model server replay buffer")
	noTUI := flag.Bool("no-tui", false, "Log stats to stderr instead of running the dashboard")

	sims := flag.Int("sims", 128, "Simulations per move decision")
	parallelism := flag.Int("parallelism", 8, "Concurrent simulations per decision")
	sampleMoves := flag.Int("sample-moves", 8, "Opening plies where moves are sampled from visit counts")
	cBase := flag.Float64("c-base", 19652, "PUCT exploration growth base")
	cInit := flag.Float64("c-init", 1.25, "PUCT exploration constant")
	dirichletAlpha := flag.Float64("dirichlet-alpha", 0.3, "Root noise concentration")
	explorationFrac := flag.Float64("exploration-frac", 0.25, "Root noise mixing weight")
	allPlacedBonus := flag.Int("bonus-all-placed", 15, "Score bonus for placing all pieces")
	monominoBonus := flag.Int("bonus-monomino-last", 5, "Extra bonus when the monomino was placed last")

	batchSize := flag.Int("batch-size", inference.DefaultMaxBatchSize, "Max states per Predict call")
	batchWait := flag.Duration("batch-wait", inference.DefaultMaxWait, "Max wait before flushing a partial batch")
	maxRetries := flag.Int("max-retries", inference.DefaultMaxRetries, "Predict retries before failing a batch")
	callTimeout := flag.Duration("call-timeout", inference.DefaultCallTimeout, "Per-Predict deadline")
	pollInterval := flag.Duration("poll-interval", inference.DefaultPollInterval, "Model server reachability probe period")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	client, err := inference.Dial(*server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial model server: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	batcher := inference.NewBatcher(client, inference.Config{
		MaxBatchSize: *batchSize,
		MaxWait:      *batchWait,
		MaxRetries:   *maxRetries,
		CallTimeout:  *callTimeout,
		PollInterval: *pollInterval,
	})
	defer batcher.Close()

	orch := selfplay.NewOrchestrator(selfplay.OrchestratorConfig{
		Workers: *workers,
		Games:   *games,
		Game: selfplay.Config{
			SampleMoves: *sampleMoves,
			MCTS: mcts.Config{
				Sims:            *sims,
				CBase:           *cBase,
				CInit:           *cInit,
				DirichletAlpha:  *dirichletAlpha,
				ExplorationFrac: *explorationFrac,
				Parallelism:     *parallelism,
				Score: rules.ScoreConfig{
					AllPlacedBonus:    *allPlacedBonus,
					MonominoLastBonus: *monominoBonus,
				},
			},
		},
	}, inference.StateEvaluator{Batcher: batcher})

	log.Info().
		Str("server", *server).
		Int("workers", *workers).
		Int("sims", *sims).
		Msg("starting self-play")

	records := make(chan *selfplay.Record, *workers)
	updates := make(chan GameUpdate, *workers)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writerLoop(*outDir, *gamesPerFlush, *pushReplay, client, records, updates)
	}()

	orchDone := make(chan error, 1)
	go func() {
		orchDone <- orch.Run(ctx, records)
		close(records)
		// A met quota ends the run the same way a signal does.
		cancel()
	}()

	if *noTUI {
		runHeadless(ctx, orch, batcher)
	} else {
		p := tea.NewProgram(initialModel(updates, orch, batcher), tea.WithAltScreen())
		go func() {
			<-ctx.Done()
			p.Quit()
		}()
		if _, err := p.Run(); err != nil {
			log.Error().Err(err).Msg("dashboard failed")
		}
		cancel()
	}

	if err := <-orchDone; err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("self-play stopped")
	}
	<-writerDone

	stats := orch.Stats()
	log.Info().
		Int64("completed", stats.Completed).
		Int64("abandoned", stats.Abandoned).
		Int64("moves", stats.Moves).
		Msg("shutdown complete")
}

// runHeadless mirrors the dashboard's numbers into the log, for runs inside
// tmux-less containers.
func runHeadless(ctx context.Context, orch *selfplay.Orchestrator, batcher *inference.Batcher) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := orch.Stats()
			bt := batcher.Stats()
			log.Info().
				Int64("completed", st.Completed).
				Int64("abandoned", st.Abandoned).
				Int64("moves", st.Moves).
				Int64("evals", bt.TotalItems).
				Float64("avg_batch", bt.AvgBatchSize).
				Bool("healthy", batcher.Healthy()).
				Msg("stats")
		}
	}
}

// writerLoop drains finished games: each game's rows stream straight into the
// current parquet batch writer, which rotates every gamesPerFlush games so a
// crash loses at most one unfinished batch. Each record is optionally pushed
// to the server's replay buffer; a failed push only logs, the parquet copy is
// the durable one.
func writerLoop(outDir string, gamesPerFlush int, pushReplay bool, client *inference.Client, records <-chan *selfplay.Record, updates chan<- GameUpdate) {
	if gamesPerFlush <= 0 {
		gamesPerFlush = 20
	}

	var writer *store.BatchWriter
	open := func() {
		w, err := store.NewBatchWriter(outDir)
		if err != nil {
			log.Error().Err(err).Str("dir", outDir).Msg("open batch writer")
			return
		}
		writer = w
	}
	finalize := func() {
		if writer == nil {
			return
		}
		outPath, rows, games, err := writer.Finalize()
		writer = nil
		if err != nil {
			log.Error().Err(err).Msg("finalize parquet batch")
			return
		}
		if rows > 0 {
			log.Info().Str("path", outPath).Int("games", games).Int("rows", rows).Msg("parquet flush")
		}
	}

	open()
	for rec := range records {
		if writer == nil {
			// A previous open or write failed; retry per game so a transient
			// disk problem doesn't discard the rest of the run.
			open()
		}
		if writer != nil {
			if err := writer.WriteRows(selfplay.Rows(rec)); err != nil {
				log.Error().Err(err).Str("game", rec.GameID).Msg("write game rows")
				finalize()
			}
		}

		if pushReplay {
			pushCtx, pushCancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := client.Save(pushCtx, selfplay.Proto(rec)); err != nil {
				log.Warn().Err(err).Str("game", rec.GameID).Msg("replay push failed")
			}
			pushCancel()
		}

		select {
		case updates <- GameUpdate{GameID: rec.GameID, Plies: rec.Plies, Samples: len(rec.Samples), Scores: rec.Scores}:
		default:
		}

		if writer != nil && writer.BufferedGames() >= gamesPerFlush {
			finalize()
			open()
		}
	}
	finalize()
}
