// Command quizwire is a terminal client for the trivia world server. It
// connects over WebSocket (or NATS), reconciles pushed game events into a
// local session store, and accepts simple commands on stdin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quizwire/quizwire/internal/dispatch"
	"github.com/quizwire/quizwire/internal/engine"
	"github.com/quizwire/quizwire/internal/identity"
	"github.com/quizwire/quizwire/internal/listing"
	"github.com/quizwire/quizwire/internal/store"
	"github.com/quizwire/quizwire/internal/transport"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	config, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(config.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cancel, config); err != nil {
		log.Fatal().Err(err).Msg("quizwire exited with error")
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)
}

func run(ctx context.Context, cancel context.CancelFunc, config *Config) error {
	// Construction order: identity, store, engine, dispatcher.
	self := identity.New(config.PlayerName)
	sessions := store.New()
	games := listing.NewClient(config.ServerURL)

	var channel transport.Channel
	switch config.Transport {
	case "nats":
		channel = transport.NewNATSChannel(config.natsConfig())
	default:
		channel = transport.NewWebSocketChannel(config.ServerURL, self.Name(), transport.DefaultWebSocketConfig())
	}

	eng := engine.New(sessions,
		engine.WithEffectHandler(func(effect engine.Effect) {
			handleEffect(ctx, cancel, games, effect)
		}),
	)

	if err := channel.Start(ctx, eng.Callbacks()); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}
	defer channel.Close()

	commands := dispatch.New(channel)

	sessions.Subscribe(func(snap store.Snapshot) {
		log.Debug().Int("sessions", len(snap)).Msg("state updated")
	})

	go readCommands(ctx, cancel, commands, sessions, games)

	<-ctx.Done()
	return nil
}

func handleEffect(ctx context.Context, cancel context.CancelFunc, games *listing.Client, effect engine.Effect) {
	switch effect := effect.(type) {
	case engine.RefreshSessionList:
		summaries, err := games.FetchSessionList(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to refresh game list")
			return
		}
		printGameList(summaries)
	case engine.NavigateToSession:
		fmt.Printf(">> entered game %s\n", effect.ID)
	case engine.NavigateToLobby:
		fmt.Println(">> back to lobby")
	case engine.Disconnected:
		fmt.Println(">> disconnected from server")
		cancel()
	}
}

func readCommands(ctx context.Context, cancel context.CancelFunc, commands *dispatch.Dispatcher, sessions *store.Store, games *listing.Client) {
	scanner := bufio.NewScanner(os.Stdin)
	printHelp()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := execCommand(ctx, cancel, commands, sessions, games, fields); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func execCommand(ctx context.Context, cancel context.CancelFunc, commands *dispatch.Dispatcher, sessions *store.Store, games *listing.Client, fields []string) error {
	switch fields[0] {
	case "list":
		summaries, err := games.FetchSessionList(ctx)
		if err != nil {
			return err
		}
		printGameList(summaries)
		return nil
	case "create":
		if len(fields) != 3 {
			return fmt.Errorf("usage: create <name> <question_count>")
		}
		count, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("question count must be a number")
		}
		return commands.CreateSession(fields[1], count)
	case "join":
		if len(fields) != 2 {
			return fmt.Errorf("usage: join <game_id>")
		}
		return commands.JoinSession(fields[1])
	case "start":
		if len(fields) != 2 {
			return fmt.Errorf("usage: start <game_id>")
		}
		return commands.StartSession(fields[1])
	case "ready":
		if len(fields) != 2 {
			return fmt.Errorf("usage: ready <game_id>")
		}
		return commands.MarkReady(fields[1])
	case "answer":
		if len(fields) != 4 {
			return fmt.Errorf("usage: answer <game_id> <index> <question_id>")
		}
		index, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("answer index must be a number")
		}
		return commands.SubmitAnswer(fields[1], index, fields[3])
	case "state":
		printSnapshot(sessions.Snapshot())
		return nil
	case "quit":
		cancel()
		return nil
	case "help":
		printHelp()
		return nil
	default:
		return fmt.Errorf("unknown command %q, try help", fields[0])
	}
}

func printGameList(summaries []listing.LobbySummary) {
	if len(summaries) == 0 {
		fmt.Println("no games in the lobby")
		return
	}
	for _, g := range summaries {
		open := ""
		if g.Joinable() {
			open = "  (open)"
		}
		fmt.Printf("  %s  %-20s players=%d questions=%d state=%s%s\n",
			g.ID, g.Name, g.PlayerCount, g.QuestionCount, g.State, open)
	}
}

func printSnapshot(snap store.Snapshot) {
	if len(snap) == 0 {
		fmt.Println("no known sessions")
		return
	}
	for id, sess := range snap {
		fmt.Printf("  %s phase=%s remaining=%ds\n", id, sess.Phase, sess.RemainingSeconds)
		for _, p := range sess.Participants {
			fmt.Printf("    %-16s ready=%v score=%d\n", p.Name, p.Ready, p.Score)
		}
		if sess.CurrentQuestion != nil {
			fmt.Printf("    Q: %s\n", sess.CurrentQuestion.Prompt)
			for i, opt := range sess.CurrentQuestion.Options {
				fmt.Printf("      [%d] %s\n", i, opt)
			}
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  list                                show the lobby game list
  create <name> <question_count>      create a game
  join <game_id>                      join a game
  ready <game_id>                     mark yourself ready
  start <game_id>                     start a game
  answer <game_id> <index> <q_id>     answer the current question
  state                               dump local session state
  quit`)
}
