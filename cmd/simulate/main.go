// Package main runs headless Ludo self-play games for engine validation and
// bot benchmarking.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ludo/internal/app"
	"ludo/internal/bot"
	"ludo/internal/domain"
	"ludo/internal/telemetry"
)

func main() {
	seed := flag.Int64("seed", 1, "dice and bot rng seed")
	games := flag.Int("games", 1, "number of games to play")
	maxTurns := flag.Int("max-turns", 5000, "abort threshold per game")
	render := flag.Bool("render", false, "print the board after every turn")
	flag.Parse()

	// Not fatal, env vars might be set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	ctx := context.Background()

	tracer := telemetry.NoopTracer()
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
		} else {
			tracer = telemetry.Tracer("simulate")
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	rng := rand.New(rand.NewSource(*seed))
	var wins [domain.NumPlayers]int
	totalTurns := 0

	for i := 0; i < *games; i++ {
		winner, turns, err := playGame(ctx, tracer, rng, *maxTurns, *render)
		if err != nil {
			log.Fatalf("Game %d failed: %v", i, err)
		}
		if winner >= 0 {
			wins[winner]++
		}
		totalTurns += turns
	}

	fmt.Printf("games=%d avg_turns=%.1f\n", *games, float64(totalTurns)/float64(*games))
	for c := domain.Red; c < domain.NumPlayers; c++ {
		fmt.Printf("  %-6s wins=%d\n", c, wins[c])
	}
}

// playGame plays one full game of bot self-play and returns the winning
// color, or -1 when the turn cap was hit first.
func playGame(ctx context.Context, tracer trace.Tracer, rng *rand.Rand, maxTurns int, render bool) (domain.Color, int, error) {
	gameID := uuid.New().String()
	ctx, span := tracer.Start(ctx, "simulate.game",
		trace.WithAttributes(attribute.String("game.id", gameID)))
	defer span.End()

	service := app.NewService(rng)

	var seats [domain.NumPlayers]string
	agents := make(map[domain.Color]*bot.Agent, domain.NumPlayers)
	for c := domain.Red; c < domain.NumPlayers; c++ {
		identity := bot.GetBotIdentity(int(c))
		seats[c] = identity.UserID
		agents[c] = bot.NewAgent(identity.UserID, rng)
	}

	game, _, err := service.StartGame(seats)
	if err != nil {
		return -1, 0, err
	}

	turns := 0
	for !game.Terminal() && turns < maxTurns {
		current := game.Current
		roll := service.RollDice(game)

		action, err := agents[current].Play(game, current)
		if err != nil {
			return -1, turns, fmt.Errorf("agent %v: %w", current, err)
		}

		events, err := service.TakeTurn(game, current, action, roll)
		if err != nil {
			return -1, turns, fmt.Errorf("turn %d: %w", turns, err)
		}
		turns++

		if render {
			printTurn(game, current, roll, events)
		}
	}

	span.SetAttributes(attribute.Int("game.turns", turns))
	if !game.Terminal() {
		span.SetAttributes(attribute.Bool("game.turn_cap_hit", true))
		return -1, turns, nil
	}

	winner := findWinner(game)
	span.SetAttributes(attribute.String("game.winner", winner.String()))
	return winner, turns, nil
}

func findWinner(game *domain.Game) domain.Color {
	for c := domain.Red; c < domain.NumPlayers; c++ {
		finished := 0
		for t := 0; t < domain.NumTokens; t++ {
			if domain.Finished(game.Board[c][t]) {
				finished++
			}
		}
		if finished == domain.NumTokens {
			return c
		}
	}
	return -1
}

// printTurn renders one line per turn plus the board grid.
func printTurn(game *domain.Game, mover domain.Color, roll int, events []app.Event) {
	var notes []string
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.TokenEnteredPayload:
			notes = append(notes, fmt.Sprintf("enter t%d@%d", p.Token, p.Position))
		case app.TokenMovedPayload:
			notes = append(notes, fmt.Sprintf("move t%d %d>%d", p.Token, p.From, p.To))
		case app.TokenCapturedPayload:
			notes = append(notes, fmt.Sprintf("capture %v t%d", p.Victim, p.Token))
		case app.TokenFinishedPayload:
			notes = append(notes, fmt.Sprintf("finish t%d", p.Token))
		case app.TurnPassedPayload:
			notes = append(notes, "pass")
		case app.GameEndedPayload:
			notes = append(notes, fmt.Sprintf("game over, winner %v", p.Winner))
		}
	}
	fmt.Printf("%-6s roll=%d %s\n", mover, roll, strings.Join(notes, " "))
	for c := domain.Red; c < domain.NumPlayers; c++ {
		fmt.Printf("  %-6s %v\n", c, game.Board[c])
	}
}
