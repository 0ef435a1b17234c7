package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GameMetrics records game lifecycle and bot timing.
type GameMetrics struct {
	started  metric.Int64Counter
	finished metric.Int64Counter
	botMove  metric.Float64Histogram
}

// NewGameMetrics creates the instruments on meter.
func NewGameMetrics(meter metric.Meter) (*GameMetrics, error) {
	started, err := meter.Int64Counter("ttt.games.started",
		metric.WithDescription("Games that reached the first move"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create games.started counter: %w", err)
	}

	finished, err := meter.Int64Counter("ttt.games.finished",
		metric.WithDescription("Games that reached a terminal state, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create games.finished counter: %w", err)
	}

	botMove, err := meter.Float64Histogram("ttt.bot.move.duration",
		metric.WithDescription("Time spent choosing a bot move"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot.move.duration histogram: %w", err)
	}

	return &GameMetrics{started: started, finished: finished, botMove: botMove}, nil
}

func (m *GameMetrics) GameStarted(ctx context.Context, difficulty string) {
	m.started.Add(ctx, 1, metric.WithAttributes(attribute.String("difficulty", difficulty)))
}

func (m *GameMetrics) GameFinished(ctx context.Context, difficulty, outcome string) {
	m.finished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("difficulty", difficulty),
		attribute.String("outcome", outcome),
	))
}

func (m *GameMetrics) BotMoveObserved(ctx context.Context, difficulty string, d time.Duration) {
	m.botMove.Record(ctx, float64(d)/float64(time.Millisecond), metric.WithAttributes(attribute.String("difficulty", difficulty)))
}
