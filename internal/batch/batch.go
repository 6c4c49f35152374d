// Package batch runs independent games side by side. Every game owns its
// whole state, so a parallel step needs no locking beyond the final join
// and yields the same per-game results as stepping the games one by one.
package batch

import (
	"context"
	"fmt"
	"runtime"

	"github.com/runwaysim/runways/internal/game"
	"github.com/runwaysim/runways/pkg/core"
	"golang.org/x/sync/errgroup"
)

// Result is the headline state of one game.
type Result struct {
	Seed uint64        `json:"seed" csv:"seed"`
	Time core.GameTime `json:"time" csv:"time"`
	Cash float64       `json:"cash" csv:"cash"`
}

// Batch holds a fixed set of games.
type Batch struct {
	games []*game.Game
	limit int
}

// New starts one generated game per seed, all with the same airport count
// and options.
func New(seeds []uint64, airports int, opts ...game.Option) (*Batch, error) {
	games := make([]*game.Game, 0, len(seeds))
	for _, seed := range seeds {
		g, err := game.New(seed, airports, opts...)
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", seed, err)
		}
		games = append(games, g)
	}
	return Of(games...), nil
}

// Of wraps games that were built elsewhere. The batch takes ownership;
// callers must not touch the games while a step runs.
func Of(games ...*game.Game) *Batch {
	return &Batch{games: games, limit: runtime.GOMAXPROCS(0)}
}

// SetLimit caps the number of games stepped at once. n <= 0 removes the
// cap.
func (b *Batch) SetLimit(n int) {
	b.limit = n
}

func (b *Batch) Len() int { return len(b.games) }

// Game returns the i-th game.
func (b *Batch) Game(i int) *game.Game { return b.games[i] }

// StepAll advances every game by hours on a pool of goroutines. A
// cancelled context stops games that have not started yet; games already
// running finish their step.
func (b *Batch) StepAll(ctx context.Context, hours uint64) error {
	eg, ctx := errgroup.WithContext(ctx)
	if b.limit > 0 {
		eg.SetLimit(b.limit)
	} else {
		eg.SetLimit(-1)
	}
	for _, g := range b.games {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return step(g, hours)
		})
	}
	return eg.Wait()
}

// StepSequential advances every game by hours, one after the other.
func (b *Batch) StepSequential(hours uint64) error {
	for _, g := range b.games {
		if err := step(g, hours); err != nil {
			return err
		}
	}
	return nil
}

// step turns an engine panic into an error so one broken game does not
// take the whole batch down.
func step(g *game.Game, hours uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("seed %d: %v", g.Seed(), r)
		}
	}()
	g.Advance(hours)
	return nil
}

// Results reports seed, time and cash per game, in batch order.
func (b *Batch) Results() []Result {
	out := make([]Result, len(b.games))
	for i, g := range b.games {
		out[i] = Result{Seed: g.Seed(), Time: g.Time(), Cash: g.Cash()}
	}
	return out
}

// Observe returns the frontend view of every game.
func (b *Batch) Observe() []game.Observation {
	out := make([]game.Observation, len(b.games))
	for i, g := range b.games {
		out[i] = g.Observe()
	}
	return out
}
