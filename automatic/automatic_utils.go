package automatic

// Data collection for automatic games between two bots.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/qubic/ai/bot"
	"github.com/domino14/qubic/config"
	"github.com/domino14/qubic/turnplayer"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

const logfileHeader = "gameID,turn,player,mark,move,clockms,result,reason\n"

// MoverFactory makes a fresh mover. Every worker makes its own pair, so
// no search state is shared between games played at the same time.
type MoverFactory func() (turnplayer.Mover, error)

// BotFactory makes bots of the given code, all named name.
func BotFactory(cfg *config.Config, name string, code bot.BotCode) MoverFactory {
	return func() (turnplayer.Mover, error) {
		return bot.NewBotTurnPlayer(cfg, name, code)
	}
}

// BotFactories returns factories for two bots, with names that tell them
// apart even if their codes are equal.
func BotFactories(cfg *config.Config, code1, code2 bot.BotCode) [2]MoverFactory {
	return [2]MoverFactory{
		BotFactory(cfg, code1.String()+"-1", code1),
		BotFactory(cfg, code2.String()+"-2", code2),
	}
}

// StartCompVComp plays numGames games on the given number of threads and
// blocks until they are done. Every move is written to outputFilename.
// The first factory's mover has X in even-numbered games, unless the
// first player is configured to be random. If ctx is cancelled, the games
// finished so far are summarized. Workers read cfg concurrently, so a
// caller that keeps changing its settings should pass cfg.Snapshot().
func StartCompVComp(ctx context.Context, cfg *config.Config, factories [2]MoverFactory,
	numGames, threads int, outputFilename string) (*Summary, error) {

	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	if numGames < 1 || threads < 1 {
		return nil, fmt.Errorf("need at least one game and one thread, got %d and %d", numGames, threads)
	}
	threads = min(threads, numGames)
	randomFirst := cfg.GetBool(config.ConfigAutoplayRandomizer)

	logfile, err := os.Create(outputFilename)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("games", numGames).Int("threads", threads).Str("logfile", outputFilename).Msg("starting-autoplay")

	CVCCounter.Set(0)
	jobs := make(chan int, 100)
	logChan := make(chan string, 100)
	results := make(chan *GameRecord, 100)

	var names [2]string
	var namesOnce sync.Once
	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			p1, err := factories[0]()
			if err != nil {
				return err
			}
			p2, err := factories[1]()
			if err != nil {
				return err
			}
			namesOnce.Do(func() { names = [2]string{p1.Name(), p2.Name()} })
			r := NewGameRunner(logChan, cfg, p1, p2)
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for id := range jobs {
				swap := id%2 == 1
				if randomFirst {
					swap = frand.Intn(2) == 1
				}
				if swap {
					r.Swap()
				}
				rec, err := r.PlayGame(gctx, id)
				if swap {
					r.Swap()
				}
				if err != nil {
					return err
				}
				results <- rec
				CVCCounter.Add(1)
			}
			return nil
		})
	}

	go func() {
		defer close(jobs)
		for i := 0; i < numGames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				return
			}
		}
		log.Debug().Msg("Finished queueing all jobs.")
	}()

	logDone := make(chan error, 1)
	go func() {
		_, werr := logfile.WriteString(logfileHeader)
		for msg := range logChan {
			if werr == nil {
				_, werr = logfile.WriteString(msg)
			}
		}
		if cerr := logfile.Close(); werr == nil {
			werr = cerr
		}
		logDone <- werr
	}()

	var records []*GameRecord
	collected := make(chan struct{})
	go func() {
		for rec := range results {
			records = append(records, rec)
		}
		close(collected)
	}()

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	close(results)
	close(logChan)
	<-collected
	if lerr := <-logDone; lerr != nil && err == nil {
		err = lerr
	}
	log.Info().Int("games", len(records)).Msg("All games finished.")
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}

	slices.SortFunc(records, func(a, b *GameRecord) int { return a.ID - b.ID })
	return Summarize(names, records), err
}
