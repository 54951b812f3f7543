// Command simulate plays headless bot-vs-bot sessions and prints a report.
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"echoes/internal/app"
	"echoes/internal/bot"
	"echoes/internal/config"
	"echoes/internal/domain"
	"echoes/internal/log"
)

type options struct {
	p1, p2   bot.BotLevel
	runs     int
	seedBase int64
	seedStep int64
	rate     int
}

type runStats struct {
	index    int
	seed     int64
	result   domain.FinalResult
	perfects [2]int64
	misses   [2]int64
	dashes   [2]int64
	bonus    [2]int64
	beats    int
}

func main() {
	var (
		p1, p2     string
		logLevel   string
		configPath string
		opts       options
	)
	flag.StringVar(&p1, "p1", "god", "bot level for p1 (good, smart, god)")
	flag.StringVar(&p2, "p2", "smart", "bot level for p2 (good, smart, god)")
	flag.IntVar(&opts.runs, "runs", 5, "number of sessions to play")
	flag.Int64Var(&opts.seedBase, "seed-base", 42, "RNG seed for run 1")
	flag.Int64Var(&opts.seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&opts.rate, "rate", 0, "simulation steps per second (default: config TickRate)")
	flag.StringVar(&logLevel, "log-level", "", "log level (default: config LogLevel)")
	flag.StringVar(&configPath, "config", "", "optional host config INI layered over the defaults")
	flag.Parse()

	cfg, err := config.Load(configPath, nil)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(2)
	}
	if opts.rate <= 0 {
		opts.rate = cfg.Host.TickRate
	}
	if logLevel == "" {
		logLevel = cfg.Host.LogLevel
	}

	if opts.p1, err = bot.ParseLevel(p1); err != nil {
		fmt.Println("error:", err)
		os.Exit(2)
	}
	if opts.p2, err = bot.ParseLevel(p2); err != nil {
		fmt.Println("error:", err)
		os.Exit(2)
	}
	if opts.runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}

	logger := log.New(os.Stderr, log.LevelFromString(logLevel))
	if err := report(os.Stdout, logger, opts); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func report(w io.Writer, logger *log.Logger, opts options) error {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "=== Echoes Headless Report ===\n")
	p.Fprintf(w, "p1=%s p2=%s runs=%d rate=%d seed_base=%d seed_step=%d\n\n",
		opts.p1, opts.p2, opts.runs, opts.rate, opts.seedBase, opts.seedStep)

	all := make([]runStats, 0, opts.runs)
	for i := 0; i < opts.runs; i++ {
		seed := opts.seedBase + int64(i)*opts.seedStep
		stats, err := play(app.NewSession(logger.WithField("run", i+1)), opts, seed)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}
		stats.index = i + 1
		all = append(all, stats)
		printRun(w, p, stats)
	}
	printAggregate(w, p, all)
	return nil
}

// play runs one full session between two bots at a fixed step rate.
func play(session *app.Session, opts options, seed int64) (runStats, error) {
	rng := rand.New(rand.NewSource(seed))
	agents := make(map[domain.PlayerID]*bot.Agent, len(domain.PlayerIDs))
	levels := [2]bot.BotLevel{opts.p1, opts.p2}
	for i, id := range domain.PlayerIDs {
		level := levels[i]
		brain, err := bot.NewBrain(level, rand.New(rand.NewSource(rng.Int63())))
		if err != nil {
			return runStats{}, err
		}
		agents[id] = bot.NewAgent(id, brain, level)
	}

	stats := runStats{seed: seed}
	step := app.StepInterval(opts.rate)
	var now time.Duration

	session.StartSession()
	for !session.IsSessionComplete() {
		if _, err := session.NextRound(now); err != nil {
			return runStats{}, err
		}
		for session.Phase() == app.PhaseRound {
			now += step
			snap := session.Snapshot()
			proximity := session.BeatProximity(now)
			inputs := make(map[domain.PlayerID]domain.Input, len(agents))
			for id, agent := range agents {
				inputs[id] = agent.Play(bot.ViewFor(snap, id, now, proximity))
			}
			for _, ev := range session.Step(now, step, inputs) {
				if ev.Kind == app.EventBeat {
					stats.beats++
				}
			}
		}
	}

	result, err := session.FinalResult()
	if err != nil {
		return runStats{}, err
	}
	stats.result = result

	summary := session.Stats()
	for i, id := range domain.PlayerIDs {
		stats.perfects[i] = summary.Count(fmt.Sprintf("players.%s.resonance.perfect", id))
		stats.misses[i] = summary.Count(fmt.Sprintf("players.%s.resonance.miss", id))
		stats.dashes[i] = summary.Count(fmt.Sprintf("players.%s.dash.fired", id))
		stats.bonus[i] = summary.Count(fmt.Sprintf("players.%s.bonus", id))
	}
	if w := gjson.Get(session.Summary(), "winner").String(); w != string(result.Winner) {
		return runStats{}, fmt.Errorf("summary winner %q disagrees with result %q", w, result.Winner)
	}
	return stats, nil
}

func printRun(w io.Writer, p *message.Printer, s runStats) {
	p.Fprintf(w, "run %d seed=%d winner=%s totals=%d-%d beats=%d\n",
		s.index, s.seed, s.result.Winner, s.result.Totals.P1, s.result.Totals.P2, s.beats)
	for _, r := range s.result.Rounds {
		p.Fprintf(w, "  %-10s %-3s %d-%d\n", r.Mode, r.Winner, r.Scores.P1, r.Scores.P2)
	}
	for i, id := range domain.PlayerIDs {
		p.Fprintf(w, "  %s perfect=%d miss=%d dash=%d bonus=%d\n",
			id, s.perfects[i], s.misses[i], s.dashes[i], s.bonus[i])
	}
	p.Fprintln(w)
}

func printAggregate(w io.Writer, p *message.Printer, all []runStats) {
	wins := map[domain.Winner]int{}
	var points [2]int
	for _, s := range all {
		wins[s.result.Winner]++
		points[0] += s.result.Totals.P1
		points[1] += s.result.Totals.P2
	}
	n := float64(len(all))
	p.Fprintf(w, "=== Aggregate over %d runs ===\n", len(all))
	p.Fprintf(w, "wins p1=%d p2=%d tie=%d\n", wins[domain.WinnerP1], wins[domain.WinnerP2], wins[domain.WinnerTie])
	p.Fprintf(w, "points p1=%d (avg %.1f) p2=%d (avg %.1f)\n",
		points[0], float64(points[0])/n, points[1], float64(points[1])/n)
}
