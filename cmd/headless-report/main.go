package main

import (
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/Garsondee/Tile-Engine/internal/demo"
	"github.com/Garsondee/Tile-Engine/internal/engine"
	"github.com/Garsondee/Tile-Engine/internal/input"
	"github.com/Garsondee/Tile-Engine/internal/tilemap"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	score       int
	coinsLeft   int
	dialogsSeen int

	firstCoinTick   int
	firstDialogTick int
	firstHitTick    int

	created         int
	destroyed       int
	coroutineStarts int
	coroutineStops  int
	modeChanges     int
	hits            int
	interactions    int
	hitSubjects     map[string]struct{}
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var mapPath string

	flag.IntVar(&runs, "runs", 5, "number of headless runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&mapPath, "map", "", "Tiled JSON map (built-in level when empty)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	m, err := demo.LoadLevel(mapPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Autopilot Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runAutopilot(m, i+1, seed, ticks)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// autopilot wanders the player with random held directions, talks to signs
// and pages through dialogs.
type autopilot struct {
	rng      *rand.Rand
	dir      input.Key
	holdLeft int
}

var directions = []input.Key{input.KeyLeft, input.KeyRight, input.KeyUp, input.KeyDown}

func newAutopilot(seed int64) *autopilot {
	return &autopilot{
		rng: rand.New(rand.NewSource(seed)), // #nosec G404 -- deterministic replay, not security
		dir: input.KeyRight,
	}
}

// step queues this tick's input.
func (a *autopilot) step(sim *engine.Sim, dialogOpen bool) {
	if dialogOpen {
		if a.rng.Intn(10) == 0 {
			sim.Tap(input.KeyEnter)
		}
		return
	}
	if a.holdLeft <= 0 {
		sim.Release(a.dir)
		a.dir = directions[a.rng.Intn(len(directions))]
		a.holdLeft = 20 + a.rng.Intn(60)
		sim.Press(a.dir)
	}
	a.holdLeft--
	if a.rng.Intn(30) == 0 {
		sim.Tap(input.KeySpacebar)
	}
}

func runAutopilot(m *tilemap.Map, runIndex int, seed int64, ticks int) (runStats, error) {
	var scene *demo.Scene
	sim, err := engine.NewSim(
		engine.WithOptions(engine.WithVerboseLog(true), engine.WithLogCapacity(0)),
		engine.WithSetup(func(g *engine.Game) error {
			var err error
			scene, err = demo.Build(g, m)
			return err
		}),
	)
	if err != nil {
		return runStats{}, err
	}

	pilot := newAutopilot(seed)
	firstCoin, firstDialog := -1, -1
	for i := 0; i < ticks; i++ {
		pilot.step(sim, scene.DialogOpen())
		sim.RunTicks(1)
		if firstCoin < 0 && scene.Score > 0 {
			firstCoin = sim.Tick()
		}
		if firstDialog < 0 && scene.DialogsSeen > 0 {
			firstDialog = sim.Tick()
		}
	}

	rs := collectStats(sim.Log().Entries())
	rs.runIndex = runIndex
	rs.seed = seed
	rs.ticks = ticks
	rs.score = scene.Score
	rs.coinsLeft = scene.CoinsLeft()
	rs.dialogsSeen = scene.DialogsSeen
	rs.firstCoinTick = firstCoin
	rs.firstDialogTick = firstDialog
	return rs, nil
}

// collectStats tallies the log entries of one run.
func collectStats(entries []engine.LogEntry) runStats {
	rs := runStats{hitSubjects: map[string]struct{}{}}
	for _, e := range entries {
		switch e.Category {
		case engine.CatEntity:
			switch e.Key {
			case engine.KeyCreated:
				rs.created++
			case engine.KeyDestroyed:
				rs.destroyed++
			}
		case engine.CatCoroutine:
			switch e.Key {
			case engine.KeyStart:
				rs.coroutineStarts++
			case engine.KeyStop:
				rs.coroutineStops++
			}
		case engine.CatMode:
			if e.Key == engine.KeyChange {
				rs.modeChanges++
			}
		case engine.CatCollision:
			switch e.Key {
			case engine.KeyHit:
				rs.hits++
				rs.hitSubjects[e.Subject] = struct{}{}
			case engine.KeyInteraction:
				rs.interactions++
			}
		}
	}
	rs.firstHitTick = firstTick(entries, engine.CatCollision, engine.KeyHit, "")
	return rs
}

func firstTick(entries []engine.LogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome: score=%d coins_left=%d dialogs=%d\n", rs.score, rs.coinsLeft, rs.dialogsSeen)
	fmt.Printf("phase_markers: first_hit=%d first_coin=%d first_dialog=%d\n",
		rs.firstHitTick, rs.firstCoinTick, rs.firstDialogTick)
	fmt.Printf("event_totals: created=%d destroyed=%d coroutine_start=%d coroutine_stop=%d mode_change=%d\n",
		rs.created, rs.destroyed, rs.coroutineStarts, rs.coroutineStops, rs.modeChanges)
	fmt.Printf("collision_events: hit=%d interaction=%d hit_subjects=%s\n",
		rs.hits, rs.interactions, joinSet(rs.hitSubjects))
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalScore := 0
	totalDialogs := 0
	totalHits := 0
	totalInteractions := 0
	totalModeChanges := 0
	cleared := 0

	coinTicks := make([]int, 0, len(all))
	dialogTicks := make([]int, 0, len(all))
	subjects := map[string]struct{}{}

	for _, rs := range all {
		totalScore += rs.score
		totalDialogs += rs.dialogsSeen
		totalHits += rs.hits
		totalInteractions += rs.interactions
		totalModeChanges += rs.modeChanges
		if rs.coinsLeft == 0 {
			cleared++
		}
		if rs.firstCoinTick >= 0 {
			coinTicks = append(coinTicks, rs.firstCoinTick)
		}
		if rs.firstDialogTick >= 0 {
			dialogTicks = append(dialogTicks, rs.firstDialogTick)
		}
		for s := range rs.hitSubjects {
			subjects[s] = struct{}{}
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d levels_cleared=%d\n", len(all), cleared)
	fmt.Printf("avg_per_run: score=%.1f dialogs=%.1f hits=%.1f interactions=%.1f mode_changes=%.1f\n",
		avg(totalScore, len(all)), avg(totalDialogs, len(all)), avg(totalHits, len(all)),
		avg(totalInteractions, len(all)), avg(totalModeChanges, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_coin=%s first_dialog=%s\n",
		avgTickString(coinTicks), avgTickString(dialogTicks))
	fmt.Printf("unique_hit_subjects=%d [%s]\n", len(subjects), joinSet(subjects))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
