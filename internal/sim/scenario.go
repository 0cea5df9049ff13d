// Package sim is the in-process demo simulation backing the client. It
// implements game.View for the overlays, produces the per-tick update
// batches from a scripted scenario, and applies intents drained from the
// intent bus. It is a stand-in for the real engine, not a game.
package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted demo game: a fixed set of players and a list of
// events keyed by tick.
type Scenario struct {
	Name       string           `yaml:"name"`
	SpawnTicks int64            `yaml:"spawn_ticks"`
	MyPlayer   string           `yaml:"my_player"` // client ID of the local player
	Players    []ScenarioPlayer `yaml:"players"`
	Script     []ScriptEntry    `yaml:"script"`
}

type ScenarioPlayer struct {
	ClientID string `yaml:"client_id"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type"` // human, bot, fakehuman; defaults to human
}

// ScriptEntry is one scripted event. Which fields matter depends on the
// action:
//
//	alliance_request  from, to
//	break_alliance    from (the breaker), to
//	target_player     from (the requesting ally), to (the target)
//	message           message, category, to (empty = untargeted)
//	emoji             from, message, to (empty = broadcast)
//	attack            from, to (empty = unclaimed territory), troops
//	retreat           from, to
//	boat              from, troops
//	kill              from
type ScriptEntry struct {
	Tick     int64  `yaml:"tick"`
	Action   string `yaml:"action"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Message  string `yaml:"message"`
	Category string `yaml:"category"`
	Troops   int    `yaml:"troops"`
}

var knownActions = map[string]bool{
	"alliance_request": true,
	"break_alliance":   true,
	"target_player":    true,
	"message":          true,
	"emoji":            true,
	"attack":           true,
	"retreat":          true,
	"boat":             true,
	"kill":             true,
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if len(sc.Players) == 0 {
		return fmt.Errorf("scenario %q has no players", sc.Name)
	}
	if sc.SpawnTicks < 0 {
		return fmt.Errorf("scenario %q: spawn_ticks must not be negative", sc.Name)
	}

	known := make(map[string]bool, len(sc.Players))
	for i, p := range sc.Players {
		if p.ClientID == "" {
			return fmt.Errorf("scenario %q: player %d has no client_id", sc.Name, i)
		}
		if known[p.ClientID] {
			return fmt.Errorf("scenario %q: duplicate client_id %q", sc.Name, p.ClientID)
		}
		known[p.ClientID] = true
	}

	if sc.MyPlayer == "" {
		sc.MyPlayer = sc.Players[0].ClientID
	}
	if !known[sc.MyPlayer] {
		return fmt.Errorf("scenario %q: my_player %q is not in the player list", sc.Name, sc.MyPlayer)
	}

	for i, e := range sc.Script {
		if !knownActions[e.Action] {
			return fmt.Errorf("scenario %q: script entry %d has unknown action %q", sc.Name, i, e.Action)
		}
		if e.From != "" && !known[e.From] {
			return fmt.Errorf("scenario %q: script entry %d references unknown player %q", sc.Name, i, e.From)
		}
		if e.To != "" && !known[e.To] {
			return fmt.Errorf("scenario %q: script entry %d references unknown player %q", sc.Name, i, e.To)
		}
	}
	return nil
}

// DefaultScenario is the built-in demo used when no scenario file is given.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:       "skirmish",
		SpawnTicks: 20,
		MyPlayer:   "you",
		Players: []ScenarioPlayer{
			{ClientID: "you", Name: "You"},
			{ClientID: "aster", Name: "Aster"},
			{ClientID: "borun", Name: "Borun"},
			{ClientID: "cyra", Name: "Cyra"},
			{ClientID: "drone", Name: "Drone 7", Type: "bot"},
		},
		Script: []ScriptEntry{
			{Tick: 25, Action: "message", Message: "The spawn phase has ended", Category: "info"},
			{Tick: 30, Action: "alliance_request", From: "aster", To: "you"},
			{Tick: 45, Action: "emoji", From: "borun", To: "you", Message: "o7"},
			{Tick: 60, Action: "attack", From: "drone", To: "you", Troops: 120},
			{Tick: 70, Action: "attack", From: "cyra", To: "you", Troops: 250},
			{Tick: 90, Action: "boat", From: "you", Troops: 60},
			{Tick: 110, Action: "target_player", From: "aster", To: "cyra"},
			{Tick: 140, Action: "message", To: "you", Message: "Cyra's offensive is faltering", Category: "success"},
			{Tick: 180, Action: "break_alliance", From: "aster", To: "you"},
			{Tick: 200, Action: "kill", From: "cyra"},
			{Tick: 205, Action: "message", Message: "Cyra has been eliminated", Category: "warn"},
		},
	}
}
