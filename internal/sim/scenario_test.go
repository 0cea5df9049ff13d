package sim

import (
	"strings"
	"testing"
)

func TestParseScenario(t *testing.T) {
	data := []byte(`
name: duel
spawn_ticks: 10
my_player: red
players:
  - client_id: red
    name: Red
  - client_id: blue
    name: Blue
    type: bot
script:
  - tick: 15
    action: alliance_request
    from: blue
    to: red
`)
	sc, err := ParseScenario(data)
	if err != nil {
		t.Fatalf("ParseScenario: %v", err)
	}
	if sc.Name != "duel" || sc.SpawnTicks != 10 || sc.MyPlayer != "red" {
		t.Errorf("header = %q/%d/%q", sc.Name, sc.SpawnTicks, sc.MyPlayer)
	}
	if len(sc.Players) != 2 || sc.Players[1].Type != "bot" {
		t.Errorf("players = %+v", sc.Players)
	}
	if len(sc.Script) != 1 || sc.Script[0].Action != "alliance_request" {
		t.Errorf("script = %+v", sc.Script)
	}
}

func TestParseScenario_MyPlayerDefaultsToFirst(t *testing.T) {
	sc, err := ParseScenario([]byte(`
players:
  - client_id: solo
    name: Solo
`))
	if err != nil {
		t.Fatalf("ParseScenario: %v", err)
	}
	if sc.MyPlayer != "solo" {
		t.Errorf("MyPlayer = %q, want %q", sc.MyPlayer, "solo")
	}
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no players",
			yaml:    `name: empty`,
			wantErr: "no players",
		},
		{
			name: "duplicate client id",
			yaml: `
players:
  - client_id: a
  - client_id: a
`,
			wantErr: "duplicate client_id",
		},
		{
			name: "unknown my_player",
			yaml: `
my_player: ghost
players:
  - client_id: a
`,
			wantErr: "my_player",
		},
		{
			name: "unknown action",
			yaml: `
players:
  - client_id: a
script:
  - tick: 1
    action: teleport
    from: a
`,
			wantErr: "unknown action",
		},
		{
			name: "script references unknown player",
			yaml: `
players:
  - client_id: a
script:
  - tick: 1
    action: kill
    from: ghost
`,
			wantErr: "unknown player",
		},
		{
			name: "negative spawn ticks",
			yaml: `
spawn_ticks: -5
players:
  - client_id: a
`,
			wantErr: "spawn_ticks",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultScenarioIsValid(t *testing.T) {
	if err := DefaultScenario().validate(); err != nil {
		t.Fatalf("built-in scenario invalid: %v", err)
	}
}
