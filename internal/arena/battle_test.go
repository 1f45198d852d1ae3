package arena

import (
	"context"
	"testing"
	"time"

	"github.com/DoyleJ11/arena-probe/internal/engine"
	"github.com/DoyleJ11/arena-probe/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper: drain a battle with a deadline so tests never hang
func drain(t *testing.T, b *Battle, within time.Duration) []string {
	t.Helper()
	var got []string
	deadline := time.After(within)
	for {
		select {
		case line, ok := <-b.Lines():
			if !ok {
				return got
			}
			got = append(got, line)
		case <-deadline:
			t.Fatalf("battle did not finish within %v", within)
			return nil
		}
	}
}

func TestScript_IsDeterministicPerSeed(t *testing.T) {
	a := Script(types.FlowRoster(), 42)
	b := Script(types.FlowRoster(), 42)
	assert.Equal(t, a, b)
}

func TestScript_Shape(t *testing.T) {
	lines := Script(types.DockerRoster(), 7)
	require.NotEmpty(t, lines)

	events := make([]engine.Event, 0, len(lines))
	for _, line := range lines {
		events = append(events, engine.Classify(line))
	}
	assert.Equal(t, engine.CatStarted, events[0].Category)
	assert.Equal(t, engine.CatEnded, events[len(events)-1].Category)
	assert.Equal(t, engine.CatVictory, events[len(events)-2].Category)
	assert.Contains(t, lines[0], "Arthas (Guerrier)")

	deaths := 0
	for _, evt := range events {
		if evt.Category == engine.CatDeath {
			deaths++
		}
	}
	assert.Equal(t, 3, deaths) // everyone but the survivor
}

func TestScript_EdgeRosters(t *testing.T) {
	assert.Nil(t, Script(nil, 1))

	solo := Script(types.Roster{{Type: types.TypeRobot, Name: "Bender"}}, 1)
	assert.Equal(t, []string{
		"🟢 Début du combat : Bender (Robot)",
		"🏆 Bender remporte le combat",
		"🛑 Fin du combat",
	}, solo)
}

func TestBattle_StreamsScriptThenCloses(t *testing.T) {
	b := NewBattle(context.Background(), "T1", types.BasicRoster(), Options{Script: []string{"a", "b", "c"}})
	assert.Equal(t, []string{"a", "b", "c"}, drain(t, b, time.Second))
}

func TestBattle_StopEndsStream(t *testing.T) {
	b := NewBattle(context.Background(), "T2", types.BasicRoster(), Options{
		Script:   []string{"a", "b", "c"},
		Interval: time.Hour,
	})
	b.Stop()
	assert.Empty(t, drain(t, b, time.Second))
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()
	require.NoError(t, err)
	assert.Len(t, id, 6)
}
