package probe

import (
	"bytes"
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DoyleJ11/arena-probe/internal/arena"
	"github.com/DoyleJ11/arena-probe/internal/config"
	"github.com/DoyleJ11/arena-probe/internal/engine"
	"github.com/DoyleJ11/arena-probe/internal/httpapi"
	"github.com/DoyleJ11/arena-probe/internal/hub"
	itypes "github.com/DoyleJ11/arena-probe/internal/types"
	"github.com/DoyleJ11/arena-probe/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper: mock arena on a random port, config pointed at it
func startArena(t *testing.T, v config.Variant, opts arena.Options) config.Probe {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := httptest.NewServer(httpapi.SetupRoutes(hub.NewHub(ctx), opts, nil))
	t.Cleanup(srv.Close)

	addr := srv.Listener.Addr().(*net.TCPAddr)
	cfg := config.Defaults(v)
	cfg.Host = addr.IP.String()
	cfg.Port = addr.Port
	return cfg
}

type recordingSink struct {
	lines    []engine.Observation
	payload  []byte
	finished *itypes.Report
	closed   bool
}

func (s *recordingSink) Line(o engine.Observation) { s.lines = append(s.lines, o) }

func (s *recordingSink) Finish(_ context.Context, payload []byte, r itypes.Report) error {
	s.payload = payload
	s.finished = &r
	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func run(t *testing.T, cfg config.Probe, roster types.Roster) (itypes.Report, string, *recordingSink) {
	t.Helper()
	var out bytes.Buffer
	p := New(cfg, roster, &out, nil)
	sink := &recordingSink{}
	p.Sink = sink

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rep := p.Run(ctx)
	return rep, out.String(), sink
}

func TestRun_ThreeFramesThenClose(t *testing.T) {
	cfg := startArena(t, config.VariantDocker, arena.Options{Script: []string{
		"🪓 Conan fonce sur Merlin",
		"💥 Merlin subit 7 dégâts",
		"💀 Merlin est mort",
	}})
	roster := types.Roster{
		{Type: types.TypeGuerrier, Name: "Conan"},
		{Type: types.TypeMagicien, Name: "Merlin"},
	}

	rep, out, sink := run(t, cfg, roster)

	assert.Equal(t, itypes.EndClosed, rep.Termination)
	assert.Equal(t, 3, rep.Count)
	assert.Equal(t, 1000, rep.CloseCode)
	assert.Equal(t, arena.CloseReason, rep.CloseReason)
	assert.NoError(t, rep.Err)

	assert.Equal(t, 3, strings.Count(out, "📨 ["))
	assert.Contains(t, out, "logs received = 3")

	assert.Len(t, sink.lines, 3)
	assert.JSONEq(t, `[{"type":"guerrier","name":"Conan"},{"type":"magicien","name":"Merlin"}]`, string(sink.payload))
	require.NotNil(t, sink.finished)
	assert.Equal(t, "docker", sink.finished.Variant)
	assert.True(t, sink.closed)
}

func TestRun_FlowStopsAtMarker(t *testing.T) {
	cfg := startArena(t, config.VariantFlow, arena.Options{
		Script:   []string{"🟢 Début du combat", "🏆 Conan est le dernier survivant", "🛑 Fin du combat", "should not print"},
		HoldOpen: true,
	})
	cfg.Timeout = 2 * time.Second

	rep, out, _ := run(t, cfg, types.FlowRoster())

	assert.Equal(t, itypes.EndMarker, rep.Termination)
	assert.Equal(t, 3, rep.Count)
	assert.True(t, rep.Started)
	assert.True(t, rep.Ended)
	assert.Contains(t, out, "🛑 COMBAT ENDED")
	assert.Contains(t, out, "👑 🏆 Conan est le dernier survivant")
	assert.NotContains(t, out, "should not print")
	assert.Contains(t, out, "combat started: ✅")
	assert.Contains(t, out, "combat ended: ✅")
	assert.Equal(t, "Conan", rep.Winner)
	assert.Contains(t, out, "winner: Conan")
	assert.NotContains(t, out, "connection closed")
}

func TestRun_FlowClosedWithoutMarker(t *testing.T) {
	cfg := startArena(t, config.VariantFlow, arena.Options{Script: []string{"Tour 1", "Tour 2"}})
	cfg.Timeout = 2 * time.Second

	rep, out, _ := run(t, cfg, types.FlowRoster())

	assert.Equal(t, itypes.EndClosed, rep.Termination)
	assert.Equal(t, 2, rep.Count)
	assert.Equal(t, 1000, rep.CloseCode)
	assert.Equal(t, arena.CloseReason, rep.CloseReason)
	assert.Contains(t, out, "logs received = 2")
	assert.Contains(t, out, "combat ended: ❌")
	assert.Contains(t, out, "connection closed (1000: combat terminé)")
}

func TestRun_SilentServerTimesOut(t *testing.T) {
	cfg := startArena(t, config.VariantDocker, arena.Options{Script: []string{}, HoldOpen: true})
	cfg.Timeout = 150 * time.Millisecond

	start := time.Now()
	rep, out, _ := run(t, cfg, types.DockerRoster())

	assert.Equal(t, itypes.EndTimeout, rep.Termination)
	assert.Equal(t, 0, rep.Count)
	assert.NoError(t, rep.Err)
	assert.Contains(t, out, "Timeout after 0 events")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_BasicReadsUntilClose(t *testing.T) {
	cfg := startArena(t, config.VariantBasic, arena.Options{Seed: 3})

	rep, out, sink := run(t, cfg, types.BasicRoster())

	want := arena.Script(types.BasicRoster(), 3)
	require.NotEmpty(t, sink.payload)
	assert.Contains(t, out, "📤 Sending configuration: "+string(sink.payload)+"\n")
	assert.Equal(t, itypes.EndClosed, rep.Termination)
	assert.Equal(t, len(want), rep.Count)
	assert.True(t, rep.Ended)
	for _, line := range want {
		assert.Contains(t, out, line+"\n")
	}
	assert.Equal(t, 1000, rep.CloseCode)
	assert.Equal(t, arena.CloseReason, rep.CloseReason)
	assert.Contains(t, out, "✅ Combat finished - connection closed (1000: combat terminé)")
}

func TestRun_ServerRejectsRoster(t *testing.T) {
	cfg := startArena(t, config.VariantDocker, arena.Options{})

	rep, out, _ := run(t, cfg, types.Roster{{Type: "dragon", Name: "Smaug"}})

	assert.Equal(t, itypes.EndClosed, rep.Termination)
	assert.Equal(t, 0, rep.Count)
	assert.Equal(t, 1008, rep.CloseCode)
	assert.Contains(t, out, "unknown type: dragon")
}

func TestRun_ConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cfg := config.Defaults(config.VariantFlow)
	cfg.Host = "127.0.0.1"
	cfg.Port = port

	start := time.Now()
	rep, out, sink := run(t, cfg, types.FlowRoster())

	assert.Equal(t, itypes.EndRefused, rep.Termination)
	assert.Contains(t, out, "Unable to reach the server")
	assert.NotContains(t, out, "Summary")
	assert.Less(t, time.Since(start), 5*time.Second)
	require.NotNil(t, sink.finished)
	assert.Equal(t, itypes.EndRefused, sink.finished.Termination)
}

func TestPolicyAndStyleFor(t *testing.T) {
	flow := config.Defaults(config.VariantFlow)
	assert.Equal(t, Policy{Timeout: 30 * time.Second, StopOnMarker: true}, PolicyFor(flow))

	basic := config.Defaults(config.VariantBasic)
	assert.Equal(t, Policy{}, PolicyFor(basic))

	docker := config.Defaults(config.VariantDocker)
	assert.Equal(t, Policy{Timeout: 5 * time.Second}, PolicyFor(docker))
}
