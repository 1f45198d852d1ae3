package arena

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/DoyleJ11/arena-probe/internal/hub"
	"github.com/DoyleJ11/arena-probe/pkg/types"
	"github.com/coder/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	rosterWait = 30 * time.Second
	writeWait  = 3 * time.Second
)

// CloseReason is sent with the normal closure once a script is exhausted.
const CloseReason = "combat terminé"

// Handler serves one battle per connection: read the roster, stream the
// fight, close.
func Handler(h *hub.Hub, opts Options, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Debug("accept failed", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		roster, err := readRoster(r.Context(), conn)
		if err != nil {
			log.Info("rejecting roster", zap.Error(err))
			conn.Close(websocket.StatusPolicyViolation, err.Error())
			return
		}

		id, err := GenerateID()
		if err != nil {
			conn.Close(websocket.StatusInternalError, "id")
			return
		}
		blog := log.With(zap.String("battle", id))

		g, ctx := errgroup.WithContext(r.Context())
		b := NewBattle(ctx, id, roster, opts)
		defer b.Stop()

		names := make([]string, 0, len(roster))
		for _, c := range roster {
			names = append(names, c.Name)
		}
		h.Send(hub.Register{Info: hub.Info{ID: id, Characters: names, StartedAt: time.Now()}})
		defer h.Send(hub.Remove{ID: id})
		blog.Info("battle started", zap.Strings("characters", names))

		// Writer
		g.Go(func() error {
			sent := 0
			for line := range b.Lines() {
				wctx, cancel := context.WithTimeout(ctx, writeWait)
				err := conn.Write(wctx, websocket.MessageText, []byte(line))
				cancel()
				if err != nil {
					return err
				}
				sent++
			}
			blog.Info("battle script done", zap.Int("lines", sent))
			if opts.HoldOpen {
				<-ctx.Done()
				return nil
			}
			return conn.Close(websocket.StatusNormalClosure, CloseReason)
		})

		// Reader: the client sends nothing more, any read result means it left.
		g.Go(func() error {
			for {
				if _, _, err := conn.Read(ctx); err != nil {
					return err
				}
			}
		})

		err = g.Wait()
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			blog.Debug("battle closed")
		default:
			if err != nil && !errors.Is(err, context.Canceled) {
				blog.Debug("battle ended", zap.Error(err))
			}
		}
	}
}

func readRoster(ctx context.Context, conn *websocket.Conn) (types.Roster, error) {
	ctx, cancel := context.WithTimeout(ctx, rosterWait)
	defer cancel()

	_, data, err := conn.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	roster, err := types.DecodeRoster(data)
	if err != nil {
		return nil, errors.New("bad json")
	}
	if len(roster) == 0 {
		return nil, errors.New("empty roster")
	}
	if unknown := roster.Unknown(); len(unknown) > 0 {
		return nil, fmt.Errorf("unknown type: %s", unknown[0].Type)
	}
	return roster, nil
}

// GenerateID returns a short random battle id.
func GenerateID() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}
