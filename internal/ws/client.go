package ws

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/DoyleJ11/arena-probe/pkg/types"
	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Combat logs can be long lines; the library default (32KiB) is tight.
const readLimit = 1 << 20

type Session struct {
	conn *websocket.Conn
	url  string
	log  *zap.Logger
}

// Dial opens one session. It is never retried.
func Dial(ctx context.Context, url string, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, ErrConnectionRefused
		}
		return nil, &TransportError{Op: "dial", Err: err}
	}
	conn.SetReadLimit(readLimit)

	log.Debug("websocket connected", zap.String("url", url))
	return &Session{conn: conn, url: url, log: log}, nil
}

// SendConfiguration writes the roster as a single text frame and returns
// without waiting for any acknowledgment.
func (s *Session) SendConfiguration(ctx context.Context, roster types.Roster) error {
	payload, err := types.EncodeRoster(roster)
	if err != nil {
		return err
	}
	return s.SendPayload(ctx, payload)
}

// SendPayload writes an already encoded roster as one text frame.
func (s *Session) SendPayload(ctx context.Context, payload []byte) error {
	if err := s.conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	s.log.Debug("configuration sent", zap.Int("bytes", len(payload)))
	return nil
}

// Next waits for the next frame. A zero timeout waits until ctx is done.
// The library tears the connection down when a read is abandoned, so after
// ErrTimeout the session is only good for Close.
func (s *Session) Next(ctx context.Context, timeout time.Duration) (string, error) {
	readCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		readCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	_, data, err := s.conn.Read(readCtx)
	timedOut := errors.Is(readCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
	cancel()

	if err == nil {
		return string(data), nil
	}

	var ce websocket.CloseError
	switch {
	case errors.As(err, &ce):
		// Normal closure and going-away are the graceful ends; anything
		// else the server sent is still a close, just reported with its code.
		return "", &ClosedError{Code: int(ce.Code), Reason: ce.Reason}
	case timedOut:
		return "", ErrTimeout
	default:
		return "", &TransportError{Op: "receive", Err: err}
	}
}

// Close sends a normal closure. Closing a session the peer already closed
// is not an error.
func (s *Session) Close() error {
	err := s.conn.Close(websocket.StatusNormalClosure, "bye")
	s.log.Debug("websocket closed", zap.String("url", s.url))
	if err == nil || errors.Is(err, net.ErrClosed) || websocket.CloseStatus(err) != -1 {
		return nil
	}
	return &TransportError{Op: "close", Err: err}
}
