package hub

import (
	"context"
	"sort"
	"time"
)

type HubMsg interface{ isHubMsg() }

// Info describes a battle currently streaming.
type Info struct {
	ID         string    `json:"id"`
	Characters []string  `json:"characters"`
	StartedAt  time.Time `json:"started_at"`
}

type Register struct {
	Info Info
}

type Remove struct {
	ID string
}

type List struct {
	Reply chan []Info
}

type ShutdownHub struct{}

func (Register) isHubMsg()    {}
func (Remove) isHubMsg()      {}
func (List) isHubMsg()        {}
func (ShutdownHub) isHubMsg() {}

// Hub owns the set of active battles of the mock arena. All access goes
// through its inbox.
type Hub struct {
	inbox   chan HubMsg
	battles map[string]Info
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		battles: make(map[string]Info),
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub stopped serving its inbox.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Register:
				h.battles[msg.Info.ID] = msg.Info

			case Remove:
				delete(h.battles, msg.ID)

			case List:
				out := make([]Info, 0, len(h.battles))
				for _, info := range h.battles {
					out = append(out, info)
				}
				sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
				msg.Reply <- out

			case ShutdownHub:
				clear(h.battles)
				h.cancel()
			}
		}
	}
}

// Send delivers a message unless the hub is gone.
func (h *Hub) Send(m HubMsg) bool {
	if h.ctx.Err() != nil {
		return false
	}
	select {
	case h.inbox <- m:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// Snapshot asks the hub for the active battles. Nil once the hub stopped.
func (h *Hub) Snapshot() []Info {
	reply := make(chan []Info, 1)
	if !h.Send(List{Reply: reply}) {
		return nil
	}
	select {
	case out := <-reply:
		return out
	case <-h.ctx.Done():
		return nil
	}
}
