package storage

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// NotifyChannel is the Postgres NOTIFY channel all room/score writes announce on.
const NotifyChannel = "smrutimap_events"

// Event kinds carried on the channel.
const (
	EventRoom        = "room"
	EventScore       = "score"
	EventParticipant = "participant"
)

// ChangeEvent names a room whose state just changed. It carries no payload
// beyond the kind: receivers always re-fetch the authoritative state.
type ChangeEvent struct {
	RoomCode string `json:"room_code"`
	Kind     string `json:"kind"`
}

// Publisher announces changes to whoever listens on the channel. Writers call
// it after their own write lands; delivery is best-effort by design, the
// reconciliation poll covers losses.
type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent)
}

type pgPublisher struct {
	db *gorm.DB
}

func NewPgPublisher(db *gorm.DB) Publisher {
	return &pgPublisher{db: db}
}

func (p *pgPublisher) Publish(ctx context.Context, ev ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[NOTIFY-ERROR] marshal event for room %s: %v", ev.RoomCode, err)
		return
	}
	if err := p.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", NotifyChannel, string(payload)).Error; err != nil {
		log.Printf("[NOTIFY-ERROR] pg_notify for room %s: %v", ev.RoomCode, err)
	}
}

// ChangeFeed turns the Postgres LISTEN stream into a channel of ChangeEvents.
type ChangeFeed struct {
	listener *pq.Listener
	events   chan ChangeEvent
	done     chan struct{}
}

// NewChangeFeed opens a dedicated listening connection. The pq listener
// reconnects on its own; a nil notification marks a reconnect, after which
// the poll loop catches up anything missed.
func NewChangeFeed(dsn string) (*ChangeFeed, error) {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("[FEED-ERROR] listener event %d: %v", ev, err)
		}
	})
	if err := listener.Listen(NotifyChannel); err != nil {
		listener.Close()
		return nil, err
	}

	feed := &ChangeFeed{
		listener: listener,
		events:   make(chan ChangeEvent, 64),
		done:     make(chan struct{}),
	}
	go feed.run()
	return feed, nil
}

func (f *ChangeFeed) run() {
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case n := <-f.listener.Notify:
			if n == nil {
				// Connection was re-established, poll loop reconciles the gap
				log.Printf("[FEED] listener reconnected")
				continue
			}
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
				log.Printf("[FEED-ERROR] bad payload %q: %v", n.Extra, err)
				continue
			}
			select {
			case f.events <- ev:
			default:
				// Feed consumers are slow, drop: the poll is the source of truth
				log.Printf("[FEED] dropping event for room %s, buffer full", ev.RoomCode)
			}
		case <-ping.C:
			if err := f.listener.Ping(); err != nil {
				log.Printf("[FEED-ERROR] ping: %v", err)
			}
		case <-f.done:
			return
		}
	}
}

// Events is the stream of change announcements.
func (f *ChangeFeed) Events() <-chan ChangeEvent {
	return f.events
}

func (f *ChangeFeed) Close() error {
	close(f.done)
	return f.listener.Close()
}
