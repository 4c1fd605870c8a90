// Package notify keeps a persisted, newest-first feed of user-facing
// notifications about products, certifications, and administrative changes.
package notify

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"pharmacertlabs/pharmacert/internal/kvstore"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// StorageKey is the backend key holding the serialized feed.
const StorageKey = "pharma_notifications"

// AllID is accepted by MarkRead as a request to mark every notification read.
const AllID = "all"

// Type classifies a notification.
type Type string

const (
	TypeInfo          Type = "info"
	TypeProduct       Type = "product"
	TypeCertification Type = "certification"
	TypeAdmin         Type = "admin"
)

// Data is free-form context attached to a notification.
type Data map[string]any

// Notification is a single entry in the feed.
type Notification struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Message   string `json:"message"`
	Data      Data   `json:"data,omitempty"`
	Read      bool   `json:"read"`
	Timestamp int64  `json:"timestamp"`
}

// Time returns the notification timestamp as a time.Time.
func (n Notification) Time() time.Time {
	return time.UnixMilli(n.Timestamp)
}

// Feed is the notification store. It is safe for concurrent use.
type Feed struct {
	backend kvstore.Backend
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	items   []Notification
	entropy *ulid.MonotonicEntropy
	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func([]Notification)
}

// Option configures a Feed.
type Option func(*Feed)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Feed) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(f *Feed) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFeed builds a feed on backend and loads any persisted notifications.
// A nil backend keeps the feed in memory only.
func NewFeed(backend kvstore.Backend, opts ...Option) *Feed {
	f := &Feed{
		backend: backend,
		logger:  zap.NewNop(),
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.load()
	return f
}

func (f *Feed) load() {
	if f.backend == nil {
		return
	}
	data, err := f.backend.Get(StorageKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			f.logger.Warn("notifications load failed", zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(data, &f.items); err != nil {
		f.logger.Warn("notifications are corrupt, starting empty", zap.Error(err))
		f.items = nil
	}
}

// persist writes the feed to the backend. Callers hold f.mu.
func (f *Feed) persist() {
	if f.backend == nil {
		return
	}
	data, err := json.Marshal(f.items)
	if err != nil {
		f.logger.Warn("notifications encode failed", zap.Error(err))
		return
	}
	if err := f.backend.Set(StorageKey, data); err != nil {
		f.logger.Warn("notifications save failed", zap.Int("count", len(f.items)), zap.Error(err))
	}
}

// Add prepends an unread notification. An empty type is stored as info.
func (f *Feed) Add(typ Type, message string, data Data) Notification {
	if typ == "" {
		typ = TypeInfo
	}

	f.mu.Lock()
	now := f.now()
	n := Notification{
		ID:        ulid.MustNew(ulid.Timestamp(now), f.entropy).String(),
		Type:      typ,
		Message:   message,
		Data:      data,
		Timestamp: now.UnixMilli(),
	}
	f.items = append([]Notification{n}, f.items...)
	f.persist()
	snapshot, subs := f.snapshotLocked()
	f.mu.Unlock()

	notifyAll(subs, snapshot)
	return n
}

// MarkRead marks the notification with the given id as read. AllID marks
// every notification. Unknown ids leave the feed unchanged but still notify
// subscribers. It reports whether any notification matched.
func (f *Feed) MarkRead(id string) bool {
	if id == AllID {
		f.MarkAllRead()
		return true
	}

	f.mu.Lock()
	found := false
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			found = true
		}
	}
	if found {
		f.persist()
	}
	snapshot, subs := f.snapshotLocked()
	f.mu.Unlock()

	notifyAll(subs, snapshot)
	return found
}

// MarkAllRead marks every notification read.
func (f *Feed) MarkAllRead() {
	f.mu.Lock()
	for i := range f.items {
		f.items[i].Read = true
	}
	f.persist()
	snapshot, subs := f.snapshotLocked()
	f.mu.Unlock()

	notifyAll(subs, snapshot)
}

// List returns the feed, newest first.
func (f *Feed) List() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notification(nil), f.items...)
}

// UnreadCount returns the number of unread notifications.
func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, item := range f.items {
		if !item.Read {
			n++
		}
	}
	return n
}

// Subscribe registers fn to receive the full feed after every change. The
// returned function removes the registration.
func (f *Feed) Subscribe(fn func([]Notification)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextSub++
	id := f.nextSub
	f.subs = append(f.subs, subscriber{id: id, fn: fn})
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, s := range f.subs {
			if s.id == id {
				f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
				return
			}
		}
	}
}

func (f *Feed) snapshotLocked() ([]Notification, []subscriber) {
	return append([]Notification(nil), f.items...), append([]subscriber(nil), f.subs...)
}

func notifyAll(subs []subscriber, items []Notification) {
	for _, s := range subs {
		s.fn(items)
	}
}

// NewProduct announces a product registration.
func (f *Feed) NewProduct(name string, data Data) Notification {
	return f.Add(TypeProduct, fmt.Sprintf("New product added: %s", name), data)
}

// Certification announces that a product was certified.
func (f *Feed) Certification(name string, data Data) Notification {
	return f.Add(TypeCertification, fmt.Sprintf("Product certified: %s", name), data)
}

// AdminAction announces an administrative change against target.
func (f *Feed) AdminAction(action, target string) Notification {
	return f.Add(TypeAdmin, fmt.Sprintf("Administrative action: %s - %s", action, target), Data{"action": action, "target": target})
}
