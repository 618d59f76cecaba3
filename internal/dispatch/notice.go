package dispatch

import (
	"sync"
	"time"
)

const DefaultNoticeTTL = 3 * time.Second

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

type Notice struct {
	ID   uint64
	Kind NoticeKind
	Text string
}

type Notifier interface {
	Notify(kind NoticeKind, text string)
}

// Board shows one transient notice at a time. Each notice is dismissed
// after the TTL unless a newer notice replaced it first.
type Board struct {
	ttl time.Duration

	mu      sync.Mutex
	seq     uint64
	current *Notice
	listen  []func(Notice)
}

func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Board{ttl: ttl}
}

// Subscribe registers fn for every notice shown.
func (b *Board) Subscribe(fn func(Notice)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listen = append(b.listen, fn)
}

func (b *Board) Notify(kind NoticeKind, text string) {
	b.mu.Lock()
	b.seq++
	n := Notice{ID: b.seq, Kind: kind, Text: text}
	b.current = &n
	listeners := append([]func(Notice){}, b.listen...)
	b.mu.Unlock()

	time.AfterFunc(b.ttl, func() { b.dismiss(n.ID) })
	for _, fn := range listeners {
		fn(n)
	}
}

func (b *Board) dismiss(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil && b.current.ID == id {
		b.current = nil
	}
}

// Current returns the notice on display, if any.
func (b *Board) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Notice{}, false
	}
	return *b.current, true
}
