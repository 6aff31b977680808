// Package notify delivers user-facing outcome notices (the toast layer).
package notify

import (
	"sync"

	"go.uber.org/zap"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Notifier is fire-and-forget. Implementations must not block the caller.
type Notifier interface {
	Notify(kind Kind, msg string)
}

type Func func(kind Kind, msg string)

func (f Func) Notify(kind Kind, msg string) { f(kind, msg) }

// Nop drops every notice.
var Nop Notifier = Func(func(Kind, string) {})

type logNotifier struct{ l *zap.Logger }

// Log writes notices to l: errors at warn level, successes at info.
func Log(l *zap.Logger) Notifier { return logNotifier{l: l.Named("notice")} }

func (n logNotifier) Notify(kind Kind, msg string) {
	if kind == Error {
		n.l.Warn(msg, zap.String("kind", string(kind)))
		return
	}
	n.l.Info(msg, zap.String("kind", string(kind)))
}

type multi []Notifier

func Multi(ns ...Notifier) Notifier { return multi(ns) }

func (m multi) Notify(kind Kind, msg string) {
	for _, n := range m {
		if n != nil {
			n.Notify(kind, msg)
		}
	}
}

type Notice struct {
	Kind Kind
	Msg  string
}

// Recorder keeps every notice it receives.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(kind Kind, msg string) {
	r.mu.Lock()
	r.notices = append(r.notices, Notice{Kind: kind, Msg: msg})
	r.mu.Unlock()
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notices = nil
	r.mu.Unlock()
}
