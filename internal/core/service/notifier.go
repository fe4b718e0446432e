package service

import (
	"sync"
	"time"
)

type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertDanger  AlertKind = "danger"
)

// Alert is the one notification shown to the operator.
type Alert struct {
	Message  string    `json:"message"`
	Kind     AlertKind `json:"kind"`
	RaisedAt time.Time `json:"raisedAt"`
}

// Notifier holds at most one alert; raising a new one replaces the old.
type Notifier struct {
	mu    sync.Mutex
	now   func() time.Time
	alert *Alert
}

func NewNotifier() *Notifier {
	return &Notifier{now: time.Now}
}

func (n *Notifier) Success(msg string) { n.raise(AlertSuccess, msg) }

func (n *Notifier) Danger(msg string) { n.raise(AlertDanger, msg) }

// Current returns a copy of the alert, or nil.
func (n *Notifier) Current() *Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.alert == nil {
		return nil
	}
	a := *n.alert
	return &a
}

func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.alert = nil
	n.mu.Unlock()
}

func (n *Notifier) raise(kind AlertKind, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alert = &Alert{Message: msg, Kind: kind, RaisedAt: n.now().UTC()}
}
