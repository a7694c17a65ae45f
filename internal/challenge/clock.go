package challenge

import "time"

// Clock supplies the current time; tests inject a fixed one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// Ticker runs fn every interval under key until cancelled.
type Ticker interface {
	Every(key string, interval time.Duration, fn func()) error
	Cancel(key string)
}

type noopTicker struct{}

func (noopTicker) Every(string, time.Duration, func()) error { return nil }
func (noopTicker) Cancel(string)                             {}
