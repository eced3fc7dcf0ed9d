package usecase

import "sync/atomic"

// singleFlight admits one holder at a time. Contenders are turned away, not queued.
type singleFlight struct {
	running atomic.Bool
}

func (g *singleFlight) tryAcquire() bool {
	return g.running.CompareAndSwap(false, true)
}

func (g *singleFlight) release() {
	g.running.Store(false)
}

func (g *singleFlight) busy() bool {
	return g.running.Load()
}
