package concurrency

import (
	"sync"
)

const (
	// DefaultMax default max
	DefaultMax = 16
)

// GoLimit runs at most max functions at a time
type GoLimit struct {
	ch chan struct{}
	wg sync.WaitGroup
}

// NewGoLimit new go limit
func NewGoLimit(max int) *GoLimit {
	if max <= 0 {
		max = DefaultMax
	}

	return &GoLimit{
		ch: make(chan struct{}, max),
	}
}

// Go blocks until a slot is free, then runs fn in a new goroutine
func (g *GoLimit) Go(fn func()) {
	g.ch <- struct{}{}
	g.wg.Add(1)

	go func() {
		defer func() {
			<-g.ch
			g.wg.Done()
		}()

		fn()
	}()
}

// Wait waits for every started function to return
func (g *GoLimit) Wait() {
	g.wg.Wait()
}
