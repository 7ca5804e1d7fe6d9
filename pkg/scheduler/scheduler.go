// Package scheduler runs work on a bounded pool of goroutines.
package scheduler

import (
	"context"
	"fmt"
	"sync"
)

// Work is a unit of work executed by a Scheduler.
type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

// Future delivers the single Result of a submitted Work.
type Future[T any] struct {
	c      chan Result[T]
	cancel context.CancelFunc
}

func (f *Future[T]) C() <-chan Result[T] {
	return f.c
}

// Stop cancels the context passed to the work.
func (f *Future[T]) Stop() {
	f.cancel()
}

// Wait blocks until the result is available.
func (f *Future[T]) Wait() Result[T] {
	return <-f.c
}

type request[T any] struct {
	fn     Work[T]
	c      chan Result[T]
	ctx    context.Context
	cancel context.CancelFunc
}

// queue is FIFO.
type queue[T any] []T

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	var zero T
	old[0] = zero
	*q = old[1:]
	return x
}

type Scheduler[T any] struct {
	idle       int
	pending    queue[request[T]]
	work       chan request[T]
	done       chan struct{}
	closed     chan struct{}
	closeOnce  sync.Once
	running    sync.WaitGroup
	loop       sync.WaitGroup
	mainCtx    context.Context
	mainCancel context.CancelFunc
}

func NewScheduler[T any](nbWorkers int) *Scheduler[T] {
	if nbWorkers < 1 {
		nbWorkers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler[T]{
		idle:       nbWorkers,
		work:       make(chan request[T]),
		done:       make(chan struct{}),
		closed:     make(chan struct{}),
		mainCtx:    ctx,
		mainCancel: cancel,
	}

	s.loop.Add(1)
	go s.run()
	return s
}

// AddWork queues w. After Close the future resolves at once with context.Canceled.
func (s *Scheduler[T]) AddWork(w Work[T]) *Future[T] {
	ctx, cancel := context.WithCancel(s.mainCtx)
	r := request[T]{fn: w, c: make(chan Result[T], 1), ctx: ctx, cancel: cancel}

	select {
	case s.work <- r:
	case <-s.closed:
		cancel()
		r.c <- Result[T]{Err: context.Canceled}
	}

	return &Future[T]{c: r.c, cancel: cancel}
}

// Close cancels every queued and running work, then waits for running work to return.
func (s *Scheduler[T]) Close() {
	s.closeOnce.Do(func() {
		s.mainCancel()
		close(s.closed)
		s.loop.Wait()

		for s.pending.Len() > 0 {
			r := s.pending.Pop()
			r.c <- Result[T]{Err: context.Canceled}
		}
		s.running.Wait()
	})
}

func (s *Scheduler[T]) run() {
	defer s.loop.Done()

	for {
		select {
		case r := <-s.work:
			s.pending.Push(r)
		case <-s.done:
			s.idle++
		case <-s.closed:
			return
		}

		for s.idle > 0 && s.pending.Len() > 0 {
			s.idle--
			s.running.Add(1)
			go s.exec(s.pending.Pop())
		}
	}
}

func (s *Scheduler[T]) exec(r request[T]) {
	defer s.running.Done()
	defer r.cancel()

	r.c <- s.call(r)

	select {
	case s.done <- struct{}{}:
	case <-s.closed:
	}
}

func (s *Scheduler[T]) call(r request[T]) (result Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			result = Result[T]{Err: fmt.Errorf("worker panicked: %v", p)}
		}
	}()

	v, err := r.fn(r.ctx)
	return Result[T]{Data: v, Err: err}
}
