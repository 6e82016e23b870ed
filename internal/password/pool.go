// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/tomtom215/plainwiki/internal/logging"
)

// ErrPoolBusy is returned when the hashing queue is full.
var ErrPoolBusy = errors.New("password hashing pool is busy")

// Hasher is the hashing capability the credential and auth layers depend on.
// Errors are scheduling failures only; a wrong password is (false, nil).
type Hasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, encoded string) (bool, error)
	Params() Params
}

// PoolConfig sizes a Pool. Zero values select defaults.
type PoolConfig struct {
	// Workers is the number of concurrent hash computations.
	// Default: runtime.NumCPU()/2, at least 1
	Workers int

	// QueueSize bounds pending jobs; submissions beyond it fail fast.
	// Default: 4 * Workers
	QueueSize int
}

type opKind int

const (
	opHash opKind = iota
	opVerify
)

type job struct {
	op       opKind
	password string
	encoded  string
	result   chan jobResult
}

type jobResult struct {
	hash string
	ok   bool
	err  error
}

// Pool runs argon2 work on a fixed set of goroutines so that a burst of
// logins cannot occupy every CPU serving page views. It implements
// suture.Service; jobs queue until Serve is running.
type Pool struct {
	params  Params
	workers int
	jobs    chan job
	name    string
}

// NewPool creates a Pool hashing with params.
func NewPool(params Params, cfg PoolConfig) (*Pool, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU() / 2
		if cfg.Workers < 1 {
			cfg.Workers = 1
		}
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 4 * cfg.Workers
	}
	return &Pool{
		params:  params,
		workers: cfg.Workers,
		jobs:    make(chan job, cfg.QueueSize),
		name:    "password-pool",
	}, nil
}

// Params returns the parameters used for new hashes.
func (p *Pool) Params() Params {
	return p.params
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Serve implements suture.Service. Workers drain the queue until ctx is
// canceled; a job already being computed finishes first.
func (p *Pool) Serve(ctx context.Context) error {
	logging.Debug().Int("workers", p.workers).Int("queue", cap(p.jobs)).Msg("Password hashing pool started")

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j := <-p.jobs:
					j.result <- p.run(j)
				}
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// String implements fmt.Stringer for suture logging.
func (p *Pool) String() string {
	return p.name
}

func (p *Pool) run(j job) jobResult {
	start := time.Now()
	var r jobResult
	switch j.op {
	case opHash:
		r.hash, r.err = Hash(j.password, p.params)
		HashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	case opVerify:
		r.ok = Verify(j.password, j.encoded)
		HashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	}
	return r
}

func (p *Pool) submit(ctx context.Context, j job) (jobResult, error) {
	// Buffered so a worker never blocks on a caller that gave up.
	j.result = make(chan jobResult, 1)

	select {
	case p.jobs <- j:
	case <-ctx.Done():
		return jobResult{}, ctx.Err()
	default:
		PoolRejected.Inc()
		return jobResult{}, ErrPoolBusy
	}

	select {
	case r := <-j.result:
		return r, r.err
	case <-ctx.Done():
		return jobResult{}, ctx.Err()
	}
}

// Hash hashes password on a pool worker.
func (p *Pool) Hash(ctx context.Context, password string) (string, error) {
	r, err := p.submit(ctx, job{op: opHash, password: password})
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return r.hash, nil
}

// Verify checks password against encoded on a pool worker.
func (p *Pool) Verify(ctx context.Context, password, encoded string) (bool, error) {
	r, err := p.submit(ctx, job{op: opVerify, password: password, encoded: encoded})
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	return r.ok, nil
}

// Direct is a Hasher that computes on the calling goroutine. It suits
// command-line tools and tests where no pool is running.
type Direct struct {
	P Params
}

// Hash implements Hasher.
func (d Direct) Hash(ctx context.Context, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Hash(password, d.P)
}

// Verify implements Hasher.
func (d Direct) Verify(ctx context.Context, password, encoded string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return Verify(password, encoded), nil
}

// Params implements Hasher.
func (d Direct) Params() Params {
	return d.P
}
