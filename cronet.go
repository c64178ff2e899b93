// Package cronet provides Go bindings to Chromium's Cronet network stack.
//
// The HTTP engine (connection pooling, QUIC, HTTP/2, caching) lives in
// the prebuilt native library; this package only exposes its engine and
// parameter handles as capability tokens. Every call goes straight into
// the native library and may block.
//
// # Usage
//
//	engine, err := cronet.NewEngine(
//	    cronet.WithUserAgent("my-app/1.0"),
//	    cronet.WithQuic(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	version, _ := engine.Version()
//	fmt.Println("Cronet", version)
//
// The raw C API is available verbatim in package capi.
//
// # Handles
//
// Engine and EngineParams wrap native handles. They must not be copied,
// and every method returns ErrClosed once the handle has been released.
// An engine is not released by the garbage collector; call Close.
package cronet

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/XOR-op/cronet-go/internal/ffi"
)

// noCopy is flagged by go vet's copylocks check when a handle is copied.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// EngineParams is a native parameter object. Create it, apply options,
// start an engine with it and destroy it; the engine keeps its own copy.
type EngineParams struct {
	_  noCopy
	mu sync.Mutex
	p  *ffi.EngineParams
}

// NewEngineParams creates a parameter object and applies opts to it.
func NewEngineParams(opts ...Option) (*EngineParams, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := ffi.NewEngineParams()
	if p == nil {
		return nil, fmt.Errorf("%w: engine params", ErrCreateFailed)
	}
	cfg.apply(p)
	return &EngineParams{p: p}, nil
}

// UserAgent returns the configured User-Agent, empty if unset.
func (p *EngineParams) UserAgent() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.p.Valid() {
		return "", ErrClosed
	}
	return p.p.UserAgent(), nil
}

// QuicEnabled reports whether QUIC is enabled.
func (p *EngineParams) QuicEnabled() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.p.Valid() {
		return false, ErrClosed
	}
	return p.p.EnableQuic(), nil
}

// Destroy releases the native object. It is safe to call more than once.
func (p *EngineParams) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.p.Destroy()
}

// Engine is a started native engine.
type Engine struct {
	_      noCopy
	mu     sync.Mutex
	e      *ffi.Engine
	down   bool
	closed bool
}

// NewEngine creates parameters from opts, starts an engine with them and
// releases the parameters.
func NewEngine(opts ...Option) (*Engine, error) {
	params, err := NewEngineParams(opts...)
	if err != nil {
		return nil, err
	}
	defer params.Destroy()
	return StartEngine(params)
}

// StartEngine creates an engine and starts it with params. The caller
// still owns params and may destroy it as soon as StartEngine returns.
func StartEngine(params *EngineParams) (*Engine, error) {
	params.mu.Lock()
	defer params.mu.Unlock()
	if !params.p.Valid() {
		return nil, ErrClosed
	}

	e := ffi.NewEngine()
	if e == nil {
		return nil, fmt.Errorf("%w: engine", ErrCreateFailed)
	}
	if err := resultError("start engine", e.StartWithParams(params.p)); err != nil {
		e.Destroy()
		return nil, err
	}

	Logger().Debug("engine started", zap.String("version", e.Version()))
	return &Engine{e: e}, nil
}

// Version returns the native library version, for example
// "120.0.6099.0@bbd2a1a4".
func (e *Engine) Version() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", ErrClosed
	}
	return e.e.Version(), nil
}

// DefaultUserAgent returns the user agent used when none is configured.
func (e *Engine) DefaultUserAgent() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", ErrClosed
	}
	return e.e.DefaultUserAgent(), nil
}

// StartNetLog writes a NetLog to path until StopNetLog. With logAll the
// log includes cookies and credentials.
func (e *Engine) StartNetLog(path string, logAll bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if !e.e.StartNetLogToFile(path, logAll) {
		return fmt.Errorf("%w: %s", ErrNetLog, path)
	}
	Logger().Debug("netlog started", zap.String("path", path), zap.Bool("log_all", logAll))
	return nil
}

// StopNetLog stops NetLog recording. It blocks until the file is written.
func (e *Engine) StopNetLog() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.e.StopNetLog()
	return nil
}

// Shutdown stops the engine's network thread without releasing the
// handle. It fails with ErrIllegalState when called from a callback
// running on the network thread.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.shutdown()
}

func (e *Engine) shutdown() error {
	if e.down {
		return nil
	}
	if err := resultError("shutdown engine", e.e.Shutdown()); err != nil {
		return err
	}
	e.down = true
	return nil
}

// Close shuts the engine down, unless Shutdown already did, and releases
// the native handle. The handle is released even if shutdown fails.
// Calling Close again returns ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	err := e.shutdown()
	e.e.Destroy()
	e.closed = true
	Logger().Debug("engine closed")
	return err
}
