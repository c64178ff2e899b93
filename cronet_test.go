package cronet

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/XOR-op/cronet-go/internal/ffi"
)

func TestCacheModeString(t *testing.T) {
	tests := []struct {
		mode CacheMode
		want string
	}{
		{CacheDisabled, "Disabled"},
		{CacheInMemory, "InMemory"},
		{CacheDiskNoHTTP, "DiskNoHTTP"},
		{CacheDisk, "Disk"},
		{CacheMode(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("CacheMode(%d).String() = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
}

func TestParseCacheMode(t *testing.T) {
	for m := CacheDisabled; m <= CacheDisk; m++ {
		got, err := ParseCacheMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseCacheMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if got, err := ParseCacheMode("inmemory"); err != nil || got != CacheInMemory {
		t.Errorf("ParseCacheMode is case sensitive: %v, %v", got, err)
	}
	if _, err := ParseCacheMode("tape"); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("ParseCacheMode(tape) error = %v, want ErrInvalidOption", err)
	}
	if CacheInMemory.NeedsStorage() || !CacheDisk.NeedsStorage() || !CacheDiskNoHTTP.NeedsStorage() {
		t.Error("NeedsStorage disagrees with the disk modes")
	}
}

func TestResultCodeString(t *testing.T) {
	tests := []struct {
		code ResultCode
		want string
	}{
		{ResultSuccess, "SUCCESS"},
		{ResultIllegalArgumentInvalidPin, "ILLEGAL_ARGUMENT_INVALID_PIN"},
		{ResultIllegalStateEngineAlreadyStarted, "ILLEGAL_STATE_ENGINE_ALREADY_STARTED"},
		{ResultNullPointerParams, "NULL_POINTER_PARAMS"},
		{ResultCode(-999), "RESULT(-999)"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ResultCode(%d).String() = %q, want %q", int(tt.code), got, tt.want)
		}
	}
}

func TestResultErrorIs(t *testing.T) {
	tests := []struct {
		code  ResultCode
		class error
	}{
		{ResultIllegalArgument, ErrIllegalArgument},
		{ResultIllegalArgumentStoragePathMustExist, ErrIllegalArgument},
		{ResultIllegalStateStoragePathInUse, ErrIllegalState},
		{ResultIllegalStateReadFailed, ErrIllegalState},
		{ResultNullPointerEngine, ErrNullPointer},
		{ResultNullPointerRequestFinishedListenerExecutor, ErrNullPointer},
	}
	classes := []error{ErrIllegalArgument, ErrIllegalState, ErrNullPointer}

	for _, tt := range tests {
		err := error(&ResultError{Op: "start engine", Code: tt.code})
		for _, c := range classes {
			if got, want := errors.Is(err, c), c == tt.class; got != want {
				t.Errorf("errors.Is(%s, %v) = %v, want %v", tt.code, c, got, want)
			}
		}
		if !errors.Is(err, &ResultError{Code: tt.code}) {
			t.Errorf("%s does not match a ResultError with the same code", tt.code)
		}
		if errors.Is(err, &ResultError{Code: ResultSuccess}) {
			t.Errorf("%s matches a ResultError with another code", tt.code)
		}
	}

	unknown := &ResultError{Op: "x", Code: ResultCode(-42)}
	for _, c := range classes {
		if errors.Is(unknown, c) {
			t.Errorf("unclassified code matches %v", c)
		}
	}
}

// The code constants come from the native headers; the class ranges and
// names in this package must agree with them.
func TestResultCodesMatchHeaders(t *testing.T) {
	documented := map[ResultCode]int{
		ResultSuccess:                          0,
		ResultIllegalArgument:                  -100,
		ResultIllegalArgumentInvalidHTTPHeader: -105,
		ResultIllegalState:                     -200,
		ResultIllegalStateReadFailed:           -210,
		ResultNullPointer:                      -300,

		ResultNullPointerRequestFinishedListenerExecutor: -312,
	}
	for code, want := range documented {
		if int(code) != want {
			t.Errorf("%s = %d, want %d", code, int(code), want)
		}
	}

	if len(resultNames) != 32 {
		t.Errorf("resultNames has %d codes, want 32", len(resultNames))
	}
	prefixes := []struct {
		prefix string
		class  error
	}{
		{"ILLEGAL_ARGUMENT", ErrIllegalArgument},
		{"ILLEGAL_STATE", ErrIllegalState},
		{"NULL_POINTER", ErrNullPointer},
	}
	for code, name := range resultNames {
		var want error
		for _, p := range prefixes {
			if strings.HasPrefix(name, p.prefix) {
				want = p.class
			}
		}
		if got := code.class(); got != want {
			t.Errorf("%s (%d) has class %v, want %v", name, int(code), got, want)
		}
	}
}

func TestCacheModesMatchHeaders(t *testing.T) {
	tests := []struct {
		mode   CacheMode
		native ffi.CacheMode
		value  int
	}{
		{CacheDisabled, ffi.CacheDisabled, 0},
		{CacheInMemory, ffi.CacheInMemory, 1},
		{CacheDiskNoHTTP, ffi.CacheDiskNoHTTP, 2},
		{CacheDisk, ffi.CacheDisk, 3},
	}
	for _, tt := range tests {
		if ffi.CacheMode(tt.mode) != tt.native || int(tt.mode) != tt.value {
			t.Errorf("%s = %d, native %d, want %d", tt.mode, int(tt.mode), int(tt.native), tt.value)
		}
	}
}

func TestResultErrorMessage(t *testing.T) {
	err := &ResultError{Op: "shutdown engine", Code: ResultIllegalStateCannotShutdownFromNetworkThread}
	want := "cronet: shutdown engine: ILLEGAL_STATE_CANNOT_SHUTDOWN_ENGINE_FROM_NETWORK_THREAD (-202)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if !cfg.enableHTTP2 || cfg.enableQuic || cfg.enableBrotli {
		t.Errorf("protocol defaults: http2=%v quic=%v brotli=%v", cfg.enableHTTP2, cfg.enableQuic, cfg.enableBrotli)
	}
	if !cfg.pinningBypass || !cfg.checkResult {
		t.Error("pinning bypass and result checking should default to enabled")
	}
	if !math.IsNaN(cfg.networkThreadPriority) {
		t.Errorf("networkThreadPriority = %v, want NaN", cfg.networkThreadPriority)
	}
	if cfg.cacheMode != CacheDisabled {
		t.Errorf("cacheMode = %s, want Disabled", cfg.cacheMode)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestOptions(t *testing.T) {
	cfg := defaultConfig()
	opts := []Option{
		WithUserAgent("CronetSample/1"),
		WithAcceptLanguage("en-US"),
		WithStoragePath("/tmp/cronet"),
		WithQuic(true),
		WithHTTP2(false),
		WithBrotli(true),
		WithHTTPCache(CacheDisk, 1<<20),
		WithQuicHint("example.com", 443, 443),
		WithQuicHint("example.org", 443, 8443),
		WithPublicKeyPins(PublicKeyPins{Host: "example.com", SHA256: []string{"AAAA"}}),
		WithPinningBypassForLocalTrustAnchors(false),
		WithNetworkThreadPriority(-2),
		WithExperimentalOptions(`{"QUIC":{}}`),
		WithCheckResult(false),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.userAgent != "CronetSample/1" || cfg.acceptLanguage != "en-US" || cfg.storagePath != "/tmp/cronet" {
		t.Errorf("string options not applied: %+v", cfg)
	}
	if !cfg.enableQuic || cfg.enableHTTP2 || !cfg.enableBrotli {
		t.Error("protocol options not applied")
	}
	if cfg.cacheMode != CacheDisk || cfg.cacheMaxSize != 1<<20 {
		t.Errorf("cache = %s/%d", cfg.cacheMode, cfg.cacheMaxSize)
	}
	if len(cfg.quicHints) != 2 || cfg.quicHints[1].AlternatePort != 8443 {
		t.Errorf("quicHints = %+v", cfg.quicHints)
	}
	if len(cfg.publicKeyPins) != 1 {
		t.Errorf("publicKeyPins = %+v", cfg.publicKeyPins)
	}
	if cfg.pinningBypass || cfg.checkResult || cfg.networkThreadPriority != -2 {
		t.Error("remaining options not applied")
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		ok   bool
	}{
		{"defaults", nil, true},
		{"in-memory cache", []Option{WithHTTPCache(CacheInMemory, 0)}, true},
		{"disk cache without storage", []Option{WithHTTPCache(CacheDisk, 100)}, false},
		{"disk cache with storage", []Option{WithStoragePath("/tmp"), WithHTTPCache(CacheDiskNoHTTP, 100)}, true},
		{"unknown cache mode", []Option{WithHTTPCache(CacheMode(7), 0)}, false},
		{"negative cache size", []Option{WithHTTPCache(CacheInMemory, -1)}, false},
		{"quic hint", []Option{WithQuicHint("example.com", 443, 443)}, true},
		{"quic hint empty host", []Option{WithQuicHint("", 443, 443)}, false},
		{"quic hint with port in host", []Option{WithQuicHint("example.com:443", 443, 443)}, false},
		{"quic hint zero port", []Option{WithQuicHint("example.com", 0, 443)}, false},
		{"quic hint port overflow", []Option{WithQuicHint("example.com", 443, 70000)}, false},
		{"pins without hashes", []Option{WithPublicKeyPins(PublicKeyPins{Host: "example.com"})}, false},
		{"pins without host", []Option{WithPublicKeyPins(PublicKeyPins{SHA256: []string{"AAAA"}})}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			for _, opt := range tt.opts {
				opt(cfg)
			}
			err := cfg.validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidOption) {
				t.Fatalf("error = %v, want ErrInvalidOption", err)
			}
		})
	}
}

func TestNewEngineParamsRejectsInvalidOptions(t *testing.T) {
	p, err := NewEngineParams(WithHTTPCache(CacheDisk, 1))
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("error = %v, want ErrInvalidOption", err)
	}
	if p != nil {
		t.Fatal("params returned alongside an error")
	}
}

// The tests below drive the native engine.

func skipNative(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping native engine test in short mode")
	}
}

func TestEngineParams(t *testing.T) {
	skipNative(t)

	p, err := NewEngineParams(WithUserAgent("CronetSample/1"), WithQuic(true))
	if err != nil {
		t.Fatalf("NewEngineParams: %v", err)
	}
	if ua, err := p.UserAgent(); err != nil || ua != "CronetSample/1" {
		t.Errorf("UserAgent() = %q, %v", ua, err)
	}
	if quic, err := p.QuicEnabled(); err != nil || !quic {
		t.Errorf("QuicEnabled() = %v, %v", quic, err)
	}

	p.Destroy()
	p.Destroy()
	if _, err := p.UserAgent(); !errors.Is(err, ErrClosed) {
		t.Errorf("UserAgent after Destroy: %v, want ErrClosed", err)
	}
	if _, err := StartEngine(p); !errors.Is(err, ErrClosed) {
		t.Errorf("StartEngine with destroyed params: %v, want ErrClosed", err)
	}
}

func TestEngineVersion(t *testing.T) {
	skipNative(t)

	params, err := NewEngineParams(WithUserAgent("CronetSample/1"), WithQuic(true))
	if err != nil {
		t.Fatalf("NewEngineParams: %v", err)
	}
	engine, err := StartEngine(params)
	params.Destroy()
	if err != nil {
		t.Fatalf("StartEngine: %v", err)
	}

	version, err := engine.Version()
	if err != nil || version == "" {
		t.Fatalf("Version() = %q, %v", version, err)
	}
	t.Logf("Cronet version: %s", version)

	if ua, err := engine.DefaultUserAgent(); err != nil || ua == "" {
		t.Errorf("DefaultUserAgent() = %q, %v", ua, err)
	}

	if err := engine.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := engine.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close: %v, want ErrClosed", err)
	}
	if _, err := engine.Version(); !errors.Is(err, ErrClosed) {
		t.Errorf("Version after Close: %v, want ErrClosed", err)
	}
}

func TestEngineShutdownThenClose(t *testing.T) {
	skipNative(t)

	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := engine.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := engine.Shutdown(); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("Close after Shutdown: %v", err)
	}
}

func TestEngineNetLog(t *testing.T) {
	skipNative(t)

	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer engine.Close()

	path := filepath.Join(t.TempDir(), "capture.netlog.json")
	if err := engine.StartNetLog(path, false); err != nil {
		t.Fatalf("StartNetLog: %v", err)
	}
	if err := engine.StopNetLog(); err != nil {
		t.Fatalf("StopNetLog: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("netlog not written: %v", err)
	}

	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "x.json")
	if err := engine.StartNetLog(missing, false); !errors.Is(err, ErrNetLog) {
		t.Errorf("StartNetLog into a missing directory: %v, want ErrNetLog", err)
	}
}

func TestStoragePathMustExist(t *testing.T) {
	skipNative(t)

	dir := filepath.Join(t.TempDir(), "missing")
	_, err := NewEngine(WithCheckResult(false), WithStoragePath(dir), WithHTTPCache(CacheDisk, 1<<20))
	if !errors.Is(err, ErrIllegalArgument) {
		t.Fatalf("error = %v, want ErrIllegalArgument", err)
	}
	var re *ResultError
	if errors.As(err, &re) && re.Code != ResultIllegalArgumentStoragePathMustExist {
		t.Errorf("code = %s", re.Code)
	}
}
