package cronet

import (
	"fmt"
	"math"
	"strings"

	"github.com/XOR-op/cronet-go/internal/ffi"
)

// QuicHint tells the engine that a host speaks QUIC, so the first request
// can skip the TCP handshake.
type QuicHint struct {
	Host          string
	Port          int32
	AlternatePort int32
}

// PublicKeyPins pins a host to a set of SPKI SHA-256 hashes.
type PublicKeyPins struct {
	Host string
	// SHA256 holds base64 encoded hashes, with or without the "sha256/"
	// prefix.
	SHA256            []string
	IncludeSubdomains bool
	// ExpirationMs is the expiry in milliseconds since the Unix epoch.
	ExpirationMs int64
}

// Config holds the engine parameters applied by options.
type Config struct {
	userAgent             string
	acceptLanguage        string
	storagePath           string
	enableQuic            bool
	enableHTTP2           bool
	enableBrotli          bool
	cacheMode             CacheMode
	cacheMaxSize          int64
	quicHints             []QuicHint
	publicKeyPins         []PublicKeyPins
	pinningBypass         bool
	networkThreadPriority float64
	experimentalOptions   string
	checkResult           bool
}

// Option is a functional option for configuring an engine.
type Option func(*Config)

// defaultConfig returns the library defaults.
func defaultConfig() *Config {
	return &Config{
		enableHTTP2:           true,
		pinningBypass:         true,
		networkThreadPriority: math.NaN(),
		checkResult:           true,
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
// Default is the library's own user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.userAgent = ua
	}
}

// WithAcceptLanguage sets the Accept-Language header sent with every request.
func WithAcceptLanguage(lang string) Option {
	return func(c *Config) {
		c.acceptLanguage = lang
	}
}

// WithStoragePath sets the directory for the disk cache and persistent
// state. The directory must exist and must not be used by another engine.
func WithStoragePath(dir string) Option {
	return func(c *Config) {
		c.storagePath = dir
	}
}

// WithQuic enables or disables QUIC. Default is disabled.
func WithQuic(enable bool) Option {
	return func(c *Config) {
		c.enableQuic = enable
	}
}

// WithHTTP2 enables or disables HTTP/2. Default is enabled.
func WithHTTP2(enable bool) Option {
	return func(c *Config) {
		c.enableHTTP2 = enable
	}
}

// WithBrotli enables or disables Brotli decoding. Default is disabled.
func WithBrotli(enable bool) Option {
	return func(c *Config) {
		c.enableBrotli = enable
	}
}

// WithHTTPCache selects the cache mode and its size limit in bytes.
// Disk modes require WithStoragePath.
func WithHTTPCache(mode CacheMode, maxSize int64) Option {
	return func(c *Config) {
		c.cacheMode = mode
		c.cacheMaxSize = maxSize
	}
}

// WithQuicHint adds a QUIC hint. May be given more than once.
func WithQuicHint(host string, port, alternatePort int32) Option {
	return func(c *Config) {
		c.quicHints = append(c.quicHints, QuicHint{Host: host, Port: port, AlternatePort: alternatePort})
	}
}

// WithPublicKeyPins adds a pin set. May be given more than once.
func WithPublicKeyPins(pins PublicKeyPins) Option {
	return func(c *Config) {
		c.publicKeyPins = append(c.publicKeyPins, pins)
	}
}

// WithPinningBypassForLocalTrustAnchors allows pins to be bypassed for
// certificates chaining to user-installed roots. Default is enabled.
func WithPinningBypassForLocalTrustAnchors(enable bool) Option {
	return func(c *Config) {
		c.pinningBypass = enable
	}
}

// WithNetworkThreadPriority sets the network thread priority. The range
// is platform specific; NaN keeps the platform default.
func WithNetworkThreadPriority(priority float64) Option {
	return func(c *Config) {
		c.networkThreadPriority = priority
	}
}

// WithExperimentalOptions passes a JSON object of experimental options.
func WithExperimentalOptions(json string) Option {
	return func(c *Config) {
		c.experimentalOptions = json
	}
}

// WithCheckResult controls whether the native library aborts the process
// on API misuse. Default is enabled; disable it to receive result codes
// instead.
func WithCheckResult(enable bool) Option {
	return func(c *Config) {
		c.checkResult = enable
	}
}

// validate rejects configurations the native library would refuse with a
// less specific result code.
func (c *Config) validate() error {
	if c.cacheMode < CacheDisabled || c.cacheMode > CacheDisk {
		return fmt.Errorf("%w: cache mode %d", ErrInvalidOption, int(c.cacheMode))
	}
	if c.cacheMode.NeedsStorage() && c.storagePath == "" {
		return fmt.Errorf("%w: cache mode %s needs a storage path", ErrInvalidOption, c.cacheMode)
	}
	if c.cacheMaxSize < 0 {
		return fmt.Errorf("%w: negative cache size %d", ErrInvalidOption, c.cacheMaxSize)
	}
	for _, h := range c.quicHints {
		if h.Host == "" || strings.Contains(h.Host, ":") {
			return fmt.Errorf("%w: quic hint host %q", ErrInvalidOption, h.Host)
		}
		if h.Port <= 0 || h.Port > 65535 || h.AlternatePort <= 0 || h.AlternatePort > 65535 {
			return fmt.Errorf("%w: quic hint %s ports %d/%d", ErrInvalidOption, h.Host, h.Port, h.AlternatePort)
		}
	}
	for _, p := range c.publicKeyPins {
		if p.Host == "" || len(p.SHA256) == 0 {
			return fmt.Errorf("%w: public key pins for %q need a host and at least one hash", ErrInvalidOption, p.Host)
		}
	}
	return nil
}

// apply copies the configuration into a native parameter object.
func (c *Config) apply(p *ffi.EngineParams) {
	p.SetEnableCheckResult(c.checkResult)
	if c.userAgent != "" {
		p.SetUserAgent(c.userAgent)
	}
	if c.acceptLanguage != "" {
		p.SetAcceptLanguage(c.acceptLanguage)
	}
	if c.storagePath != "" {
		p.SetStoragePath(c.storagePath)
	}
	p.SetEnableQuic(c.enableQuic)
	p.SetEnableHTTP2(c.enableHTTP2)
	p.SetEnableBrotli(c.enableBrotli)
	p.SetHTTPCacheMode(ffi.CacheMode(c.cacheMode))
	p.SetHTTPCacheMaxSize(c.cacheMaxSize)
	for _, h := range c.quicHints {
		p.AddQuicHint(h.Host, h.Port, h.AlternatePort)
	}
	for _, pins := range c.publicKeyPins {
		hashes := make([]string, len(pins.SHA256))
		for i, h := range pins.SHA256 {
			hashes[i] = "sha256/" + strings.TrimPrefix(h, "sha256/")
		}
		p.AddPublicKeyPins(pins.Host, hashes, pins.IncludeSubdomains, pins.ExpirationMs)
	}
	p.SetPublicKeyPinningBypass(c.pinningBypass)
	p.SetNetworkThreadPriority(c.networkThreadPriority)
	if c.experimentalOptions != "" {
		p.SetExperimentalOptions(c.experimentalOptions)
	}
}
