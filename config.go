package async

import "runtime"

// Config holds the configuration for a ThreadPool. Construct one with
// DefaultConfig and Option functions rather than a struct literal so
// future fields default sensibly.
type Config struct {
	// NumWorkers is the number of persistent worker goroutines started
	// by Start. If 0, Start uses runtime.NumCPU().
	NumWorkers int

	// QueueSize bounds the pool's single FIFO task queue. Submit blocks
	// once the queue is full. If 0, defaults to 256.
	QueueSize int

	// PanicHandler is invoked, in addition to the pool's Logger, when a
	// submitted runnable panics. May be nil.
	PanicHandler func(any)

	// Logger receives diagnostic events from the pool and from
	// AsyncResult continuations scheduled through it. Defaults to a
	// slog-backed logger writing to stderr.
	Logger Logger
}

// Option configures a Config.
type Option func(*Config)

// DefaultConfig returns a Config with sensible defaults: NumWorkers=0
// (meaning runtime.NumCPU() at Start), QueueSize=256, and the package
// default Logger.
func DefaultConfig() Config {
	return Config{
		NumWorkers: 0,
		QueueSize:  256,
		Logger:     newDefaultLogger(),
	}
}

// WithNumWorkers sets the fixed number of worker goroutines. A value of
// 0 means runtime.NumCPU().
func WithNumWorkers(n int) Option {
	return func(c *Config) { c.NumWorkers = n }
}

// WithQueueSize sets the bound on the pool's task queue.
func WithQueueSize(n int) Option {
	return func(c *Config) { c.QueueSize = n }
}

// WithPanicHandler installs a callback invoked whenever a runnable
// panics and that panic reaches the pool's own recovery in execute.
// Runnables produced by CallAsync and MakeAsync never reach it: their
// panics are already recovered and turned into a PanicError on the
// associated Promise before execute ever sees them. This hook exists
// for runnables submitted directly via Submit/SubmitFunc/TrySubmit.
func WithPanicHandler(h func(any)) Option {
	return func(c *Config) { c.PanicHandler = h }
}

// WithLogger overrides the pool's diagnostic sink.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// Validate checks the configuration and returns a ContractMisuse error
// if it is invalid.
func (c *Config) Validate() error {
	if c.NumWorkers < 0 {
		return errInvalidConfig("NumWorkers must be >= 0")
	}
	if c.QueueSize < 0 {
		return errInvalidConfig("QueueSize must be >= 0")
	}
	return nil
}

func (c *Config) resolvedWorkers() int {
	if c.NumWorkers > 0 {
		return c.NumWorkers
	}
	return runtime.NumCPU()
}

func (c *Config) resolvedQueueSize() int {
	if c.QueueSize > 0 {
		return c.QueueSize
	}
	return 256
}
