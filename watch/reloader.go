package watch

import (
	"path/filepath"
	"sync"

	"github.com/milk9111/svgworld/compiler"
	"github.com/milk9111/svgworld/physics"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Reload is the outcome of recompiling a changed document. Exactly one of
// Data and Err is set.
type Reload struct {
	Path string
	Data *physics.WorldData
	Err  error
}

// Reloader recompiles one document whenever it changes on disk.
type Reloader struct {
	path     string
	watcher  *Watcher
	compile  []compiler.Option
	watchOps []WatcherOption
	log      zerolog.Logger
	reloads  chan Reload
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// WithLogger sets the reloader's logger.
func WithLogger(l zerolog.Logger) ReloaderOption {
	return func(r *Reloader) {
		r.log = l.With().Str("component", "watch").Logger()
	}
}

// WithCompilerOptions passes opts to every compilation.
func WithCompilerOptions(opts ...compiler.Option) ReloaderOption {
	return func(r *Reloader) {
		r.compile = append(r.compile, opts...)
	}
}

// WithWatcherOptions configures the underlying Watcher.
func WithWatcherOptions(opts ...WatcherOption) ReloaderOption {
	return func(r *Reloader) {
		r.watchOps = append(r.watchOps, opts...)
	}
}

// NewReloader watches the document at path.
func NewReloader(path string, opts ...ReloaderOption) (*Reloader, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, eris.Wrapf(err, "watch: resolve %s", path)
	}

	r := &Reloader{
		path:    filepath.Clean(abs),
		log:     log.With().Str("component", "watch").Logger(),
		reloads: make(chan Reload, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	match := func(name string) bool {
		return filepath.Clean(name) == r.path
	}
	w, err := NewWatcher([]string{filepath.Dir(r.path)}, append(r.watchOps, WithMatch(match))...)
	if err != nil {
		return nil, err
	}
	r.watcher = w

	go r.loop()
	return r, nil
}

// Path returns the absolute path of the watched document.
func (r *Reloader) Path() string {
	return r.path
}

// Reloads delivers one Reload per settled change. It is closed by Close.
func (r *Reloader) Reloads() <-chan Reload {
	return r.reloads
}

// Close stops watching.
func (r *Reloader) Close() error {
	var err error
	r.once.Do(func() {
		close(r.stop)
		err = r.watcher.Close()
		<-r.done
	})
	return err
}

func (r *Reloader) loop() {
	defer close(r.done)
	defer close(r.reloads)

	for {
		select {
		case name, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			select {
			case r.reloads <- r.reload(name):
			case <-r.stop:
				return
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (r *Reloader) reload(name string) Reload {
	data, err := compiler.CompileFile(name, r.compile...)
	if err != nil {
		r.log.Warn().Err(err).Str("path", name).Msg("reload failed")
		return Reload{Path: name, Err: err}
	}
	r.log.Info().Str("path", name).Int("bodies", len(data.BodyMap)).Msg("document reloaded")
	return Reload{Path: name, Data: data}
}
