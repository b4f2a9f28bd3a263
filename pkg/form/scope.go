package form

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/schedule"
	"github.com/goliatone/go-formguard/pkg/shareid"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// Observer receives validation timings. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveValidation(component string, result validity.Result, elapsed time.Duration)
	ObserveSubmit(passed bool, elapsed time.Duration)
}

// Placeholders are the custom validity messages shown while an async
// revalidation is pending and after it failed.
type Placeholders struct {
	Validating string
	Failed     string
}

// DefaultPlaceholders returns the stock revalidation messages.
func DefaultPlaceholders() Placeholders {
	return Placeholders{Validating: "Validating......", Failed: "Failed......"}
}

type environment struct {
	ticker       schedule.Ticker
	logger       *slog.Logger
	observer     Observer
	debounce     time.Duration
	placeholders Placeholders
}

// ScopeOption configures the shared environment of a component tree.
type ScopeOption func(*environment)

// WithLogger sets the logger components report to.
func WithLogger(logger *slog.Logger) ScopeOption {
	return func(env *environment) {
		if logger != nil {
			env.logger = logger
		}
	}
}

// WithTicker sets the next-tick hook used before moving focus.
func WithTicker(ticker schedule.Ticker) ScopeOption {
	return func(env *environment) {
		if ticker != nil {
			env.ticker = ticker
		}
	}
}

// WithObserver installs a validation observer, e.g. a metrics collector.
func WithObserver(observer Observer) ScopeOption {
	return func(env *environment) {
		env.observer = observer
	}
}

// WithDebounce sets the quiet period before input triggers validation.
func WithDebounce(interval time.Duration) ScopeOption {
	return func(env *environment) {
		if interval > 0 {
			env.debounce = interval
		}
	}
}

// WithPlaceholders overrides the revalidation messages.
func WithPlaceholders(p Placeholders) ScopeOption {
	return func(env *environment) {
		if p.Validating != "" {
			env.placeholders.Validating = p.Validating
		}
		if p.Failed != "" {
			env.placeholders.Failed = p.Failed
		}
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func defaultEnvironment() *environment {
	return &environment{
		ticker:       schedule.Immediate,
		logger:       discardLogger,
		debounce:     schedule.DefaultDebounce,
		placeholders: DefaultPlaceholders(),
	}
}

// Scope is the immutable context a container hands to its children. Every
// field a container does not set falls back to the value of its own parent,
// and inherited flags set by an ancestor take precedence over the props of
// the component that reads them.
type Scope struct {
	env  *environment
	host *dom.Element
	ids  shareid.Fetcher

	novalidate *bool
	required   *bool
	disabled   *bool
	size       Size
	name       string

	manager  validity.Manager
	reporter validity.Reporter
	delegate func(context.Context)

	groupStatus    *validity.StatusTracker
	errorMessageID string
}

// NewScope returns a root scope. Components built from it mount under a
// detached host element unless a Form is created first.
func NewScope(opts ...ScopeOption) Scope {
	env := defaultEnvironment()
	for _, opt := range opts {
		if opt != nil {
			opt(env)
		}
	}
	return Scope{env: env, host: dom.New("div")}
}

func (s Scope) environment() *environment {
	if s.env == nil {
		return defaultEnvironment()
	}
	return s.env
}

// Logger returns the logger of the tree.
func (s Scope) Logger() *slog.Logger {
	return s.environment().logger
}

// Ticker returns the next-tick hook of the tree.
func (s Scope) Ticker() schedule.Ticker {
	return s.environment().ticker
}

// Host returns the element children mount under.
func (s Scope) Host() *dom.Element {
	return s.host
}

// Register adds a custom action to the nearest collecting ancestor and
// returns the func that removes it. It is a no-op outside such an ancestor.
func (s Scope) Register(action validity.Action, id string) func() {
	if s.manager == nil || action == nil {
		return func() {}
	}
	s.manager.AddAction(action, id)
	return func() { s.manager.RemoveAction(id) }
}

func (s Scope) fetchID() string {
	if s.ids == nil {
		return ""
	}
	return s.ids.Fetch()
}

func (s Scope) provider() shareid.Provider {
	if s.ids == nil {
		return shareid.ProviderNone
	}
	return s.ids.Provider()
}

func (s Scope) attach(el *dom.Element) {
	if s.host == nil || el == nil {
		return
	}
	s.host.Append(el)
}

func (s Scope) register(action validity.Action, id string) {
	if s.manager == nil {
		return
	}
	s.manager.AddAction(action, id)
}

func (s Scope) deregister(id string) {
	if s.manager == nil {
		return
	}
	s.manager.RemoveAction(id)
}

func (s Scope) report() validity.Reporter {
	if s.reporter == nil {
		return validity.NopReporter{}
	}
	return s.reporter
}

func (s Scope) delegateValidation(ctx context.Context) {
	if s.delegate != nil {
		s.delegate(ctx)
	}
}

func (s Scope) observeValidation(kind string, result validity.Result, started time.Time) {
	env := s.environment()
	if env.observer != nil {
		env.observer.ObserveValidation(kind, result, time.Since(started))
	}
}

func (s Scope) observeSubmit(passed bool, started time.Time) {
	env := s.environment()
	if env.observer != nil {
		env.observer.ObserveSubmit(passed, time.Since(started))
	}
}

func (s Scope) novalidateOr(local bool) bool {
	if s.novalidate != nil {
		return *s.novalidate
	}
	return local
}

func (s Scope) requiredOr(local bool) bool {
	if s.required != nil {
		return *s.required
	}
	return local
}

func (s Scope) disabledOr(local bool) bool {
	if s.disabled != nil {
		return *s.disabled
	}
	return local
}

func (s Scope) sizeOr(local Size) Size {
	if s.size != "" {
		return s.size
	}
	return local
}

func (s Scope) nameOr(local string) string {
	if s.name != "" {
		return s.name
	}
	return local
}

func boolRef(v bool) *bool {
	return &v
}
