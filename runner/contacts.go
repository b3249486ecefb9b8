package runner

import (
	"github.com/milk9111/svgworld/physics"
	"github.com/rs/zerolog"
)

// Wildcard as the second body of a subscription matches any body.
const Wildcard = "*"

// ContactHandler receives contact notifications for a subscription. The
// bodies arrive in the order the subscription named them.
type ContactHandler interface {
	ContactStart(a, b *physics.Body, scope any)
	ContactEnd(a, b *physics.Body, scope any)
}

// ContactFuncs adapts plain functions to ContactHandler. Either may be nil.
type ContactFuncs struct {
	Start func(a, b *physics.Body, scope any)
	End   func(a, b *physics.Body, scope any)
}

func (f ContactFuncs) ContactStart(a, b *physics.Body, scope any) {
	if f.Start != nil {
		f.Start(a, b, scope)
	}
}

func (f ContactFuncs) ContactEnd(a, b *physics.Body, scope any) {
	if f.End != nil {
		f.End(a, b, scope)
	}
}

// Subscription names the bodies a handler listens to.
type Subscription struct {
	A       string
	B       string
	Handler ContactHandler
	Scope   any

	a, b     *physics.Body
	resolved bool
}

func (s *Subscription) wildcard() bool {
	return s.B == Wildcard
}

// match returns the pair in subscription order when s covers (x, y).
func (s *Subscription) match(x, y *physics.Body) (*physics.Body, *physics.Body, bool) {
	if !s.resolved {
		return nil, nil, false
	}
	if s.a == x && (s.wildcard() || s.b == y) {
		return x, y, true
	}
	if s.a == y && (s.wildcard() || s.b == x) {
		return y, x, true
	}
	return nil, nil, false
}

// ContactRegistry routes world contact events to subscriptions in
// registration order. It implements physics.ContactListener.
type ContactRegistry struct {
	log  zerolog.Logger
	subs []*Subscription
	data *physics.WorldData
}

// NewContactRegistry returns an empty registry.
func NewContactRegistry(log zerolog.Logger) *ContactRegistry {
	return &ContactRegistry{log: log}
}

// Add registers a subscription. Once a world is resolved, new
// subscriptions are resolved against it immediately.
func (r *ContactRegistry) Add(sub *Subscription) {
	if sub == nil || sub.Handler == nil {
		return
	}
	r.subs = append(r.subs, sub)
	if r.data != nil {
		r.resolve(sub)
	}
}

// Len returns the number of subscriptions.
func (r *ContactRegistry) Len() int {
	return len(r.subs)
}

// Resolve binds every subscription to the bodies of data. Subscriptions
// naming a body that does not exist stay inert.
func (r *ContactRegistry) Resolve(data *physics.WorldData) {
	r.data = data
	for _, sub := range r.subs {
		r.resolve(sub)
	}
}

func (r *ContactRegistry) resolve(sub *Subscription) {
	sub.a, sub.b, sub.resolved = nil, nil, false

	a, ok := r.data.Body(sub.A)
	if !ok {
		r.log.Warn().Str("body", sub.A).Msg("contact subscription names an unknown body")
		return
	}
	if !sub.wildcard() {
		b, ok := r.data.Body(sub.B)
		if !ok {
			r.log.Warn().Str("body", sub.B).Msg("contact subscription names an unknown body")
			return
		}
		sub.b = b
	}
	sub.a = a
	sub.resolved = true
}

// BeginContact dispatches a contact start.
func (r *ContactRegistry) BeginContact(x, y *physics.Body) {
	for _, sub := range r.subs {
		if a, b, ok := sub.match(x, y); ok {
			sub.Handler.ContactStart(a, b, sub.Scope)
		}
	}
}

// EndContact dispatches a contact end.
func (r *ContactRegistry) EndContact(x, y *physics.Body) {
	for _, sub := range r.subs {
		if a, b, ok := sub.match(x, y); ok {
			sub.Handler.ContactEnd(a, b, sub.Scope)
		}
	}
}
