package runner

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/svgworld/physics"
	"github.com/rotisserie/eris"
)

// JointRequest asks for a joint to be created at the next flush. Nil
// anchors default to the body centers.
type JointRequest struct {
	ID      string
	Kind    physics.JointKind
	Body1   string
	Body2   string
	Anchor1 *cp.Vector
	Anchor2 *cp.Vector
}

// JointQueue buffers joint requests made while the space is locked, such
// as from contact handlers, and realizes them between steps.
type JointQueue struct {
	items []JointRequest
}

// Enqueue adds a request.
func (q *JointQueue) Enqueue(req JointRequest) {
	if q == nil {
		return
	}
	q.items = append(q.items, req)
}

// Len returns the number of pending requests.
func (q *JointQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Pending returns a copy of the pending requests in flush order.
func (q *JointQueue) Pending() []JointRequest {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := make([]JointRequest, len(q.items))
	copy(out, q.items)
	return out
}

// Clear drops all pending requests.
func (q *JointQueue) Clear() {
	if q == nil {
		return
	}
	q.items = nil
}

// Flush realizes pending requests in the order they were enqueued. The
// first failing request is dropped and returned as an error; requests
// after it stay queued.
func (q *JointQueue) Flush(data *physics.WorldData) error {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	for i, req := range q.items {
		if err := realize(data, req); err != nil {
			q.items = q.items[i+1:]
			return err
		}
	}
	q.items = nil
	return nil
}

func realize(data *physics.WorldData, req JointRequest) error {
	b1, err := data.ResolveBody(req.ID, req.Body1)
	if err != nil {
		return err
	}
	b2, err := data.ResolveBody(req.ID, req.Body2)
	if err != nil {
		return err
	}

	j := &physics.Joint{
		ID:      req.ID,
		Kind:    req.Kind,
		Anchor:  anchorOr(req.Anchor1, b1),
		Anchor2: anchorOr(req.Anchor2, b2),
		Body1:   b1,
		Body2:   b2,
	}
	if err := data.World.AddJoint(j); err != nil {
		return eris.Wrapf(err, "joint request %q", req.ID)
	}
	if old, ok := data.JointMap[req.ID]; ok {
		data.World.RemoveJoint(old)
	}
	data.AddJoint(j)
	return nil
}

func anchorOr(p *cp.Vector, b *physics.Body) cp.Vector {
	if p != nil {
		return *p
	}
	return b.Center()
}
