package blockdoc

import (
	"context"
	"sync"

	"github.com/derickschaefer/blockdoc/component"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Lookup resolves a reference id in an external list. It returns nil data
// and no error when the entity does not exist.
type Lookup interface {
	Lookup(ctx context.Context, listKey, id, selection string) (*RelationshipData, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, listKey, id, selection string) (*RelationshipData, error)

func (f LookupFunc) Lookup(ctx context.Context, listKey, id, selection string) (*RelationshipData, error) {
	return f(ctx, listKey, id, selection)
}

//
// Per-node resolution
//

// RelationshipLoader resolves the display data of relationship nodes while
// they are on screen. A fetch whose node was removed, cancelled or given a
// new id before it finished is discarded.
type RelationshipLoader struct {
	lookup   Lookup
	features *Features
	log      zerolog.Logger

	mu      sync.Mutex
	tickets map[*Node]*Ticket
}

// Ticket is one in-flight resolution.
type Ticket struct {
	l      *RelationshipLoader
	node   *Node
	id     string
	cfg    RelationshipConfig
	ctx    context.Context
	cancel context.CancelFunc
}

// LoadResult is the outcome of a Ticket's fetch. Data is nil when the
// entity was not found or the fetch failed.
type LoadResult struct {
	ticket *Ticket
	Data   *RelationshipData
	Err    error
}

// NewRelationshipLoader creates a loader for the relationships configured
// in features.
func NewRelationshipLoader(lookup Lookup, features *Features, log zerolog.Logger) *RelationshipLoader {
	return &RelationshipLoader{
		lookup:   lookup,
		features: features,
		log:      log,
		tickets:  make(map[*Node]*Ticket),
	}
}

// Begin starts a resolution for n, superseding any earlier one. It returns
// nil when n has no id or its relationship is not configured.
func (l *RelationshipLoader) Begin(ctx context.Context, n *Node) *Ticket {
	if n.Type != TypeRelationship || n.Data == nil || n.Data.ID == "" {
		return nil
	}
	cfg, ok := l.features.Relationships[n.Relationship]
	if !ok {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &Ticket{l: l, node: n, id: n.Data.ID, cfg: cfg, ctx: ctx, cancel: cancel}

	l.mu.Lock()
	if prev := l.tickets[n]; prev != nil {
		prev.cancel()
	}
	l.tickets[n] = t
	l.mu.Unlock()
	return t
}

// Fetch performs the lookup. It is safe to call from another goroutine.
func (t *Ticket) Fetch() LoadResult {
	data, err := t.l.lookup.Lookup(t.ctx, t.cfg.ListKey, t.id, t.cfg.Selection)
	return LoadResult{ticket: t, Data: data, Err: err}
}

// Cancel abandons the resolution.
func (t *Ticket) Cancel() {
	t.cancel()
	t.l.mu.Lock()
	if t.l.tickets[t.node] == t {
		delete(t.l.tickets, t.node)
	}
	t.l.mu.Unlock()
}

// Commit applies res to its node if its ticket is still current and the
// node still carries the same id. Failed fetches leave only the id.
func (l *RelationshipLoader) Commit(res LoadResult) bool {
	t := res.ticket
	if t == nil {
		return false
	}
	l.mu.Lock()
	current := l.tickets[t.node] == t
	if current {
		delete(l.tickets, t.node)
	}
	l.mu.Unlock()
	cancelled := t.ctx.Err() != nil
	t.cancel()

	if !current || cancelled {
		return false
	}
	if t.node.Data == nil || t.node.Data.ID != t.id {
		return false
	}
	if res.Err != nil {
		l.log.Warn().Err(res.Err).Str("relationship", t.node.Relationship).Str("id", t.id).Msg("relationship lookup failed")
	}
	t.node.Data = resolved(t.id, res.Data, res.Err)
	return true
}

// Forget cancels any resolution for a node that left the document.
func (l *RelationshipLoader) Forget(n *Node) {
	l.mu.Lock()
	t := l.tickets[n]
	delete(l.tickets, n)
	l.mu.Unlock()
	if t != nil {
		t.cancel()
	}
}

// Pending returns the number of unresolved tickets.
func (l *RelationshipLoader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tickets)
}

func resolved(id string, data *RelationshipData, err error) *RelationshipData {
	if err != nil || data == nil {
		return &RelationshipData{ID: id}
	}
	out := *data
	out.ID = id
	return &out
}

//
// Document hydration
//

// DefaultHydrateLimit bounds concurrent lookups during Hydrate.
const DefaultHydrateLimit = 8

// HydrateOption configures Hydrate.
type HydrateOption func(*hydrateConfig)

type hydrateConfig struct {
	limit      int
	log        zerolog.Logger
	components component.Registry
}

// WithHydrateLimit sets the number of concurrent lookups.
func WithHydrateLimit(n int) HydrateOption {
	return func(c *hydrateConfig) { c.limit = n }
}

// WithHydrateLogger logs lookup failures.
func WithHydrateLogger(l zerolog.Logger) HydrateOption {
	return func(c *hydrateConfig) { c.log = l }
}

// WithHydrateComponents also resolves relationship fields in the props of
// component blocks declared in r.
func WithHydrateComponents(r component.Registry) HydrateOption {
	return func(c *hydrateConfig) { c.components = r }
}

type hydrateJob struct {
	listKey, id, selection string
	apply                  func(*RelationshipData, error)
}

// Hydrate returns a copy of doc whose relationship references carry their
// display data. Failed lookups leave the bare id; only cancellation of ctx
// is returned as an error.
func Hydrate(ctx context.Context, doc Document, lookup Lookup, features *Features, opts ...HydrateOption) (Document, error) {
	cfg := hydrateConfig{limit: DefaultHydrateLimit, log: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}
	if features == nil {
		features = AllFeatures()
	}
	out := doc.Clone()

	var jobs []hydrateJob
	var finish []func()
	_ = Walk(out, func(n *Node) error {
		switch n.Type {
		case TypeRelationship:
			rc, ok := features.Relationships[n.Relationship]
			if !ok || n.Data == nil || n.Data.ID == "" {
				return nil
			}
			n := n
			id := n.Data.ID
			jobs = append(jobs, hydrateJob{
				listKey: rc.ListKey, id: id, selection: rc.Selection,
				apply: func(d *RelationshipData, err error) { n.Data = resolved(id, d, err) },
			})
		case TypeComponentBlock:
			b, ok := cfg.components.Lookup(n.Component)
			if !ok {
				return nil
			}
			value, err := componentValue(b, n)
			if err != nil {
				return nil
			}
			n := n
			component.VisitRefs(b.Schema, value, func(r *component.Relationship, ref *component.Ref) {
				jobs = append(jobs, hydrateJob{
					listKey: r.ListKey, id: ref.ID, selection: r.Selection,
					apply: func(d *RelationshipData, err error) {
						ref.Missing = err == nil && d == nil
						if d != nil && err == nil {
							ref.Label, ref.Data = d.Label, d.Data
						}
					},
				})
			})
			finish = append(finish, func() {
				n.Props, _ = component.ToProps(b.Schema, value).(map[string]any)
			})
		}
		return nil
	})

	type result struct {
		data *RelationshipData
		err  error
	}
	results := make([]result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.limit > 0 {
		g.SetLimit(cfg.limit)
	}
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := lookup.Lookup(gctx, j.listKey, j.id, j.selection)
			results[i] = result{data: d, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, j := range jobs {
		r := results[i]
		if r.err != nil {
			cfg.log.Warn().Err(r.err).Str("list", j.listKey).Str("id", j.id).Msg("relationship lookup failed")
		}
		j.apply(r.data, r.err)
	}
	for _, fn := range finish {
		fn()
	}
	return out, nil
}
