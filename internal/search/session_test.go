package search

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type gatedSearcher struct {
	honourCancel bool
	gates        map[string]chan struct{}
}

func newGatedSearcher(honourCancel bool, terms ...string) *gatedSearcher {
	g := &gatedSearcher{honourCancel: honourCancel, gates: make(map[string]chan struct{})}
	for _, term := range terms {
		g.gates[term] = make(chan struct{})
	}
	return g
}

func (g *gatedSearcher) Search(ctx context.Context, term string) (*ResultSet, error) {
	if g.honourCancel {
		select {
		case <-g.gates[term]:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else {
		<-g.gates[term]
	}
	return &ResultSet{Term: term, Locations: map[string]*LocationResult{}}, nil
}

type recorder struct {
	mu    sync.Mutex
	terms []string
	errs  []error
}

func (r *recorder) deliver(rs *ResultSet, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.errs = append(r.errs, err)
		return
	}
	r.terms = append(r.terms, rs.Term)
}

func TestSession_DropsCancelledQuery(t *testing.T) {
	searcher := newGatedSearcher(true, "iron", "glass")
	session := NewSession(searcher)
	rec := &recorder{}

	first := session.Submit(context.Background(), "iron", rec.deliver)
	second := session.Submit(context.Background(), "glass", rec.deliver)
	assert.Greater(t, second, first)

	close(searcher.gates["glass"])
	session.Wait()

	assert.Equal(t, []string{"glass"}, rec.terms)
	assert.Empty(t, rec.errs)
}

func TestSession_DropsStaleCompletion(t *testing.T) {
	searcher := newGatedSearcher(false, "iron", "glass")
	session := NewSession(searcher)
	rec := &recorder{}

	session.Submit(context.Background(), "iron", rec.deliver)
	session.Submit(context.Background(), "glass", rec.deliver)

	close(searcher.gates["iron"])
	close(searcher.gates["glass"])
	session.Wait()

	assert.Equal(t, []string{"glass"}, rec.terms)
}

func TestSession_DeliversWithCache(t *testing.T) {
	session := NewSession(NewCache(torchCatalog()))
	rec := &recorder{}

	session.Submit(context.Background(), "torch", rec.deliver)
	session.Wait()
	assert.Equal(t, []string{"torch"}, rec.terms)
	assert.Equal(t, uint64(1), session.Generation())
}

func TestSession_Close(t *testing.T) {
	searcher := newGatedSearcher(true, "iron")
	session := NewSession(searcher)
	rec := &recorder{}

	session.Submit(context.Background(), "iron", rec.deliver)
	session.Close()

	assert.Empty(t, rec.terms)
	assert.Empty(t, rec.errs)
}
