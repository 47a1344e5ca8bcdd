package rover

import (
	"sync"
	"testing"

	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/stretchr/testify/assert"
)

type publishLog struct {
	mu     sync.Mutex
	events []geo.Node
}

func (p *publishLog) Publish(n geo.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, n)
}

func TestNew_DoesNotPublishStart(t *testing.T) {
	log := &publishLog{}
	r := New(geo.N(0, 0), log)
	assert.Equal(t, geo.N(0, 0), r.Location())
	assert.Empty(t, log.events)
}

func TestSetLocation_PublishesEveryChange(t *testing.T) {
	log := &publishLog{}
	r := New(geo.N(0, 0), log)

	r.SetLocation(geo.N(1, 0))
	r.SetLocation(geo.N(2, 0))
	r.SetLocation(geo.N(2, 0))

	assert.Equal(t, geo.N(2, 0), r.Location())
	assert.Equal(t, []geo.Node{geo.N(1, 0), geo.N(2, 0), geo.N(2, 0)}, log.events)
}

func TestSetLocation_NilPublisher(t *testing.T) {
	r := New(geo.N(0, 0), nil)
	r.SetLocation(geo.N(3, 3))
	assert.Equal(t, geo.N(3, 3), r.Location())
}

func TestSetLocation_ConcurrentWritersStayConsistent(t *testing.T) {
	log := &publishLog{}
	r := New(geo.N(0, 0), log)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.SetLocation(geo.N(i, i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, log.events, 20)
	// The last published event is always the final location.
	assert.Equal(t, log.events[len(log.events)-1], r.Location())
}
