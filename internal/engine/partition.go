package engine

import (
	"github.com/gamedex/tierboard/internal/models"
)

// Container identifies where an item currently lives: one of the five rank
// buckets or the unassigned pool.
type Container string

// ContainerPool is the unassigned pool.
const ContainerPool Container = "pool"

// ContainerFor returns the container backing a rank bucket.
func ContainerFor(r models.Rank) Container {
	return Container(r)
}

// Rank returns the bucket rank, or false for the pool and unknown containers.
func (c Container) Rank() (models.Rank, bool) {
	r := models.Rank(c)
	if r.Valid() {
		return r, true
	}
	return "", false
}

// Partition is the in-memory tier state for one catalog: the unassigned pool
// plus the five rank buckets. It is the single source of truth for where an
// item currently is, and it maintains the partition invariant: every catalog
// item lives in exactly one container at all times.
type Partition struct {
	catalog  map[int]models.Item
	order    []int // catalog ids in fetch order, for stable pool display
	pool     []int
	buckets  map[models.Rank][]int
	readOnly bool
}

// NewPartition returns a partition with the full catalog in the pool.
func NewPartition(catalog []models.Item) *Partition {
	p := &Partition{}
	p.Initialize(catalog)
	return p
}

// Initialize resets the partition against a catalog: the pool holds every
// catalog item and all buckets are empty.
func (p *Partition) Initialize(catalog []models.Item) {
	p.catalog = make(map[int]models.Item, len(catalog))
	p.order = make([]int, 0, len(catalog))
	for _, it := range catalog {
		if _, dup := p.catalog[it.ID]; dup {
			continue
		}
		p.catalog[it.ID] = it
		p.order = append(p.order, it.ID)
	}
	p.readOnly = false
	p.Reset()
}

// Reset empties every bucket and returns all catalog items to the pool.
func (p *Partition) Reset() {
	p.pool = append([]int(nil), p.order...)
	p.buckets = make(map[models.Rank][]int, len(models.Ranks()))
	for _, r := range models.Ranks() {
		p.buckets[r] = []int{}
	}
}

// LoadFromRecord resets the buckets to the record's stored assignment.
// Ids that no longer resolve against the catalog are dropped silently: the
// catalog may have changed since the record was saved, and keeping the
// remaining valid state beats failing the whole load. The pool becomes the
// catalog minus everything assigned.
func (p *Partition) LoadFromRecord(rec *models.TierlistRecord, catalog []models.Item) {
	p.Initialize(catalog)
	if rec == nil {
		return
	}
	assigned := make(map[int]bool)
	for _, r := range models.Ranks() {
		for _, id := range rec.Data[r] {
			if _, ok := p.catalog[id]; !ok {
				continue // catalog drift
			}
			if assigned[id] {
				continue
			}
			assigned[id] = true
			p.buckets[r] = append(p.buckets[r], id)
		}
	}
	pool := make([]int, 0, len(p.order))
	for _, id := range p.order {
		if !assigned[id] {
			pool = append(pool, id)
		}
	}
	p.pool = pool
}

// SetReadOnly gates mutations; set while viewing someone else's tierlist.
func (p *Partition) SetReadOnly(readOnly bool) {
	p.readOnly = readOnly
}

// ReadOnly reports whether mutations are currently refused.
func (p *Partition) ReadOnly() bool {
	return p.readOnly
}

// MoveItem removes the item from one container and appends it to another as
// a single state transition. Moving an item that is not in the source
// container is a no-op: a drag can race a reload, and the partition must
// never lose or duplicate an item over it. Targets that do not resolve to a
// rank bucket count as the pool.
func (p *Partition) MoveItem(itemID int, from, to Container) error {
	if p.readOnly {
		return models.ErrViewOnly
	}
	if from == to {
		return nil
	}
	if !p.take(from, itemID) {
		return nil
	}
	p.put(to, itemID)
	return nil
}

// take removes the item from a container, reporting whether it was there.
func (p *Partition) take(c Container, itemID int) bool {
	if r, ok := c.Rank(); ok {
		for i, id := range p.buckets[r] {
			if id == itemID {
				p.buckets[r] = append(p.buckets[r][:i], p.buckets[r][i+1:]...)
				return true
			}
		}
		return false
	}
	if c != ContainerPool {
		return false
	}
	for i, id := range p.pool {
		if id == itemID {
			p.pool = append(p.pool[:i], p.pool[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Partition) put(c Container, itemID int) {
	if r, ok := c.Rank(); ok {
		p.buckets[r] = append(p.buckets[r], itemID)
		return
	}
	p.pool = append(p.pool, itemID)
}

// Snapshot produces the persistable rank assignment. The pool is derived on
// load, so it is not included. Every rank key is always present.
func (p *Partition) Snapshot() models.TierData {
	data := models.NewTierData()
	for _, r := range models.Ranks() {
		data[r] = append(data[r], p.buckets[r]...)
	}
	return data
}

// Pool returns the unassigned items in display order.
func (p *Partition) Pool() []models.Item {
	return p.items(p.pool)
}

// Bucket returns the items assigned to a rank.
func (p *Partition) Bucket(r models.Rank) []models.Item {
	return p.items(p.buckets[r])
}

func (p *Partition) items(ids []int) []models.Item {
	out := make([]models.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.catalog[id])
	}
	return out
}

// ContainerOf reports which container currently holds the item.
func (p *Partition) ContainerOf(itemID int) (Container, bool) {
	for _, id := range p.pool {
		if id == itemID {
			return ContainerPool, true
		}
	}
	for _, r := range models.Ranks() {
		for _, id := range p.buckets[r] {
			if id == itemID {
				return ContainerFor(r), true
			}
		}
	}
	return "", false
}

// Size returns the catalog size.
func (p *Partition) Size() int {
	return len(p.catalog)
}
