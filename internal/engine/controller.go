package engine

import (
	"github.com/gamedex/tierboard/internal/models"
)

// Controller turns discrete drag gestures into partition moves. It is a
// two-state machine: idle, or carrying exactly one item.
type Controller struct {
	part     *Partition
	carrying int
	active   bool
}

// NewController returns an idle controller over a partition.
func NewController(p *Partition) *Controller {
	return &Controller{part: p}
}

// BeginMove picks up an item. It fails while the partition is view-only,
// while another item is already carried (the first carry wins until it is
// dropped), or when the item is not in the catalog.
func (c *Controller) BeginMove(itemID int) error {
	if c.part.ReadOnly() {
		return models.ErrViewOnly
	}
	if c.active {
		return models.ErrCarrying
	}
	if _, ok := c.part.ContainerOf(itemID); !ok {
		return models.ErrUnknownItem
	}
	c.carrying = itemID
	c.active = true
	return nil
}

// DropOn releases the carried item onto a target container. Dropping always
// returns the controller to idle whether or not a move happened; there is no
// cancel gesture. Targets that do not resolve to a rank bucket count as the
// pool, so an item dropped outside every bucket becomes unassigned.
func (c *Controller) DropOn(target Container) {
	if !c.active {
		return
	}
	itemID := c.carrying
	c.carrying = 0
	c.active = false

	from, ok := c.part.ContainerOf(itemID)
	if !ok {
		return
	}
	if _, isRank := target.Rank(); !isRank {
		target = ContainerPool
	}
	c.part.MoveItem(itemID, from, target)
}

// DropOutside drops the carried item outside every bucket, returning it to
// the pool.
func (c *Controller) DropOutside() {
	c.DropOn(ContainerPool)
}

// Carrying returns the id of the item being carried, if any.
func (c *Controller) Carrying() (int, bool) {
	return c.carrying, c.active
}
