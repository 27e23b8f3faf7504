package inventory

import "fmt"

// Default container capacities.
const (
	BagCapacity      = 35
	EquippedCapacity = 14
	CurrencyCapacity = 1
	ArmoryCapacity   = 35
)

// Inventory is the full container set of one player.
type Inventory struct {
	containers map[ContainerType]*Storage
}

// New returns a player inventory with every standard container allocated.
func New() *Inventory {
	inv := &Inventory{containers: make(map[ContainerType]*Storage)}
	for _, c := range BagOrder {
		inv.containers[c] = NewStorage(capacityOf(c))
	}
	inv.containers[ContainerSaddleBag0] = NewStorage(BagCapacity)
	inv.containers[ContainerSaddleBag1] = NewStorage(BagCapacity)
	return inv
}

func capacityOf(c ContainerType) int {
	switch c {
	case ContainerEquipped:
		return EquippedCapacity
	case ContainerCurrency:
		return CurrencyCapacity
	default:
		return BagCapacity
	}
}

// Container returns the storage for c, or nil for an unknown container.
func (inv *Inventory) Container(c ContainerType) *Storage {
	return inv.containers[c]
}

// Each walks the containers in canonical order.
func (inv *Inventory) Each(fn func(ContainerType, *Storage)) {
	for _, c := range BagOrder {
		if s := inv.containers[c]; s != nil {
			fn(c, s)
		}
	}
}

// slotRef resolves a container/index pair to a mutable slot.
func (inv *Inventory) slotRef(c ContainerType, index uint16) (*Item, error) {
	s := inv.containers[c]
	if s == nil {
		return nil, fmt.Errorf("unknown container %s", c)
	}
	slot := s.GetSlotMut(int(index))
	if slot == nil {
		return nil, fmt.Errorf("slot %d out of range for %s", index, c)
	}
	return slot, nil
}

// Move relocates the stack at src to dst. An occupied destination of the
// same catalog id merges when the combined quantity fits the stack size.
func (inv *Inventory) Move(srcC ContainerType, srcIdx uint16, dstC ContainerType, dstIdx uint16) error {
	src, err := inv.slotRef(srcC, srcIdx)
	if err != nil {
		return err
	}
	dst, err := inv.slotRef(dstC, dstIdx)
	if err != nil {
		return err
	}
	if src.IsEmpty() {
		return fmt.Errorf("move from empty slot %s[%d]", srcC, srcIdx)
	}
	if dst.IsEmpty() {
		*dst = *src
		*src = Item{}
		return nil
	}
	if dst.ID == src.ID && dst.Quantity+src.Quantity <= dst.StackSize {
		dst.Quantity += src.Quantity
		*src = Item{}
		return nil
	}
	return fmt.Errorf("move destination %s[%d] occupied", dstC, dstIdx)
}

// Swap exchanges the stacks at src and dst.
func (inv *Inventory) Swap(srcC ContainerType, srcIdx uint16, dstC ContainerType, dstIdx uint16) error {
	src, err := inv.slotRef(srcC, srcIdx)
	if err != nil {
		return err
	}
	dst, err := inv.slotRef(dstC, dstIdx)
	if err != nil {
		return err
	}
	if src.IsEmpty() {
		return fmt.Errorf("swap from empty slot %s[%d]", srcC, srcIdx)
	}
	*src, *dst = *dst, *src
	return nil
}

// Merge combines the src stack into dst. Catalog ids must match and the
// combined quantity must fit the destination stack size.
func (inv *Inventory) Merge(srcC ContainerType, srcIdx uint16, dstC ContainerType, dstIdx uint16) error {
	src, err := inv.slotRef(srcC, srcIdx)
	if err != nil {
		return err
	}
	dst, err := inv.slotRef(dstC, dstIdx)
	if err != nil {
		return err
	}
	if src.IsEmpty() || dst.IsEmpty() {
		return fmt.Errorf("merge needs two occupied slots")
	}
	if src.ID != dst.ID {
		return fmt.Errorf("merge of different items %d and %d", src.ID, dst.ID)
	}
	if dst.Quantity+src.Quantity > dst.StackSize {
		return fmt.Errorf("merge overflows stack size %d", dst.StackSize)
	}
	dst.Quantity += src.Quantity
	*src = Item{}
	return nil
}

// Split moves quantity items from src into an empty dst slot.
func (inv *Inventory) Split(srcC ContainerType, srcIdx uint16, dstC ContainerType, dstIdx uint16, quantity uint32) error {
	src, err := inv.slotRef(srcC, srcIdx)
	if err != nil {
		return err
	}
	dst, err := inv.slotRef(dstC, dstIdx)
	if err != nil {
		return err
	}
	if src.IsEmpty() {
		return fmt.Errorf("split from empty slot %s[%d]", srcC, srcIdx)
	}
	if !dst.IsEmpty() {
		return fmt.Errorf("split destination %s[%d] occupied", dstC, dstIdx)
	}
	if quantity == 0 || quantity >= src.Quantity {
		return fmt.Errorf("split quantity %d out of range (stack holds %d)", quantity, src.Quantity)
	}
	*dst = *src
	dst.Quantity = quantity
	src.Quantity -= quantity
	return nil
}

// Discard zeroes the slot at src.
func (inv *Inventory) Discard(srcC ContainerType, srcIdx uint16) error {
	src, err := inv.slotRef(srcC, srcIdx)
	if err != nil {
		return err
	}
	if src.IsEmpty() {
		return fmt.Errorf("discard of empty slot %s[%d]", srcC, srcIdx)
	}
	*src = Item{}
	return nil
}

// AddItem places an item into the first free slot of the main bags.
func (inv *Inventory) AddItem(item Item) (ContainerType, int, error) {
	for _, c := range []ContainerType{ContainerInventory0, ContainerInventory1, ContainerInventory2, ContainerInventory3} {
		s := inv.containers[c]
		if idx := GetNextFreeSlot(s); idx >= 0 {
			*s.GetSlotMut(idx) = item
			return c, idx, nil
		}
	}
	return 0, 0, fmt.Errorf("inventory full")
}

// Gil returns the gil stack.
func (inv *Inventory) Gil() Item {
	return inv.containers[ContainerCurrency].GetSlot(0)
}

// SetGil overwrites the gil quantity.
func (inv *Inventory) SetGil(quantity uint32) {
	slot := inv.containers[ContainerCurrency].GetSlotMut(0)
	slot.ID = 1 // gil catalog id
	slot.Quantity = quantity
	slot.StackSize = 999_999_999
}
