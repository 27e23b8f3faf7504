package zone

import (
	"go.uber.org/zap"

	"github.com/xivgo/server/internal/inventory"
	"github.com/xivgo/server/internal/ipc"
)

// handleItemOperation evaluates one client inventory command and answers
// with per-slot ItemInfo updates wrapped in ContainerInfo delimiters.
func (c *Connection) handleItemOperation(p *ipc.ItemOperation) {
	inv := c.player.Inventory

	var err error
	switch p.Op {
	case inventory.OperationMove:
		err = inv.Move(p.Src.Container, p.Src.Index, p.Dst.Container, p.Dst.Index)
	case inventory.OperationSwap:
		err = inv.Swap(p.Src.Container, p.Src.Index, p.Dst.Container, p.Dst.Index)
	case inventory.OperationMerge:
		err = inv.Merge(p.Src.Container, p.Src.Index, p.Dst.Container, p.Dst.Index)
	case inventory.OperationSplit:
		err = inv.Split(p.Src.Container, p.Src.Index, p.Dst.Container, p.Dst.Index, p.Dst.Stack)
	case inventory.OperationDiscard:
		// Discarded stacks land on the buy-back list before vanishing.
		item := inv.Container(p.Src.Container).GetSlot(int(p.Src.Index))
		if !item.IsEmpty() {
			c.player.BuyBack = append(c.player.BuyBack, item)
		}
		err = inv.Discard(p.Src.Container, p.Src.Index)
	default:
		c.log.Warn("未知的物品操作", zap.Uint8("op", uint8(p.Op)))
		c.nack(20, "unsupported item operation")
		return
	}
	if err != nil {
		// Business failure: tell the client, keep the connection.
		c.log.Debug("物品操作失敗", zap.String("op", p.Op.String()), zap.Error(err))
		c.nack(21, err.Error())
		return
	}

	c.sendSlotUpdate(p.ContextID, p.Src.Container, p.Src.Index)
	if p.Op != inventory.OperationDiscard {
		c.sendSlotUpdate(p.ContextID, p.Dst.Container, p.Dst.Index)
	}

	// Operations touching the equipped container change the displayed gear.
	if p.Src.Container == inventory.ContainerEquipped || p.Dst.Container == inventory.ContainerEquipped {
		c.sendEquipDisplay()
	}
}

// sendSlotUpdate emits one changed slot between ContainerInfo delimiters.
func (c *Connection) sendSlotUpdate(contextID uint32, ct inventory.ContainerType, index uint16) {
	storage := c.player.Inventory.Container(ct)
	if storage == nil {
		return
	}
	c.sendIpc(&ipc.ContainerInfo{
		Context:       contextID,
		NumItems:      uint32(storage.NumItems()),
		Container:     uint32(ct),
		StartOrFinish: 0,
	})
	item := storage.GetSlot(int(index))
	c.sendIpc(&ipc.ItemInfo{
		Context:   contextID,
		Container: ct,
		Slot:      index,
		Quantity:  item.Quantity,
		CatalogID: item.ID,
		Condition: item.Condition,
		GlamourID: item.GlamourID,
	})
	c.sendIpc(&ipc.ContainerInfo{
		Context:       contextID,
		NumItems:      uint32(storage.NumItems()),
		Container:     uint32(ct),
		StartOrFinish: 1,
	})
}

// sendEquipDisplay refreshes the displayed gear models from the equipped
// container.
func (c *Connection) sendEquipDisplay() {
	equipped := c.player.Inventory.Container(inventory.ContainerEquipped)
	var equip ipc.Equip
	equip.MainWeapon = uint64(equipped.GetSlot(0).ID)
	equip.SubWeapon = uint64(equipped.GetSlot(1).ID)
	for i := 0; i < len(equip.Models); i++ {
		equip.Models[i] = equipped.GetSlot(i + 2).ID
	}
	c.sendIpc(&equip)
}
