package inventory

import "fmt"

// ContainerType addresses one storage container with its stable wire value.
type ContainerType uint16

const (
	ContainerInventory0 ContainerType = 0
	ContainerInventory1 ContainerType = 1
	ContainerInventory2 ContainerType = 2
	ContainerInventory3 ContainerType = 3

	ContainerEquipped ContainerType = 1000
	ContainerCurrency ContainerType = 2000

	ContainerArmoryOffWeapon   ContainerType = 3200
	ContainerArmoryHead        ContainerType = 3201
	ContainerArmoryBody        ContainerType = 3202
	ContainerArmoryHand        ContainerType = 3203
	ContainerArmoryLeg         ContainerType = 3205
	ContainerArmoryFoot        ContainerType = 3206
	ContainerArmoryEarring     ContainerType = 3207
	ContainerArmoryNeck        ContainerType = 3208
	ContainerArmoryWrist       ContainerType = 3209
	ContainerArmoryRing        ContainerType = 3300
	ContainerArmorySoulCrystal ContainerType = 3400
	ContainerArmoryWeapon      ContainerType = 3500

	ContainerSaddleBag0        ContainerType = 4000
	ContainerSaddleBag1        ContainerType = 4001
	ContainerPremiumSaddleBag0 ContainerType = 4100
	ContainerPremiumSaddleBag1 ContainerType = 4101
)

func (c ContainerType) String() string {
	switch c {
	case ContainerInventory0, ContainerInventory1, ContainerInventory2, ContainerInventory3:
		return fmt.Sprintf("Inventory%d", uint16(c))
	case ContainerEquipped:
		return "Equipped"
	case ContainerCurrency:
		return "Currency"
	case ContainerArmoryOffWeapon:
		return "ArmoryOffWeapon"
	case ContainerArmoryHead:
		return "ArmoryHead"
	case ContainerArmoryBody:
		return "ArmoryBody"
	case ContainerArmoryHand:
		return "ArmoryHand"
	case ContainerArmoryLeg:
		return "ArmoryLeg"
	case ContainerArmoryFoot:
		return "ArmoryFoot"
	case ContainerArmoryEarring:
		return "ArmoryEarring"
	case ContainerArmoryNeck:
		return "ArmoryNeck"
	case ContainerArmoryWrist:
		return "ArmoryWrist"
	case ContainerArmoryRing:
		return "ArmoryRing"
	case ContainerArmorySoulCrystal:
		return "ArmorySoulCrystal"
	case ContainerArmoryWeapon:
		return "ArmoryWeapon"
	default:
		return fmt.Sprintf("Container(%d)", uint16(c))
	}
}

// BagOrder is the canonical container ordering for bulk serialization of a
// full inventory to the client.
var BagOrder = []ContainerType{
	ContainerInventory0,
	ContainerInventory1,
	ContainerInventory2,
	ContainerInventory3,
	ContainerArmoryOffWeapon,
	ContainerArmoryHead,
	ContainerArmoryBody,
	ContainerArmoryHand,
	ContainerArmoryLeg,
	ContainerArmoryFoot,
	ContainerArmoryEarring,
	ContainerArmoryNeck,
	ContainerArmoryWrist,
	ContainerArmoryRing,
	ContainerArmorySoulCrystal,
	ContainerArmoryWeapon,
	ContainerEquipped,
	ContainerCurrency,
}

// OperationKind tags one client item operation. The wire values are
// patch-dependent; they are pinned here and nowhere else.
type OperationKind uint8

const (
	OperationMove    OperationKind = 71
	OperationSwap    OperationKind = 72
	OperationMerge   OperationKind = 73
	OperationSplit   OperationKind = 74
	OperationDiscard OperationKind = 76
)

func (k OperationKind) String() string {
	switch k {
	case OperationMove:
		return "Move"
	case OperationSwap:
		return "Swap"
	case OperationMerge:
		return "Merge"
	case OperationSplit:
		return "Split"
	case OperationDiscard:
		return "Discard"
	default:
		return fmt.Sprintf("OperationKind(%d)", uint8(k))
	}
}
