package common

import "fmt"

// ObjectId identifies an actor inside the world. Actor references between
// instances, targets and paths are always ids, never pointers — a dangling
// id resolves to "not found", not a crash.
type ObjectId uint32

// InvalidObjectId is the sentinel for "no actor".
const InvalidObjectId = ObjectId(0xE0000000)

func (id ObjectId) String() string {
	return fmt.Sprintf("0x%08X", uint32(id))
}

// ObjectTypeId pairs an object id with its kind tag, as the client expects
// it in targeting and event payloads.
type ObjectTypeId struct {
	ObjectId   ObjectId
	ObjectType uint8
}
