package ipc

import (
	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc/wire"
)

// ObjectKind tags what an actor is to the client.
type ObjectKind uint8

const (
	ObjectKindNone      ObjectKind = 0
	ObjectKindPlayer    ObjectKind = 1
	ObjectKindBattleNpc ObjectKind = 2
	ObjectKindEventNpc  ObjectKind = 3
	ObjectKindTreasure  ObjectKind = 4
	ObjectKindAetheryte ObjectKind = 5
	ObjectKindEventObj  ObjectKind = 7
)

// CharacterMode is the actor's top-level state.
type CharacterMode uint8

const (
	CharacterModeNone   CharacterMode = 0
	CharacterModeNormal CharacterMode = 1
	CharacterModeDead   CharacterMode = 2
)

// MaxDisplayedStatusEffects is the cap on effects in one spawn/list payload.
const MaxDisplayedStatusEffects = 30

// CommonSpawn is the shared chunk of every actor spawn payload.
type CommonSpawn struct {
	Title          uint16
	U1b            uint16
	CurrentWorldID uint16
	HomeWorldID    uint16

	GMRank       uint8
	U3c          uint8
	U4           uint8
	OnlineStatus uint8

	Pose uint8
	U5a  uint8
	U5b  uint8
	U5c  uint8

	TargetID uint64
	U6       uint32
	U7       uint32

	MainWeaponModel uint64
	SecWeaponModel  uint64
	CraftToolModel  uint64

	U14      uint32
	U15      uint32
	BNpcBase uint32
	BNpcName uint32
	Unk3     [8]byte

	DirectorID    uint32
	SpawnerID     uint32
	ParentActorID uint32

	HPMax        uint32
	HPCurr       uint32
	DisplayFlags uint32

	FateID uint16
	MPCurr uint16
	MPMax  uint16
	U16    uint16

	ModelChara   uint16
	Rotation     float32 // quantized to u16 on the wire
	CurrentMount uint16
	ActiveMinion uint16

	U23 uint8
	U24 uint8
	U25 uint8
	U26 uint8

	SpawnIndex      uint8
	Mode            CharacterMode
	PersistentEmote uint8
	ModelType       uint8

	Subtype   uint8
	Voice     uint8
	EnemyType uint8
	Level     uint8

	ClassJob uint8
	U26d     uint8
	U27a     uint16

	MountHead  uint16
	MountBody  uint16
	MountFeet  uint16
	MountColor uint16

	Scale       uint8
	ElementData [6]byte

	Effects  [MaxDisplayedStatusEffects]StatusEffect
	Position common.Position
	Models   [10]uint32
	Name     string // 32 bytes
	Look     [26]byte
	FCTag    string // 6 bytes
}

func (c *CommonSpawn) write(w *wire.Writer) {
	w.WriteU16(c.Title)
	w.WriteU16(c.U1b)
	w.WriteU16(c.CurrentWorldID)
	w.WriteU16(c.HomeWorldID)

	w.WriteU8(c.GMRank)
	w.WriteU8(c.U3c)
	w.WriteU8(c.U4)
	w.WriteU8(c.OnlineStatus)

	w.WriteU8(c.Pose)
	w.WriteU8(c.U5a)
	w.WriteU8(c.U5b)
	w.WriteU8(c.U5c)

	w.WriteU64(c.TargetID)
	w.WriteU32(c.U6)
	w.WriteU32(c.U7)

	w.WriteU64(c.MainWeaponModel)
	w.WriteU64(c.SecWeaponModel)
	w.WriteU64(c.CraftToolModel)

	w.WriteU32(c.U14)
	w.WriteU32(c.U15)
	w.WriteU32(c.BNpcBase)
	w.WriteU32(c.BNpcName)
	w.WriteBytes(c.Unk3[:])

	w.WriteU32(c.DirectorID)
	w.WriteU32(c.SpawnerID)
	w.WriteU32(c.ParentActorID)

	w.WriteU32(c.HPMax)
	w.WriteU32(c.HPCurr)
	w.WriteU32(c.DisplayFlags)

	w.WriteU16(c.FateID)
	w.WriteU16(c.MPCurr)
	w.WriteU16(c.MPMax)
	w.WriteU16(c.U16)

	w.WriteU16(c.ModelChara)
	w.WriteRotation(c.Rotation)
	w.WriteU16(c.CurrentMount)
	w.WriteU16(c.ActiveMinion)

	w.WriteU8(c.U23)
	w.WriteU8(c.U24)
	w.WriteU8(c.U25)
	w.WriteU8(c.U26)

	w.WriteU8(c.SpawnIndex)
	w.WriteU8(uint8(c.Mode))
	w.WriteU8(c.PersistentEmote)
	w.WriteU8(c.ModelType)

	w.WriteU8(c.Subtype)
	w.WriteU8(c.Voice)
	w.WriteU8(c.EnemyType)
	w.WriteU8(c.Level)

	w.WriteU8(c.ClassJob)
	w.WriteU8(c.U26d)
	w.WriteU16(c.U27a)

	w.WriteU16(c.MountHead)
	w.WriteU16(c.MountBody)
	w.WriteU16(c.MountFeet)
	w.WriteU16(c.MountColor)

	w.WriteU8(c.Scale)
	w.WriteBytes(c.ElementData[:])
	w.Pad(1)

	for i := range c.Effects {
		c.Effects[i].write(w)
	}
	w.WritePosition(c.Position)
	for _, m := range c.Models {
		w.WriteU32(m)
	}
	w.WriteString(c.Name, CharNameLength)
	w.WriteBytes(c.Look[:])
	w.WriteString(c.FCTag, 6)
}

func (c *CommonSpawn) read(r *wire.Reader) {
	c.Title = r.ReadU16()
	c.U1b = r.ReadU16()
	c.CurrentWorldID = r.ReadU16()
	c.HomeWorldID = r.ReadU16()

	c.GMRank = r.ReadU8()
	c.U3c = r.ReadU8()
	c.U4 = r.ReadU8()
	c.OnlineStatus = r.ReadU8()

	c.Pose = r.ReadU8()
	c.U5a = r.ReadU8()
	c.U5b = r.ReadU8()
	c.U5c = r.ReadU8()

	c.TargetID = r.ReadU64()
	c.U6 = r.ReadU32()
	c.U7 = r.ReadU32()

	c.MainWeaponModel = r.ReadU64()
	c.SecWeaponModel = r.ReadU64()
	c.CraftToolModel = r.ReadU64()

	c.U14 = r.ReadU32()
	c.U15 = r.ReadU32()
	c.BNpcBase = r.ReadU32()
	c.BNpcName = r.ReadU32()
	copy(c.Unk3[:], r.ReadBytes(8))

	c.DirectorID = r.ReadU32()
	c.SpawnerID = r.ReadU32()
	c.ParentActorID = r.ReadU32()

	c.HPMax = r.ReadU32()
	c.HPCurr = r.ReadU32()
	c.DisplayFlags = r.ReadU32()

	c.FateID = r.ReadU16()
	c.MPCurr = r.ReadU16()
	c.MPMax = r.ReadU16()
	c.U16 = r.ReadU16()

	c.ModelChara = r.ReadU16()
	c.Rotation = r.ReadRotation()
	c.CurrentMount = r.ReadU16()
	c.ActiveMinion = r.ReadU16()

	c.U23 = r.ReadU8()
	c.U24 = r.ReadU8()
	c.U25 = r.ReadU8()
	c.U26 = r.ReadU8()

	c.SpawnIndex = r.ReadU8()
	c.Mode = CharacterMode(r.ReadU8())
	c.PersistentEmote = r.ReadU8()
	c.ModelType = r.ReadU8()

	c.Subtype = r.ReadU8()
	c.Voice = r.ReadU8()
	c.EnemyType = r.ReadU8()
	c.Level = r.ReadU8()

	c.ClassJob = r.ReadU8()
	c.U26d = r.ReadU8()
	c.U27a = r.ReadU16()

	c.MountHead = r.ReadU16()
	c.MountBody = r.ReadU16()
	c.MountFeet = r.ReadU16()
	c.MountColor = r.ReadU16()

	c.Scale = r.ReadU8()
	copy(c.ElementData[:], r.ReadBytes(6))
	r.Skip(1)

	for i := range c.Effects {
		c.Effects[i].read(r)
	}
	c.Position = r.ReadPosition()
	for i := range c.Models {
		c.Models[i] = r.ReadU32()
	}
	c.Name = r.ReadString(CharNameLength)
	copy(c.Look[:], r.ReadBytes(26))
	c.FCTag = r.ReadString(6)
}

// PlayerSpawn spawns a player actor on a recipient's client.
type PlayerSpawn struct {
	AccountID uint32
	ContentID uint64
	Common    CommonSpawn
}

func (*PlayerSpawn) ServerZoneOpcode() ServerZoneOpcode { return ServerZonePlayerSpawn }

func (p *PlayerSpawn) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.AccountID)
	w.Pad(4)
	w.WriteU64(p.ContentID)
	p.Common.write(w)
	w.Pad(4)
}

func (p *PlayerSpawn) UnmarshalBody(r *wire.Reader) {
	p.AccountID = r.ReadU32()
	r.Skip(4)
	p.ContentID = r.ReadU64()
	p.Common.read(r)
	r.Skip(4)
}

// NpcSpawn spawns an NPC actor.
type NpcSpawn struct {
	GimmickID  uint32
	U3b        uint8
	Aggression uint8
	U3c        uint8
	U4         uint8
	Common     CommonSpawn
}

func (*NpcSpawn) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneNpcSpawn }

func (p *NpcSpawn) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.GimmickID)
	w.WriteU8(p.U3b)
	w.WriteU8(p.Aggression)
	w.WriteU8(p.U3c)
	w.WriteU8(p.U4)
	p.Common.write(w)
	w.Pad(4)
}

func (p *NpcSpawn) UnmarshalBody(r *wire.Reader) {
	p.GimmickID = r.ReadU32()
	p.U3b = r.ReadU8()
	p.Aggression = r.ReadU8()
	p.U3c = r.ReadU8()
	p.U4 = r.ReadU8()
	p.Common.read(r)
	r.Skip(4)
}

// ObjectSpawn spawns a non-actor event object.
type ObjectSpawn struct {
	Index                    uint8
	Kind                     ObjectKind
	Flag                     uint8
	Unk                      uint8
	BaseID                   uint32
	EntityID                 uint32
	LayoutID                 uint32
	ContentID                uint32
	OwnerID                  uint32
	BindLayoutID             uint32
	Scale                    float32
	SharedGroupTimelineState uint16
	Rotation                 float32 // quantized to u16
	Fate                     uint16
	PermissionInvisibility   uint8
	Args1                    uint8
	Args2                    uint32
	Args3                    uint32
	Unk3                     uint32
	Position                 common.Position
}

func (*ObjectSpawn) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneObjectSpawn }

func (p *ObjectSpawn) MarshalBody(w *wire.Writer) {
	w.WriteU8(p.Index)
	w.WriteU8(uint8(p.Kind))
	w.WriteU8(p.Flag)
	w.WriteU8(p.Unk)
	w.WriteU32(p.BaseID)
	w.WriteU32(p.EntityID)
	w.WriteU32(p.LayoutID)
	w.WriteU32(p.ContentID)
	w.WriteU32(p.OwnerID)
	w.WriteU32(p.BindLayoutID)
	w.WriteF32(p.Scale)
	w.WriteU16(p.SharedGroupTimelineState)
	w.WriteRotation(p.Rotation)
	w.WriteU16(p.Fate)
	w.WriteU8(p.PermissionInvisibility)
	w.WriteU8(p.Args1)
	w.WriteU32(p.Args2)
	w.WriteU32(p.Args3)
	w.WriteU32(p.Unk3)
	w.WritePosition(p.Position)
	w.Pad(8)
}

func (p *ObjectSpawn) UnmarshalBody(r *wire.Reader) {
	p.Index = r.ReadU8()
	p.Kind = ObjectKind(r.ReadU8())
	p.Flag = r.ReadU8()
	p.Unk = r.ReadU8()
	p.BaseID = r.ReadU32()
	p.EntityID = r.ReadU32()
	p.LayoutID = r.ReadU32()
	p.ContentID = r.ReadU32()
	p.OwnerID = r.ReadU32()
	p.BindLayoutID = r.ReadU32()
	p.Scale = r.ReadF32()
	p.SharedGroupTimelineState = r.ReadU16()
	p.Rotation = r.ReadRotation()
	p.Fate = r.ReadU16()
	p.PermissionInvisibility = r.ReadU8()
	p.Args1 = r.ReadU8()
	p.Args2 = r.ReadU32()
	p.Args3 = r.ReadU32()
	p.Unk3 = r.ReadU32()
	p.Position = r.ReadPosition()
	r.Skip(8)
}

// Despawn removes a spawn index from the recipient's client.
type Despawn struct {
	SpawnIndex uint8
	ActorID    common.ObjectId
}

func (*Despawn) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneDespawn }

func (p *Despawn) MarshalBody(w *wire.Writer) {
	w.WriteU8(p.SpawnIndex)
	w.Pad(3)
	w.WriteU32(uint32(p.ActorID))
}

func (p *Despawn) UnmarshalBody(r *wire.Reader) {
	p.SpawnIndex = r.ReadU8()
	r.Skip(3)
	p.ActorID = common.ObjectId(r.ReadU32())
}
