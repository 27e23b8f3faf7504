package ipc

import (
	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/inventory"
	"github.com/xivgo/server/internal/ipc/wire"
)

// ServerZonePayload is one zone-to-client IPC body.
type ServerZonePayload interface {
	Payload
	ServerZoneOpcode() ServerZoneOpcode
}

// InitZoneFlags adjust how the client brings the zone up.
type InitZoneFlags uint16

const (
	InitZoneFlagNone         InitZoneFlags = 0x000
	InitZoneFlagInitialLogin InitZoneFlags = 0x001
	InitZoneFlagHideServer   InitZoneFlags = 0x008
	InitZoneFlagEnableFlying InitZoneFlags = 0x010
	InitZoneFlagInstanced    InitZoneFlags = 0x080
)

// InitZone tells the client which zone to load and where to stand.
type InitZone struct {
	ServerID           uint16
	TerritoryType      uint16
	InstanceID         uint16
	ContentFinderCond  uint16
	LayerSetID         uint32
	LayoutID           uint32
	WeatherID          uint16
	Flags              InitZoneFlags
	UnkBitmask1        uint8
	ObfuscationMode    uint8
	Seed1              uint8
	Seed2              uint8
	Seed3              uint32
	FestivalID         uint16
	AdditionalFestival uint16
	Unk3               uint32
	Unk4               uint32
	Unk5               uint32
	Unk6               [4]uint32
	Unk7               [3]uint32
	Unk8_9             [8]byte
	Position           common.Position
	Unk8               [4]uint32
	Unk9               uint32
}

func (*InitZone) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneInitZone }

func (p *InitZone) MarshalBody(w *wire.Writer) {
	w.WriteU16(p.ServerID)
	w.WriteU16(p.TerritoryType)
	w.WriteU16(p.InstanceID)
	w.WriteU16(p.ContentFinderCond)
	w.WriteU32(p.LayerSetID)
	w.WriteU32(p.LayoutID)
	w.WriteU16(p.WeatherID)
	w.WriteU16(uint16(p.Flags))
	w.WriteU8(p.UnkBitmask1)
	w.WriteU8(p.ObfuscationMode)
	w.WriteU8(p.Seed1)
	w.WriteU8(p.Seed2)
	w.WriteU32(p.Seed3)
	w.WriteU16(p.FestivalID)
	w.WriteU16(p.AdditionalFestival)
	w.WriteU32(p.Unk3)
	w.WriteU32(p.Unk4)
	w.WriteU32(p.Unk5)
	for _, v := range p.Unk6 {
		w.WriteU32(v)
	}
	for _, v := range p.Unk7 {
		w.WriteU32(v)
	}
	w.WriteBytes(p.Unk8_9[:])
	w.WritePosition(p.Position)
	for _, v := range p.Unk8 {
		w.WriteU32(v)
	}
	w.WriteU32(p.Unk9)
}

func (p *InitZone) UnmarshalBody(r *wire.Reader) {
	p.ServerID = r.ReadU16()
	p.TerritoryType = r.ReadU16()
	p.InstanceID = r.ReadU16()
	p.ContentFinderCond = r.ReadU16()
	p.LayerSetID = r.ReadU32()
	p.LayoutID = r.ReadU32()
	p.WeatherID = r.ReadU16()
	p.Flags = InitZoneFlags(r.ReadU16())
	p.UnkBitmask1 = r.ReadU8()
	p.ObfuscationMode = r.ReadU8()
	p.Seed1 = r.ReadU8()
	p.Seed2 = r.ReadU8()
	p.Seed3 = r.ReadU32()
	p.FestivalID = r.ReadU16()
	p.AdditionalFestival = r.ReadU16()
	p.Unk3 = r.ReadU32()
	p.Unk4 = r.ReadU32()
	p.Unk5 = r.ReadU32()
	for i := range p.Unk6 {
		p.Unk6[i] = r.ReadU32()
	}
	for i := range p.Unk7 {
		p.Unk7[i] = r.ReadU32()
	}
	copy(p.Unk8_9[:], r.ReadBytes(8))
	p.Position = r.ReadPosition()
	for i := range p.Unk8 {
		p.Unk8[i] = r.ReadU32()
	}
	p.Unk9 = r.ReadU32()
}

// PlayerStats carries the full stat block after login or class change.
type PlayerStats struct {
	Stats [56]uint32
}

func (*PlayerStats) ServerZoneOpcode() ServerZoneOpcode { return ServerZonePlayerStats }

func (p *PlayerStats) MarshalBody(w *wire.Writer) {
	for _, v := range p.Stats {
		w.WriteU32(v)
	}
}

func (p *PlayerStats) UnmarshalBody(r *wire.Reader) {
	for i := range p.Stats {
		p.Stats[i] = r.ReadU32()
	}
}

// ActorControlCategory enumerates the small actor control events.
type ActorControlCategory uint16

const (
	ActorControlZoneIn        ActorControlCategory = 0xC8
	ActorControlSetStatusIcon ActorControlCategory = 0x1F
	ActorControlCooldown      ActorControlCategory = 0x11
	ActorControlGainEffect    ActorControlCategory = 0x14
	ActorControlLoseEffect    ActorControlCategory = 0x15
	ActorControlSetTarget     ActorControlCategory = 0x32
	ActorControlTeleportStart ActorControlCategory = 0x197
	ActorControlLogOut        ActorControlCategory = 0x199
)

// ActorControl is a small enumerated event about the source actor.
type ActorControl struct {
	Category ActorControlCategory
	Param1   uint32
	Param2   uint32
	Param3   uint32
	Param4   uint32
}

func (*ActorControl) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneActorControl }

func (p *ActorControl) MarshalBody(w *wire.Writer) {
	w.WriteU16(uint16(p.Category))
	w.Pad(2)
	w.WriteU32(p.Param1)
	w.WriteU32(p.Param2)
	w.WriteU32(p.Param3)
	w.WriteU32(p.Param4)
	w.Pad(4)
}

func (p *ActorControl) UnmarshalBody(r *wire.Reader) {
	p.Category = ActorControlCategory(r.ReadU16())
	r.Skip(2)
	p.Param1 = r.ReadU32()
	p.Param2 = r.ReadU32()
	p.Param3 = r.ReadU32()
	p.Param4 = r.ReadU32()
	r.Skip(4)
}

// ActorControlSelf is an actor control only the owning client sees.
type ActorControlSelf struct {
	Category ActorControlCategory
	Param1   uint32
	Param2   uint32
	Param3   uint32
	Param4   uint32
	Param5   uint32
	Param6   uint32
}

func (*ActorControlSelf) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneActorControlSelf }

func (p *ActorControlSelf) MarshalBody(w *wire.Writer) {
	w.WriteU16(uint16(p.Category))
	w.Pad(2)
	w.WriteU32(p.Param1)
	w.WriteU32(p.Param2)
	w.WriteU32(p.Param3)
	w.WriteU32(p.Param4)
	w.WriteU32(p.Param5)
	w.WriteU32(p.Param6)
	w.Pad(4)
}

func (p *ActorControlSelf) UnmarshalBody(r *wire.Reader) {
	p.Category = ActorControlCategory(r.ReadU16())
	r.Skip(2)
	p.Param1 = r.ReadU32()
	p.Param2 = r.ReadU32()
	p.Param3 = r.ReadU32()
	p.Param4 = r.ReadU32()
	p.Param5 = r.ReadU32()
	p.Param6 = r.ReadU32()
	r.Skip(4)
}

// ActorControlTarget is an actor control that names a target actor.
type ActorControlTarget struct {
	Category ActorControlCategory
	Param1   uint32
	Param2   uint32
	Param3   uint32
	Param4   uint32
	Target   uint64
}

func (*ActorControlTarget) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneActorControlTarget }

func (p *ActorControlTarget) MarshalBody(w *wire.Writer) {
	w.WriteU16(uint16(p.Category))
	w.Pad(2)
	w.WriteU32(p.Param1)
	w.WriteU32(p.Param2)
	w.WriteU32(p.Param3)
	w.WriteU32(p.Param4)
	w.Pad(4)
	w.WriteU64(p.Target)
}

func (p *ActorControlTarget) UnmarshalBody(r *wire.Reader) {
	p.Category = ActorControlCategory(r.ReadU16())
	r.Skip(2)
	p.Param1 = r.ReadU32()
	p.Param2 = r.ReadU32()
	p.Param3 = r.ReadU32()
	p.Param4 = r.ReadU32()
	r.Skip(4)
	p.Target = r.ReadU64()
}

// ActorMove is a positional delta broadcast to observers.
type ActorMove struct {
	Flag1    uint8
	Flag2    uint8
	Speed    uint8
	Unk1     uint8
	Rotation float32 // quantized u16
	AnimType uint16
	Position common.Position // packed u16 per axis
}

func (*ActorMove) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneActorMove }

func (p *ActorMove) MarshalBody(w *wire.Writer) {
	w.WriteU8(p.Flag1)
	w.WriteU8(p.Flag2)
	w.WriteU8(p.Speed)
	w.WriteU8(p.Unk1)
	w.WriteRotation(p.Rotation)
	w.WriteU16(p.AnimType)
	w.WritePackedPosition(p.Position)
	w.Pad(2)
}

func (p *ActorMove) UnmarshalBody(r *wire.Reader) {
	p.Flag1 = r.ReadU8()
	p.Flag2 = r.ReadU8()
	p.Speed = r.ReadU8()
	p.Unk1 = r.ReadU8()
	p.Rotation = r.ReadRotation()
	p.AnimType = r.ReadU16()
	p.Position = r.ReadPackedPosition()
	r.Skip(2)
}

// ActorSetPos forces an actor position on the client.
type ActorSetPos struct {
	Rotation    float32 // quantized u16
	WaitForLoad uint8
	Unk1        uint8
	Position    common.Position
	Unk2        uint32
}

func (*ActorSetPos) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneActorSetPos }

func (p *ActorSetPos) MarshalBody(w *wire.Writer) {
	w.WriteRotation(p.Rotation)
	w.WriteU8(p.WaitForLoad)
	w.WriteU8(p.Unk1)
	w.WritePosition(p.Position)
	w.WriteU32(p.Unk2)
}

func (p *ActorSetPos) UnmarshalBody(r *wire.Reader) {
	p.Rotation = r.ReadRotation()
	p.WaitForLoad = r.ReadU8()
	p.Unk1 = r.ReadU8()
	p.Position = r.ReadPosition()
	p.Unk2 = r.ReadU32()
}

// Warp moves the player within the current zone with a transition.
type Warp struct {
	Dir         uint16
	WarpType    uint8
	WarpTypeArg uint8
	LayerSet    uint32
	Position    common.Position
	Rotation    float32
}

func (*Warp) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneWarp }

func (p *Warp) MarshalBody(w *wire.Writer) {
	w.WriteU16(p.Dir)
	w.WriteU8(p.WarpType)
	w.WriteU8(p.WarpTypeArg)
	w.WriteU32(p.LayerSet)
	w.WritePosition(p.Position)
	w.WriteF32(p.Rotation)
}

func (p *Warp) UnmarshalBody(r *wire.Reader) {
	p.Dir = r.ReadU16()
	p.WarpType = r.ReadU8()
	p.WarpTypeArg = r.ReadU8()
	p.LayerSet = r.ReadU32()
	p.Position = r.ReadPosition()
	p.Rotation = r.ReadF32()
}

// PrepareZoning starts the client's zone-out fade.
type PrepareZoning struct {
	LogMessage  uint32
	TargetZone  uint16
	Animation   uint16
	Param4      uint8
	HideChar    uint8
	FadeOut     uint8
	Param7      uint8
	FadeOutTime uint8
	Unk1        uint8
	Unk2        uint16
}

func (*PrepareZoning) ServerZoneOpcode() ServerZoneOpcode { return ServerZonePrepareZoning }

func (p *PrepareZoning) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.LogMessage)
	w.WriteU16(p.TargetZone)
	w.WriteU16(p.Animation)
	w.WriteU8(p.Param4)
	w.WriteU8(p.HideChar)
	w.WriteU8(p.FadeOut)
	w.WriteU8(p.Param7)
	w.WriteU8(p.FadeOutTime)
	w.WriteU8(p.Unk1)
	w.WriteU16(p.Unk2)
}

func (p *PrepareZoning) UnmarshalBody(r *wire.Reader) {
	p.LogMessage = r.ReadU32()
	p.TargetZone = r.ReadU16()
	p.Animation = r.ReadU16()
	p.Param4 = r.ReadU8()
	p.HideChar = r.ReadU8()
	p.FadeOut = r.ReadU8()
	p.Param7 = r.ReadU8()
	p.FadeOutTime = r.ReadU8()
	p.Unk1 = r.ReadU8()
	p.Unk2 = r.ReadU16()
}

// StatusEffectList is the full effect table delta for one actor.
type StatusEffectList struct {
	ClassJob  uint8
	Level     uint8
	Level2    uint16
	CurrentHP uint32
	MaxHP     uint32
	CurrentMP uint16
	MaxMP     uint16
	Unk1      uint16
	Effects   [MaxDisplayedStatusEffects]StatusEffect
}

func (*StatusEffectList) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneStatusEffectList }

func (p *StatusEffectList) MarshalBody(w *wire.Writer) {
	w.WriteU8(p.ClassJob)
	w.WriteU8(p.Level)
	w.WriteU16(p.Level2)
	w.WriteU32(p.CurrentHP)
	w.WriteU32(p.MaxHP)
	w.WriteU16(p.CurrentMP)
	w.WriteU16(p.MaxMP)
	w.WriteU16(p.Unk1)
	w.Pad(2)
	for i := range p.Effects {
		p.Effects[i].write(w)
	}
	w.Pad(4)
}

func (p *StatusEffectList) UnmarshalBody(r *wire.Reader) {
	p.ClassJob = r.ReadU8()
	p.Level = r.ReadU8()
	p.Level2 = r.ReadU16()
	p.CurrentHP = r.ReadU32()
	p.MaxHP = r.ReadU32()
	p.CurrentMP = r.ReadU16()
	p.MaxMP = r.ReadU16()
	p.Unk1 = r.ReadU16()
	r.Skip(2)
	for i := range p.Effects {
		p.Effects[i].read(r)
	}
	r.Skip(4)
}

// UpdateClassInfo refreshes the active class-job state.
type UpdateClassInfo struct {
	ClassID      uint8
	Unk1         uint8
	CurrentLevel uint16
	ClassLevel   uint16
	SyncedLevel  uint16
	CurrentExp   uint32
	RestedExp    uint32
}

func (*UpdateClassInfo) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneUpdateClassInfo }

func (p *UpdateClassInfo) MarshalBody(w *wire.Writer) {
	w.WriteU8(p.ClassID)
	w.WriteU8(p.Unk1)
	w.WriteU16(p.CurrentLevel)
	w.WriteU16(p.ClassLevel)
	w.WriteU16(p.SyncedLevel)
	w.WriteU32(p.CurrentExp)
	w.WriteU32(p.RestedExp)
}

func (p *UpdateClassInfo) UnmarshalBody(r *wire.Reader) {
	p.ClassID = r.ReadU8()
	p.Unk1 = r.ReadU8()
	p.CurrentLevel = r.ReadU16()
	p.ClassLevel = r.ReadU16()
	p.SyncedLevel = r.ReadU16()
	p.CurrentExp = r.ReadU32()
	p.RestedExp = r.ReadU32()
}

// WeatherChange transitions the zone weather.
type WeatherChange struct {
	WeatherID      uint16
	TransitionTime float32
}

func (*WeatherChange) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneWeatherChange }

func (p *WeatherChange) MarshalBody(w *wire.Writer) {
	w.WriteU16(p.WeatherID)
	w.Pad(2)
	w.WriteF32(p.TransitionTime)
}

func (p *WeatherChange) UnmarshalBody(r *wire.Reader) {
	p.WeatherID = r.ReadU16()
	r.Skip(2)
	p.TransitionTime = r.ReadF32()
}

// ServerChatMessage is a system line in the player's chat log.
type ServerChatMessage struct {
	Kind    uint8
	Message string // 764 bytes
}

func (*ServerChatMessage) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneServerChatMessage }

func (p *ServerChatMessage) MarshalBody(w *wire.Writer) {
	w.WriteU8(p.Kind)
	w.Pad(3)
	w.WriteString(p.Message, 764)
}

func (p *ServerChatMessage) UnmarshalBody(r *wire.Reader) {
	p.Kind = r.ReadU8()
	r.Skip(3)
	p.Message = r.ReadString(764)
}

// ZoneChatMessage delivers another player's chat line.
type ZoneChatMessage struct {
	SenderActorID uint32
	WorldID       uint16
	Flags         uint8
	Channel       uint8
	SenderName    string // 32 bytes
	Message       string // 512 bytes
}

func (*ZoneChatMessage) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneChatMessage }

func (p *ZoneChatMessage) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.SenderActorID)
	w.WriteU16(p.WorldID)
	w.WriteU8(p.Flags)
	w.WriteU8(p.Channel)
	w.WriteString(p.SenderName, CharNameLength)
	w.WriteString(p.Message, 512)
}

func (p *ZoneChatMessage) UnmarshalBody(r *wire.Reader) {
	p.SenderActorID = r.ReadU32()
	p.WorldID = r.ReadU16()
	p.Flags = r.ReadU8()
	p.Channel = r.ReadU8()
	p.SenderName = r.ReadString(CharNameLength)
	p.Message = r.ReadString(512)
}

// ServerNotice is a screen-top announcement.
type ServerNotice struct {
	Flags   uint8
	Message string // 764 bytes
}

func (*ServerNotice) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneServerNotice }

func (p *ServerNotice) MarshalBody(w *wire.Writer) {
	w.WriteU8(p.Flags)
	w.Pad(3)
	w.WriteString(p.Message, 764)
}

func (p *ServerNotice) UnmarshalBody(r *wire.Reader) {
	p.Flags = r.ReadU8()
	r.Skip(3)
	p.Message = r.ReadString(764)
}

// ItemInfo describes one changed inventory slot.
type ItemInfo struct {
	Context      uint32
	Unk1         uint32
	Container    inventory.ContainerType
	Slot         uint16
	Quantity     uint32
	CatalogID    uint32
	ReservedFlag uint32
	ArtisanID    uint64
	Condition    uint16
	Flags        uint16
	GlamourID    uint32
	Materia      [5]uint16
	Unk2         uint64
}

func (*ItemInfo) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneItemInfo }

func (p *ItemInfo) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.Context)
	w.WriteU32(p.Unk1)
	w.WriteU16(uint16(p.Container))
	w.WriteU16(p.Slot)
	w.WriteU32(p.Quantity)
	w.WriteU32(p.CatalogID)
	w.WriteU32(p.ReservedFlag)
	w.WriteU64(p.ArtisanID)
	w.WriteU16(p.Condition)
	w.WriteU16(p.Flags)
	w.WriteU32(p.GlamourID)
	for _, m := range p.Materia {
		w.WriteU16(m)
	}
	w.Pad(2)
	w.WriteU64(p.Unk2)
	w.Pad(4)
}

func (p *ItemInfo) UnmarshalBody(r *wire.Reader) {
	p.Context = r.ReadU32()
	p.Unk1 = r.ReadU32()
	p.Container = inventory.ContainerType(r.ReadU16())
	p.Slot = r.ReadU16()
	p.Quantity = r.ReadU32()
	p.CatalogID = r.ReadU32()
	p.ReservedFlag = r.ReadU32()
	p.ArtisanID = r.ReadU64()
	p.Condition = r.ReadU16()
	p.Flags = r.ReadU16()
	p.GlamourID = r.ReadU32()
	for i := range p.Materia {
		p.Materia[i] = r.ReadU16()
	}
	r.Skip(2)
	p.Unk2 = r.ReadU64()
	r.Skip(4)
}

// ContainerInfo delimits a burst of ItemInfo updates for one container.
type ContainerInfo struct {
	Context       uint32
	NumItems      uint32
	Container     uint32
	StartOrFinish uint32
}

func (*ContainerInfo) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneContainerInfo }

func (p *ContainerInfo) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.Context)
	w.WriteU32(p.NumItems)
	w.WriteU32(p.Container)
	w.WriteU32(p.StartOrFinish)
}

func (p *ContainerInfo) UnmarshalBody(r *wire.Reader) {
	p.Context = r.ReadU32()
	p.NumItems = r.ReadU32()
	p.Container = r.ReadU32()
	p.StartOrFinish = r.ReadU32()
}

// CurrencyInfo updates one currency slot.
type CurrencyInfo struct {
	Context   uint32
	Container inventory.ContainerType
	Slot      uint16
	Quantity  uint32
	Unk1      uint32
	CatalogID uint32
	Unk2      uint32
}

func (*CurrencyInfo) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneCurrencyInfo }

func (p *CurrencyInfo) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.Context)
	w.WriteU16(uint16(p.Container))
	w.WriteU16(p.Slot)
	w.WriteU32(p.Quantity)
	w.WriteU32(p.Unk1)
	w.WriteU32(p.CatalogID)
	w.WriteU32(p.Unk2)
	w.Pad(8)
}

func (p *CurrencyInfo) UnmarshalBody(r *wire.Reader) {
	p.Context = r.ReadU32()
	p.Container = inventory.ContainerType(r.ReadU16())
	p.Slot = r.ReadU16()
	p.Quantity = r.ReadU32()
	p.Unk1 = r.ReadU32()
	p.CatalogID = r.ReadU32()
	p.Unk2 = r.ReadU32()
	r.Skip(8)
}

// ActionEffect is one of up to eight effect slots in an ActionResult.
type ActionEffect struct {
	Type       uint8
	Param0     uint8
	Param1     uint8
	Param2     uint8
	Value      uint16
	Flags      uint8
	Multiplier uint8
}

// MaxActionEffects is the effect slot cap per action result.
const MaxActionEffects = 8

// ActionResult reports an executed action and its effects.
type ActionResult struct {
	MainTarget     uint64
	ActionID       uint32
	GlobalSequence uint32
	AnimationLock  float32
	Unk1           uint32
	HiddenAnim     uint16
	Rotation       float32 // quantized u16
	ActionAnimID   uint16
	Variation      uint8
	Flag           uint8
	Unk2           uint32
	EffectCount    uint8
	Effects        [MaxActionEffects]ActionEffect
	TargetID       uint64
}

func (*ActionResult) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneActionResult }

func (p *ActionResult) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.MainTarget)
	w.WriteU32(p.ActionID)
	w.WriteU32(p.GlobalSequence)
	w.WriteF32(p.AnimationLock)
	w.WriteU32(p.Unk1)
	w.WriteU16(p.HiddenAnim)
	w.WriteRotation(p.Rotation)
	w.WriteU16(p.ActionAnimID)
	w.WriteU8(p.Variation)
	w.WriteU8(p.Flag)
	w.WriteU32(p.Unk2)
	w.WriteU8(p.EffectCount)
	w.Pad(3)
	for i := range p.Effects {
		e := &p.Effects[i]
		w.WriteU8(e.Type)
		w.WriteU8(e.Param0)
		w.WriteU8(e.Param1)
		w.WriteU8(e.Param2)
		w.WriteU16(e.Value)
		w.WriteU8(e.Flags)
		w.WriteU8(e.Multiplier)
	}
	w.WriteU64(p.TargetID)
	w.Pad(8)
}

func (p *ActionResult) UnmarshalBody(r *wire.Reader) {
	p.MainTarget = r.ReadU64()
	p.ActionID = r.ReadU32()
	p.GlobalSequence = r.ReadU32()
	p.AnimationLock = r.ReadF32()
	p.Unk1 = r.ReadU32()
	p.HiddenAnim = r.ReadU16()
	p.Rotation = r.ReadRotation()
	p.ActionAnimID = r.ReadU16()
	p.Variation = r.ReadU8()
	p.Flag = r.ReadU8()
	p.Unk2 = r.ReadU32()
	p.EffectCount = r.ReadU8()
	r.Skip(3)
	for i := range p.Effects {
		e := &p.Effects[i]
		e.Type = r.ReadU8()
		e.Param0 = r.ReadU8()
		e.Param1 = r.ReadU8()
		e.Param2 = r.ReadU8()
		e.Value = r.ReadU16()
		e.Flags = r.ReadU8()
		e.Multiplier = r.ReadU8()
	}
	p.TargetID = r.ReadU64()
	r.Skip(8)
}

// Hater is one enmity entry.
type Hater struct {
	ActorID common.ObjectId
	Enmity  uint32
}

// MaxHaters caps the hater list length.
const MaxHaters = 32

// HaterList reports the actors holding enmity against the player.
type HaterList struct {
	Count uint32
	List  []Hater
}

func (*HaterList) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneHaterList }

func (p *HaterList) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.Count)
	w.Pad(4)
	for i := 0; i < MaxHaters; i++ {
		if i < len(p.List) {
			w.WriteU32(uint32(p.List[i].ActorID))
			w.WriteU32(p.List[i].Enmity)
		} else {
			w.WriteU64(0)
		}
	}
}

func (p *HaterList) UnmarshalBody(r *wire.Reader) {
	p.Count = r.ReadU32()
	r.Skip(4)
	entries := make([]Hater, MaxHaters)
	for i := range entries {
		entries[i].ActorID = common.ObjectId(r.ReadU32())
		entries[i].Enmity = r.ReadU32()
	}
	n := p.Count
	if n > MaxHaters {
		n = MaxHaters
	}
	p.List = entries[:n]
}

// ZoneNackReply reports a rejected client request; the connection stays open.
type ZoneNackReply struct {
	Sequence   uint64
	ErrorCode  uint32
	ExdErrorID uint16
	Unk        uint16
	Message    string // 512 bytes
}

func (*ZoneNackReply) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneNackReply }

func (p *ZoneNackReply) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Sequence)
	w.WriteU32(p.ErrorCode)
	w.WriteU16(p.ExdErrorID)
	w.WriteU16(p.Unk)
	w.WriteString(p.Message, 512)
}

func (p *ZoneNackReply) UnmarshalBody(r *wire.Reader) {
	p.Sequence = r.ReadU64()
	p.ErrorCode = r.ReadU32()
	p.ExdErrorID = r.ReadU16()
	p.Unk = r.ReadU16()
	p.Message = r.ReadString(512)
}

// Equip refreshes the displayed gear models of an actor.
type Equip struct {
	MainWeapon uint64
	SubWeapon  uint64
	Crest      uint64
	Models     [10]uint32
}

func (*Equip) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneEquip }

func (p *Equip) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.MainWeapon)
	w.WriteU64(p.SubWeapon)
	w.WriteU64(p.Crest)
	for _, m := range p.Models {
		w.WriteU32(m)
	}
}

func (p *Equip) UnmarshalBody(r *wire.Reader) {
	p.MainWeapon = r.ReadU64()
	p.SubWeapon = r.ReadU64()
	p.Crest = r.ReadU64()
	for i := range p.Models {
		p.Models[i] = r.ReadU32()
	}
}

// ActiveQuest is one tracked quest entry.
type ActiveQuest struct {
	ID       uint16
	Sequence uint8
	Flags    uint8
	Bits     [4]byte
}

// MaxActiveQuests caps the active quest list.
const MaxActiveQuests = 30

// QuestActiveList delivers the active quest table.
type QuestActiveList struct {
	Quests [MaxActiveQuests]ActiveQuest
}

func (*QuestActiveList) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneQuestActiveList }

func (p *QuestActiveList) MarshalBody(w *wire.Writer) {
	for i := range p.Quests {
		q := &p.Quests[i]
		w.WriteU16(q.ID)
		w.WriteU8(q.Sequence)
		w.WriteU8(q.Flags)
		w.WriteBytes(q.Bits[:])
	}
}

func (p *QuestActiveList) UnmarshalBody(r *wire.Reader) {
	for i := range p.Quests {
		q := &p.Quests[i]
		q.ID = r.ReadU16()
		q.Sequence = r.ReadU8()
		q.Flags = r.ReadU8()
		copy(q.Bits[:], r.ReadBytes(4))
	}
}

// Config mirrors client display configuration flags.
type Config struct {
	Flags1 uint32
	Flags2 uint32
}

func (*Config) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneConfig }

func (p *Config) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.Flags1)
	w.WriteU32(p.Flags2)
}

func (p *Config) UnmarshalBody(r *wire.Reader) {
	p.Flags1 = r.ReadU32()
	p.Flags2 = r.ReadU32()
}

// UnknownServerZone preserves an unrecognized opcode losslessly.
type UnknownServerZone struct {
	Opcode uint16
	Data   []byte
}

func (p *UnknownServerZone) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneOpcode(p.Opcode) }
func (p *UnknownServerZone) MarshalBody(w *wire.Writer)         { w.WriteBytes(p.Data) }
func (p *UnknownServerZone) UnmarshalBody(r *wire.Reader)       { p.Data = r.ReadBytes(r.Remaining()) }

// DecodeServerZone cracks a zone-to-client envelope into its payload.
func DecodeServerZone(envelope []byte) (Header, ServerZonePayload, error) {
	h, body, err := splitEnvelope(envelope)
	if err != nil {
		return Header{}, nil, err
	}
	var p ServerZonePayload
	op := ServerZoneOpcode(h.Opcode)
	switch op {
	case ServerZoneInitZone:
		p = &InitZone{}
	case ServerZonePlayerStats:
		p = &PlayerStats{}
	case ServerZonePlayerSpawn:
		p = &PlayerSpawn{}
	case ServerZoneNpcSpawn:
		p = &NpcSpawn{}
	case ServerZoneObjectSpawn:
		p = &ObjectSpawn{}
	case ServerZoneDespawn:
		p = &Despawn{}
	case ServerZoneActorControl:
		p = &ActorControl{}
	case ServerZoneActorControlSelf:
		p = &ActorControlSelf{}
	case ServerZoneActorControlTarget:
		p = &ActorControlTarget{}
	case ServerZoneActorMove:
		p = &ActorMove{}
	case ServerZoneActorSetPos:
		p = &ActorSetPos{}
	case ServerZoneWarp:
		p = &Warp{}
	case ServerZonePrepareZoning:
		p = &PrepareZoning{}
	case ServerZoneStatusEffectList:
		p = &StatusEffectList{}
	case ServerZoneUpdateClassInfo:
		p = &UpdateClassInfo{}
	case ServerZoneWeatherChange:
		p = &WeatherChange{}
	case ServerZoneServerChatMessage:
		p = &ServerChatMessage{}
	case ServerZoneChatMessage:
		p = &ZoneChatMessage{}
	case ServerZoneServerNotice:
		p = &ServerNotice{}
	case ServerZoneItemInfo:
		p = &ItemInfo{}
	case ServerZoneContainerInfo:
		p = &ContainerInfo{}
	case ServerZoneCurrencyInfo:
		p = &CurrencyInfo{}
	case ServerZoneEventStart:
		p = &EventStart{}
	case ServerZoneEventFinish:
		p = &EventFinish{}
	case ServerZoneEventScene:
		p = &EventScene{bracket: 2}
	case ServerZoneEventScene4:
		p = &EventScene{bracket: 4}
	case ServerZoneEventScene8:
		p = &EventScene{bracket: 8}
	case ServerZoneEventScene16:
		p = &EventScene{bracket: 16}
	case ServerZoneEventScene32:
		p = &EventScene{bracket: 32}
	case ServerZoneEventScene64:
		p = &EventScene{bracket: 64}
	case ServerZoneEventScene128:
		p = &EventScene{bracket: 128}
	case ServerZoneEventScene255:
		p = &EventScene{bracket: 255}
	case ServerZoneEventResume:
		p = &EventResume{bracket: 2}
	case ServerZoneEventResume4:
		p = &EventResume{bracket: 4}
	case ServerZoneEventResume8:
		p = &EventResume{bracket: 8}
	case ServerZoneActionResult:
		p = &ActionResult{}
	case ServerZoneHaterList:
		p = &HaterList{}
	case ServerZoneNackReply:
		p = &ZoneNackReply{}
	case ServerZoneEquip:
		p = &Equip{}
	case ServerZoneQuestActiveList:
		p = &QuestActiveList{}
	case ServerZoneConfig:
		p = &Config{}
	default:
		u := &UnknownServerZone{Opcode: h.Opcode}
		u.UnmarshalBody(wire.NewReader(body))
		return h, u, nil
	}
	sz, sized := op.Size()
	if err := decodeBody(h.Opcode, p, body, sz, sized); err != nil {
		return Header{}, nil, err
	}
	return h, p, nil
}

// EncodeServerZone builds a zone-to-client envelope.
func EncodeServerZone(serverID uint16, p ServerZonePayload) ([]byte, error) {
	op := p.ServerZoneOpcode()
	sz, sized := op.Size()
	return encodeEnvelope(uint16(op), serverID, p, sz, sized)
}
