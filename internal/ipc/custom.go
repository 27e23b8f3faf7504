package ipc

import (
	"github.com/xivgo/server/internal/ipc/wire"
)

// CustomPayload is one body on the private server-to-server channel.
type CustomPayload interface {
	Payload
	CustomOpcode() CustomOpcode
}

// RequestCreateCharacter asks the world to create a character.
type RequestCreateCharacter struct {
	ServiceAccountID uint32
	Name             string // 32 bytes
	CharaMakeJson    string // 440 bytes, appearance payload
}

func (*RequestCreateCharacter) CustomOpcode() CustomOpcode { return CustomRequestCreateCharacter }

func (p *RequestCreateCharacter) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.ServiceAccountID)
	w.Pad(4)
	w.WriteString(p.Name, CharNameLength)
	w.WriteString(p.CharaMakeJson, 440)
}

func (p *RequestCreateCharacter) UnmarshalBody(r *wire.Reader) {
	p.ServiceAccountID = r.ReadU32()
	r.Skip(4)
	p.Name = r.ReadString(CharNameLength)
	p.CharaMakeJson = r.ReadString(440)
}

// CharacterCreated returns the new character's identifiers.
type CharacterCreated struct {
	ActorID   uint32
	ContentID uint64
}

func (*CharacterCreated) CustomOpcode() CustomOpcode { return CustomCharacterCreated }

func (p *CharacterCreated) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.ActorID)
	w.Pad(4)
	w.WriteU64(p.ContentID)
}

func (p *CharacterCreated) UnmarshalBody(r *wire.Reader) {
	p.ActorID = r.ReadU32()
	r.Skip(4)
	p.ContentID = r.ReadU64()
}

// GetActorId resolves a content id to its actor id.
type GetActorId struct {
	ContentID uint64
}

func (*GetActorId) CustomOpcode() CustomOpcode { return CustomGetActorId }

func (p *GetActorId) MarshalBody(w *wire.Writer)   { w.WriteU64(p.ContentID) }
func (p *GetActorId) UnmarshalBody(r *wire.Reader) { p.ContentID = r.ReadU64() }

// ActorIdFound answers GetActorId.
type ActorIdFound struct {
	ActorID uint32
}

func (*ActorIdFound) CustomOpcode() CustomOpcode { return CustomActorIdFound }

func (p *ActorIdFound) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.ActorID)
	w.Pad(4)
}

func (p *ActorIdFound) UnmarshalBody(r *wire.Reader) {
	p.ActorID = r.ReadU32()
	r.Skip(4)
}

// CheckNameIsAvailable asks the world to reserve-check a character name.
type CheckNameIsAvailable struct {
	Name string // 32 bytes
}

func (*CheckNameIsAvailable) CustomOpcode() CustomOpcode { return CustomCheckNameIsAvailable }

func (p *CheckNameIsAvailable) MarshalBody(w *wire.Writer)   { w.WriteString(p.Name, CharNameLength) }
func (p *CheckNameIsAvailable) UnmarshalBody(r *wire.Reader) { p.Name = r.ReadString(CharNameLength) }

// NameIsAvailableResponse answers CheckNameIsAvailable.
type NameIsAvailableResponse struct {
	Free uint8
}

func (*NameIsAvailableResponse) CustomOpcode() CustomOpcode { return CustomNameIsAvailableResponse }

func (p *NameIsAvailableResponse) MarshalBody(w *wire.Writer) {
	w.WriteU8(p.Free)
	w.Pad(7)
}

func (p *NameIsAvailableResponse) UnmarshalBody(r *wire.Reader) {
	p.Free = r.ReadU8()
	r.Skip(7)
}

// RequestCharacterList asks the world for an account's characters.
type RequestCharacterList struct {
	ServiceAccountID uint32
}

func (*RequestCharacterList) CustomOpcode() CustomOpcode { return CustomRequestCharacterList }

func (p *RequestCharacterList) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.ServiceAccountID)
	w.Pad(4)
}

func (p *RequestCharacterList) UnmarshalBody(r *wire.Reader) {
	p.ServiceAccountID = r.ReadU32()
	r.Skip(4)
}

// CharacterListEntry is one character in CharacterListResponse.
type CharacterListEntry struct {
	ContentID uint64
	ActorID   uint32
	WorldID   uint16
	Name      string // 32 bytes
	Json      string // 256 bytes
}

// MaxCharactersPerAccount caps the roster.
const MaxCharactersPerAccount = 8

// CharacterListResponse answers RequestCharacterList.
type CharacterListResponse struct {
	NumCharacters uint8
	Characters    [MaxCharactersPerAccount]CharacterListEntry
}

func (*CharacterListResponse) CustomOpcode() CustomOpcode { return CustomCharacterListResponse }

func (p *CharacterListResponse) MarshalBody(w *wire.Writer) {
	w.WriteU8(p.NumCharacters)
	w.Pad(7)
	for i := range p.Characters {
		c := &p.Characters[i]
		w.WriteU64(c.ContentID)
		w.WriteU32(c.ActorID)
		w.WriteU16(c.WorldID)
		w.Pad(2)
		w.WriteString(c.Name, CharNameLength)
		w.WriteString(c.Json, 256)
	}
}

func (p *CharacterListResponse) UnmarshalBody(r *wire.Reader) {
	p.NumCharacters = r.ReadU8()
	r.Skip(7)
	for i := range p.Characters {
		c := &p.Characters[i]
		c.ContentID = r.ReadU64()
		c.ActorID = r.ReadU32()
		c.WorldID = r.ReadU16()
		r.Skip(2)
		c.Name = r.ReadString(CharNameLength)
		c.Json = r.ReadString(256)
	}
}

// DeleteCharacter asks the world to delete a character.
type DeleteCharacter struct {
	ContentID uint64
}

func (*DeleteCharacter) CustomOpcode() CustomOpcode { return CustomDeleteCharacter }

func (p *DeleteCharacter) MarshalBody(w *wire.Writer)   { w.WriteU64(p.ContentID) }
func (p *DeleteCharacter) UnmarshalBody(r *wire.Reader) { p.ContentID = r.ReadU64() }

// CharacterDeleted answers DeleteCharacter.
type CharacterDeleted struct {
	Deleted uint8
}

func (*CharacterDeleted) CustomOpcode() CustomOpcode { return CustomCharacterDeleted }

func (p *CharacterDeleted) MarshalBody(w *wire.Writer) {
	w.WriteU8(p.Deleted)
	w.Pad(7)
}

func (p *CharacterDeleted) UnmarshalBody(r *wire.Reader) {
	p.Deleted = r.ReadU8()
	r.Skip(7)
}

// UnknownCustom preserves an unrecognized opcode losslessly.
type UnknownCustom struct {
	Opcode uint16
	Data   []byte
}

func (p *UnknownCustom) CustomOpcode() CustomOpcode   { return CustomOpcode(p.Opcode) }
func (p *UnknownCustom) MarshalBody(w *wire.Writer)   { w.WriteBytes(p.Data) }
func (p *UnknownCustom) UnmarshalBody(r *wire.Reader) { p.Data = r.ReadBytes(r.Remaining()) }

// DecodeCustom cracks a server-to-server envelope into its payload.
func DecodeCustom(envelope []byte) (Header, CustomPayload, error) {
	h, body, err := splitEnvelope(envelope)
	if err != nil {
		return Header{}, nil, err
	}
	var p CustomPayload
	op := CustomOpcode(h.Opcode)
	switch op {
	case CustomRequestCreateCharacter:
		p = &RequestCreateCharacter{}
	case CustomCharacterCreated:
		p = &CharacterCreated{}
	case CustomGetActorId:
		p = &GetActorId{}
	case CustomActorIdFound:
		p = &ActorIdFound{}
	case CustomCheckNameIsAvailable:
		p = &CheckNameIsAvailable{}
	case CustomNameIsAvailableResponse:
		p = &NameIsAvailableResponse{}
	case CustomRequestCharacterList:
		p = &RequestCharacterList{}
	case CustomCharacterListResponse:
		p = &CharacterListResponse{}
	case CustomDeleteCharacter:
		p = &DeleteCharacter{}
	case CustomCharacterDeleted:
		p = &CharacterDeleted{}
	default:
		u := &UnknownCustom{Opcode: h.Opcode}
		u.UnmarshalBody(wire.NewReader(body))
		return h, u, nil
	}
	sz, sized := op.Size()
	if err := decodeBody(h.Opcode, p, body, sz, sized); err != nil {
		return Header{}, nil, err
	}
	return h, p, nil
}

// EncodeCustom builds a server-to-server envelope.
func EncodeCustom(serverID uint16, p CustomPayload) ([]byte, error) {
	op := p.CustomOpcode()
	sz, sized := op.Size()
	return encodeEnvelope(uint16(op), serverID, p, sz, sized)
}
