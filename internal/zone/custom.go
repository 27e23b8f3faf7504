package zone

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc"
	"github.com/xivgo/server/internal/packet"
	"github.com/xivgo/server/internal/persist"
)

// handleCustom services one request on the private server-to-server
// channel. The lobby dials the world port with connection_type=0xFFFF and
// expects a single reply segment.
func (c *Connection) handleCustom(d packet.CustomIpcData) {
	_, payload, err := ipc.DecodeCustom(d.Envelope)
	if err != nil {
		c.log.Warn("custom ipc 解碼失敗", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reply ipc.CustomPayload
	switch p := payload.(type) {
	case *ipc.CheckNameIsAvailable:
		reply = c.customCheckName(ctx, p)
	case *ipc.RequestCreateCharacter:
		reply = c.customCreateCharacter(ctx, p)
	case *ipc.RequestCharacterList:
		reply = c.customCharacterList(ctx, p)
	case *ipc.DeleteCharacter:
		reply = c.customDeleteCharacter(ctx, p)
	case *ipc.GetActorId:
		reply = c.customGetActorID(ctx, p)
	default:
		c.log.Warn("未知的 custom ipc 請求", zap.Any("payload", payload))
		return
	}

	envelope, err := ipc.EncodeCustom(c.deps.Config.World.ServerID, reply)
	if err != nil {
		c.log.Error("custom ipc 編碼失敗", zap.Error(err))
		return
	}
	if err := c.writeCustom(envelope); err != nil {
		c.log.Debug("custom ipc 回覆失敗", zap.Error(err))
	}
}

func (c *Connection) writeCustom(envelope []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return packet.SendPacket(c.conn, c.state, packet.ConnectionCustom, packet.CompressionNone,
		[]packet.Segment{{Data: packet.CustomIpcData{Envelope: envelope}}})
}

func (c *Connection) customCheckName(ctx context.Context, p *ipc.CheckNameIsAvailable) ipc.CustomPayload {
	taken, err := c.deps.DB.NameTaken(ctx, p.Name)
	if err != nil {
		c.log.Error("名稱查詢失敗", zap.Error(err))
		return &ipc.NameIsAvailableResponse{Free: 0}
	}
	if taken {
		return &ipc.NameIsAvailableResponse{Free: 0}
	}
	return &ipc.NameIsAvailableResponse{Free: 1}
}

func (c *Connection) customCreateCharacter(ctx context.Context, p *ipc.RequestCreateCharacter) ipc.CustomPayload {
	taken, err := c.deps.DB.NameTaken(ctx, p.Name)
	if err != nil || taken {
		return &ipc.CharacterCreated{}
	}

	actorID, err := c.deps.DB.NextActorID(ctx)
	if err != nil {
		c.log.Error("actor id 分配失敗", zap.Error(err))
		return &ipc.CharacterCreated{}
	}

	// Starting state comes from the chara-make payload where present.
	zoneID := uint16(182)
	classJob := uint8(1)
	var charaMake struct {
		ClassJob uint8  `json:"classjob_id"`
		ZoneID   uint16 `json:"zone_id"`
	}
	if json.Unmarshal([]byte(p.CharaMakeJson), &charaMake) == nil {
		if charaMake.ClassJob != 0 {
			classJob = charaMake.ClassJob
		}
		if charaMake.ZoneID != 0 {
			zoneID = charaMake.ZoneID
		}
	}

	row := persist.CharacterRow{
		ActorID:          actorID,
		ServiceAccountID: p.ServiceAccountID,
		Name:             p.Name,
		CharaMake:        p.CharaMakeJson,
		ZoneID:           zoneID,
		ClassJob:         classJob,
		Levels:           map[uint8]uint16{classJob: 1},
		Exp:              map[uint8]uint32{},
		HP:               100,
		MP:               100,
	}
	contentID, err := c.deps.DB.Create(ctx, &row)
	if err != nil {
		c.log.Error("角色建立失敗", zap.String("name", p.Name), zap.Error(err))
		return &ipc.CharacterCreated{}
	}
	c.log.Info("角色已建立", zap.String("name", p.Name), zap.Uint64("content_id", contentID))
	return &ipc.CharacterCreated{ActorID: actorID, ContentID: contentID}
}

func (c *Connection) customCharacterList(ctx context.Context, p *ipc.RequestCharacterList) ipc.CustomPayload {
	rows, err := c.deps.DB.ListByServiceAccount(ctx, p.ServiceAccountID)
	if err != nil {
		c.log.Error("角色清單查詢失敗", zap.Error(err))
		return &ipc.CharacterListResponse{}
	}

	resp := &ipc.CharacterListResponse{}
	for i, row := range rows {
		if i >= ipc.MaxCharactersPerAccount {
			break
		}
		resp.Characters[i] = ipc.CharacterListEntry{
			ContentID: row.ContentID,
			ActorID:   row.ActorID,
			WorldID:   c.deps.Config.Lobby.WorldID,
			Name:      row.Name,
			Json:      row.CharaMake,
		}
		resp.NumCharacters++
	}
	return resp
}

func (c *Connection) customDeleteCharacter(ctx context.Context, p *ipc.DeleteCharacter) ipc.CustomPayload {
	if err := c.deps.DB.Delete(ctx, p.ContentID); err != nil {
		if !errors.Is(err, persist.ErrCharacterNotFound) {
			c.log.Error("角色刪除失敗", zap.Error(err))
		}
		return &ipc.CharacterDeleted{Deleted: 0}
	}
	return &ipc.CharacterDeleted{Deleted: 1}
}

func (c *Connection) customGetActorID(ctx context.Context, p *ipc.GetActorId) ipc.CustomPayload {
	row, err := c.deps.DB.GetByContentID(ctx, p.ContentID)
	if err != nil {
		return &ipc.ActorIdFound{ActorID: uint32(common.InvalidObjectId)}
	}
	return &ipc.ActorIdFound{ActorID: row.ActorID}
}
