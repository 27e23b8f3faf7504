package chat

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/config"
	"github.com/xivgo/server/internal/ipc"
	"github.com/xivgo/server/internal/packet"
	"github.com/xivgo/server/internal/persist"
)

// Database is the persistence boundary the chat role needs.
type Database interface {
	GetByContentID(ctx context.Context, contentID uint64) (persist.CharacterRow, error)
}

// Deps carries the chat role's collaborators.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       Database
	Registry *Registry
}

// Connection drives one chat socket: identity setup, channel joins, tell
// and party routing.
type Connection struct {
	deps Deps
	conn net.Conn
	log  *zap.Logger

	state *packet.ConnectionState

	contentID uint64
	actorID   common.ObjectId
	name      string
	ready     bool

	writeMu sync.Mutex
}

// NewConnection wraps an accepted chat socket.
func NewConnection(conn net.Conn, id uint64, deps Deps) *Connection {
	state := packet.NewConnectionState()
	state.Phase = packet.PhaseChat
	return &Connection{
		deps:  deps,
		conn:  conn,
		log:   deps.Log.With(zap.Uint64("session", id)),
		state: state,
	}
}

// Run services the connection until the socket dies.
func (c *Connection) Run() {
	defer func() {
		if c.ready {
			c.deps.Registry.remove(c)
		}
		c.conn.Close()
	}()

	maxSize := uint32(c.deps.Config.Game.ReceiveBufferSize)
	for {
		if !c.ready {
			c.conn.SetReadDeadline(time.Now().Add(c.deps.Config.Game.HandshakeTimeout))
		} else {
			c.conn.SetReadDeadline(time.Time{})
		}

		_, segments, err := packet.ReadPacket(c.conn, c.state, maxSize)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.log.Debug("讀取錯誤", zap.Error(err))
			}
			return
		}
		for i := range segments {
			if err := c.handleSegment(&segments[i]); err != nil {
				c.log.Warn("聊天協議錯誤", zap.Error(err))
				return
			}
		}
	}
}

func (c *Connection) handleSegment(seg *packet.Segment) error {
	switch d := seg.Data.(type) {
	case packet.SetupData:
		return c.handleSetup(d)
	case packet.KeepAliveData:
		if !d.Response {
			c.writeMu.Lock()
			defer c.writeMu.Unlock()
			return packet.SendKeepAlive(c.conn, c.state, packet.ConnectionChat, d.ID, d.Timestamp)
		}
		return nil
	case packet.IpcData:
		if !c.ready {
			return errors.New("chat ipc before setup")
		}
		return c.handleIpc(d.Envelope)
	default:
		return nil
	}
}

// handleSetup binds the session to a character; the ticket carries the
// content id issued at zone login.
func (c *Connection) handleSetup(d packet.SetupData) error {
	contentID, err := strconv.ParseUint(d.Ticket, 10, 64)
	if err != nil {
		return errors.New("malformed chat ticket")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row, err := c.deps.DB.GetByContentID(ctx, contentID)
	if err != nil {
		return errors.New("unknown character on chat setup")
	}

	c.contentID = contentID
	c.actorID = common.ObjectId(row.ActorID)
	c.name = row.Name
	c.ready = true
	c.deps.Registry.add(c)
	c.log = c.log.With(zap.String("character", c.name))

	return c.send([]packet.Segment{{
		Data: packet.InitializeData{ActorID: row.ActorID, Timestamp: common.TimestampSecs()},
	}})
}

func (c *Connection) handleIpc(envelope []byte) error {
	_, payload, err := ipc.DecodeClientChat(envelope)
	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case *ipc.SendTellMessage:
		c.handleTell(p)
	case *ipc.SendPartyMessage:
		c.handleParty(p)
	case *ipc.JoinChatChannel:
		c.deps.Registry.joinParty(p.Channel, c)
		return c.sendIpc(&ipc.ChatChannelJoinResult{Channel: p.Channel, Result: 1})
	case *ipc.UnknownClientChat:
		c.log.Debug("未知操作碼", zap.Uint16("opcode", p.Opcode))
	}
	return nil
}

// handleTell routes a private message by content id first, then name.
func (c *Connection) handleTell(p *ipc.SendTellMessage) {
	text := norm.NFC.String(p.Message)
	if text == "" {
		return
	}

	recipient, ok := c.deps.Registry.findByContent(p.RecipientContentID)
	if !ok {
		recipient, ok = c.deps.Registry.findByName(p.RecipientName)
	}
	if !ok {
		c.log.Debug("密語對象不在線", zap.String("recipient", p.RecipientName))
		return
	}

	err := recipient.sendIpc(&ipc.TellMessage{
		SenderContentID: c.contentID,
		WorldID:         c.deps.Config.Lobby.WorldID,
		SenderName:      c.name,
		Message:         text,
	})
	if err != nil {
		c.log.Debug("密語傳送失敗", zap.Error(err))
	}
}

// handleParty fans a line out to every member of the party channel.
func (c *Connection) handleParty(p *ipc.SendPartyMessage) {
	text := norm.NFC.String(p.Message)
	if text == "" {
		return
	}
	for _, member := range c.deps.Registry.partyMembers(p.PartyChannel) {
		if member == c {
			continue
		}
		if err := member.sendIpc(&ipc.PartyMessage{
			PartyChannel:  p.PartyChannel,
			SenderActorID: uint32(c.actorID),
			SenderName:    c.name,
			Message:       text,
		}); err != nil {
			c.log.Debug("隊伍訊息傳送失敗", zap.Error(err))
		}
	}
}

func (c *Connection) sendIpc(p ipc.ServerChatPayload) error {
	envelope, err := ipc.EncodeServerChat(c.deps.Config.World.ServerID, p)
	if err != nil {
		return err
	}
	return c.send([]packet.Segment{{
		Source: uint32(c.actorID),
		Target: uint32(c.actorID),
		Data:   packet.IpcData{Envelope: envelope},
	}})
}

func (c *Connection) send(segments []packet.Segment) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return packet.SendPacket(c.conn, c.state, packet.ConnectionChat, packet.CompressionNone, segments)
}
