package zone

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/config"
	"github.com/xivgo/server/internal/data"
	"github.com/xivgo/server/internal/ipc"
	"github.com/xivgo/server/internal/packet"
	"github.com/xivgo/server/internal/persist"
	"github.com/xivgo/server/internal/scripting"
	"github.com/xivgo/server/internal/world"
)

// Phase is the zone connection's protocol state.
type Phase int

const (
	PhaseHandshake Phase = iota
	PhaseZoneEntering
	PhaseZoneActive
	PhaseTeleporting
	PhaseLogout
)

func (p Phase) String() string {
	switch p {
	case PhaseHandshake:
		return "Handshake"
	case PhaseZoneEntering:
		return "ZoneEntering"
	case PhaseZoneActive:
		return "ZoneActive"
	case PhaseTeleporting:
		return "Teleporting"
	case PhaseLogout:
		return "Logout"
	default:
		return "Invalid"
	}
}

// Database is the persistence boundary the zone role needs: character
// state for its own sessions plus the roster operations served to the
// lobby over the private channel.
type Database interface {
	GetByContentID(ctx context.Context, contentID uint64) (persist.CharacterRow, error)
	Save(ctx context.Context, row *persist.CharacterRow) error
	ListByServiceAccount(ctx context.Context, accountID uint32) ([]persist.CharacterRow, error)
	NameTaken(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, row *persist.CharacterRow) (uint64, error)
	Delete(ctx context.Context, contentID uint64) error
	NextActorID(ctx context.Context) (uint32, error)
}

// Deps carries the process-wide collaborators into every connection.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	GameData data.GameData
	DB       Database
	Engine   *scripting.Engine
	World    chan<- world.ToServer
}

// codecOffenseWindow closes the connection when two codec errors land
// within it.
const codecOffenseWindow = time.Second

// Connection drives one zone socket through its session state machine.
type Connection struct {
	deps Deps
	conn net.Conn
	id   world.ClientId
	log  *zap.Logger

	state *packet.ConnectionState

	// phase is read by the read loop (deadline selection) and written by
	// the logic loop, so it lives in an atomic.
	phase  atomic.Int32
	player *Player
	event  *activeEvent

	inbound   chan ipc.ClientZonePayload
	fromWorld chan world.FromServer
	sendQ     chan []packet.Segment

	writeMu   sync.Mutex
	closeCh   chan struct{}
	closeOnce sync.Once

	lastCodecErr time.Time
}

// NewConnection wraps an accepted zone socket.
func NewConnection(conn net.Conn, id uint64, deps Deps) *Connection {
	state := packet.NewConnectionState()
	state.Phase = packet.PhaseZone
	c := &Connection{
		deps:      deps,
		conn:      conn,
		id:        world.ClientId(id),
		log:       deps.Log.With(zap.Uint64("session", id)),
		state:     state,
		inbound:   make(chan ipc.ClientZonePayload, 64),
		fromWorld: make(chan world.FromServer, deps.Config.World.SendQueueSize),
		sendQ:     make(chan []packet.Segment, deps.Config.World.SendQueueSize),
		closeCh:   make(chan struct{}),
	}
	c.setPhase(PhaseHandshake)
	return c
}

// Phase returns the session's protocol state.
func (c *Connection) Phase() Phase {
	return Phase(c.phase.Load())
}

func (c *Connection) setPhase(p Phase) {
	c.phase.Store(int32(p))
}

// Run services the connection until the socket dies or logout completes.
func (c *Connection) Run() {
	defer c.Close()

	go c.readLoop()
	go c.writeLoop()

	for {
		select {
		case <-c.closeCh:
			return
		case payload := <-c.inbound:
			c.dispatch(payload)
		case msg := <-c.fromWorld:
			c.handleWorld(msg)
		}
	}
}

// Close tears the session down once: persists the player, tells the world,
// closes the socket.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.closeCh)
		c.conn.Close()
		if c.player != nil {
			c.flushPlayer()
			c.deps.World <- world.ClientDisconnected{ID: c.id}
		}
		c.log.Info("區域連線關閉", zap.String("phase", c.Phase().String()))
	})
}

func (c *Connection) flushPlayer() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := c.player.toRow()
	if err := c.deps.DB.Save(ctx, &row); err != nil {
		c.log.Error("角色存檔失敗", zap.Uint64("content_id", c.player.ContentID), zap.Error(err))
	}
}

// readLoop parses frames off the socket. Keep-alives are answered inline;
// IPC segments are decoded and queued for the logic loop.
func (c *Connection) readLoop() {
	defer c.Close()

	maxSize := uint32(c.deps.Config.Game.ReceiveBufferSize)
	for {
		if c.Phase() == PhaseHandshake {
			c.conn.SetReadDeadline(time.Now().Add(c.deps.Config.Game.HandshakeTimeout))
		} else {
			c.conn.SetReadDeadline(time.Time{})
		}

		_, segments, err := packet.ReadPacket(c.conn, c.state, maxSize)
		if err != nil {
			if c.handleReadError(err) {
				return
			}
			continue
		}

		for i := range segments {
			if c.handleSegment(&segments[i]) {
				return
			}
		}
	}
}

// handleReadError classifies a read failure. Transport errors kill the
// connection; codec errors discard the packet, and repeated offenses within
// one second also close.
func (c *Connection) handleReadError(err error) (fatal bool) {
	var netErr net.Error
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) || errors.As(err, &netErr) {
		return true
	}

	now := time.Now()
	if now.Sub(c.lastCodecErr) < codecOffenseWindow {
		c.log.Warn("連續封包解碼錯誤，關閉連線", zap.Error(err))
		return true
	}
	c.lastCodecErr = now
	c.log.Warn("封包已丟棄", zap.Error(err))
	return false
}

// handleSegment processes one inbound segment on the read path. Returns
// true when the read loop should stop.
func (c *Connection) handleSegment(seg *packet.Segment) bool {
	switch d := seg.Data.(type) {
	case packet.KeepAliveData:
		if !d.Response {
			c.writeMu.Lock()
			err := packet.SendKeepAlive(c.conn, c.state, packet.ConnectionZone, d.ID, d.Timestamp)
			c.writeMu.Unlock()
			if err != nil {
				return true
			}
		}
	case packet.SetupData:
		// The actor id arrives with GameLogin; acknowledge the session.
		c.writeSegments([]packet.Segment{{
			Data: packet.InitializeData{ActorID: 0, Timestamp: common.TimestampSecs()},
		}})
	case packet.IpcData:
		_, payload, err := ipc.DecodeClientZone(d.Envelope)
		if err != nil {
			c.log.Warn("IPC 解碼失敗", zap.Error(err))
			return false
		}
		select {
		case c.inbound <- payload:
		case <-c.closeCh:
			return true
		}
	case packet.CustomIpcData:
		// Private server-to-server request on the world port.
		c.handleCustom(d)
	default:
		c.log.Warn("區域連線收到未預期的 segment", zap.Uint16("type", uint16(seg.Type())))
	}
	return false
}

// writeLoop flushes queued segment batches to the socket.
func (c *Connection) writeLoop() {
	defer c.Close()

	for {
		select {
		case segments := <-c.sendQ:
			if err := c.writeSegments(segments); err != nil {
				if !errors.Is(err, net.ErrClosed) {
					c.log.Debug("寫入錯誤", zap.Error(err))
				}
				return
			}
		case <-c.closeCh:
			return
		}
	}
}

func (c *Connection) writeSegments(segments []packet.Segment) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return packet.SendPacket(c.conn, c.state, packet.ConnectionZone, packet.CompressionOodle, segments)
}

// queueSegments enqueues a batch; a stuck writer disconnects the client
// rather than blocking the logic loop.
func (c *Connection) queueSegments(segments []packet.Segment) {
	select {
	case c.sendQ <- segments:
	default:
		c.log.Warn("輸出佇列已滿，斷開慢速連線")
		c.Close()
	}
}

// sendIpc wraps one payload in an IPC segment addressed from and to the
// player actor.
func (c *Connection) sendIpc(p ipc.ServerZonePayload) {
	c.sendIpcTo(p, c.actorID(), c.actorID())
}

func (c *Connection) sendIpcTo(p ipc.ServerZonePayload, source, target common.ObjectId) {
	envelope, err := ipc.EncodeServerZone(c.deps.Config.World.ServerID, p)
	if err != nil {
		c.log.Error("IPC 編碼失敗", zap.Error(err))
		return
	}
	c.queueSegments([]packet.Segment{{
		Source: uint32(source),
		Target: uint32(target),
		Data:   packet.IpcData{Envelope: envelope},
	}})
}

func (c *Connection) actorID() common.ObjectId {
	if c.player != nil {
		return c.player.ActorID
	}
	return 0
}

// nack reports a rejected request without closing the connection.
func (c *Connection) nack(code uint32, message string) {
	c.sendIpc(&ipc.ZoneNackReply{ErrorCode: code, Message: message})
}

// dispatch routes one decoded client payload by phase and type.
func (c *Connection) dispatch(payload ipc.ClientZonePayload) {
	switch p := payload.(type) {
	case *ipc.ZoneGameLogin:
		if c.Phase() != PhaseHandshake {
			c.nack(1, "already logged in")
			return
		}
		c.handleGameLogin(p)
	case *ipc.FinishLoading:
		if c.Phase() != PhaseZoneEntering {
			c.nack(2, "not entering a zone")
			return
		}
		c.handleFinishLoading()
	case *ipc.ClientTrigger:
		if !c.inWorld() {
			c.nack(3, "not in world")
			return
		}
		c.handleClientTrigger(p)
	case *ipc.SendChatMessage:
		if !c.inWorld() {
			return
		}
		c.handleChat(p)
	case *ipc.ItemOperation:
		if !c.inWorld() {
			c.nack(4, "not in world")
			return
		}
		c.handleItemOperation(p)
	case *ipc.ActionRequest:
		if c.Phase() != PhaseZoneActive {
			// Action in ZoneEntering is a protocol error, not fatal.
			c.nack(5, "not ready")
			return
		}
		c.handleActionRequest(p)
	case *ipc.StartTalkEvent:
		if c.Phase() != PhaseZoneActive {
			return
		}
		c.handleStartTalkEvent(p)
	case *ipc.EventReturnHandler:
		c.handleEventReturn(p)
	case *ipc.EventYieldHandler:
		c.handleEventYield(p)
	case *ipc.UpdatePosition:
		if !c.inWorld() {
			return
		}
		c.handleUpdatePosition(p)
	case *ipc.LogOut:
		c.handleLogOut()
	case *ipc.UnknownClientZone:
		c.log.Debug("未知操作碼", zap.Uint16("opcode", p.Opcode), zap.Int("size", len(p.Data)))
	}
}

func (c *Connection) inWorld() bool {
	p := c.Phase()
	return p == PhaseZoneActive || p == PhaseTeleporting
}

// handleWorld applies one world fan-out message to the client.
func (c *Connection) handleWorld(msg world.FromServer) {
	switch m := msg.(type) {
	case world.SpawnPlayer:
		spawn := m.Spawn
		c.sendIpcTo(&spawn, m.ActorID, c.actorID())
	case world.SpawnNpcActor:
		spawn := m.Spawn
		c.sendIpcTo(&spawn, m.ActorID, c.actorID())
	case world.SpawnObjectEntity:
		spawn := m.Spawn
		c.sendIpcTo(&spawn, m.ActorID, c.actorID())
	case world.DespawnIndex:
		c.sendIpcTo(&ipc.Despawn{SpawnIndex: m.SpawnIndex, ActorID: m.ActorID}, m.ActorID, c.actorID())
	case world.MoveActor:
		c.sendIpcTo(&ipc.ActorMove{
			Speed:    m.Speed,
			Rotation: m.Rotation,
			Position: m.Position,
		}, m.ActorID, c.actorID())
	case world.ControlActor:
		ctl := m.Data
		c.sendIpcTo(&ctl, m.ActorID, c.actorID())
	case world.ControlTargetActor:
		ctl := m.Data
		c.sendIpcTo(&ctl, m.ActorID, c.actorID())
	case world.ControlSelf:
		ctl := m.Data
		c.sendIpc(&ctl)
	case world.ChatFanout:
		c.sendIpcTo(&ipc.ZoneChatMessage{
			SenderActorID: uint32(m.SenderActorID),
			Channel:       uint8(m.Channel),
			SenderName:    m.SenderName,
			Message:       m.Text,
		}, m.SenderActorID, c.actorID())
	case world.EffectTick:
		c.tickEffects(m.Dt)
	case world.ReloadScriptsNotice:
		if err := c.deps.Engine.Reload(); err != nil {
			c.log.Error("腳本重新載入失敗", zap.Error(err))
		}
	}
}

// tickEffects expires timed status effects and pushes the delta when dirty.
func (c *Connection) tickEffects(dt float32) {
	if c.player == nil {
		return
	}
	c.player.Effects.Tick(dt)
	if c.player.Effects.IsDirty() {
		c.sendStatusEffectList()
		c.player.Effects.ResetDirty()
	}
}

func (c *Connection) sendStatusEffectList() {
	list := &ipc.StatusEffectList{
		ClassJob:  c.player.ClassJob,
		Level:     uint8(c.player.level()),
		CurrentHP: c.player.HP,
		MaxHP:     c.player.MaxHP,
		CurrentMP: uint16(c.player.MP),
		MaxMP:     uint16(c.player.MaxMP),
	}
	for i, e := range c.player.Effects.Data() {
		if i >= ipc.MaxDisplayedStatusEffects {
			break
		}
		list.Effects[i] = e
	}
	c.sendIpc(list)
}
