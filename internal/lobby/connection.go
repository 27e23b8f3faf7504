package lobby

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/config"
	"github.com/xivgo/server/internal/ipc"
	"github.com/xivgo/server/internal/packet"
)

// Phase is the lobby connection's protocol state.
type Phase int

const (
	PhaseHandshake Phase = iota // before the key exchange
	PhaseKeyed                  // encrypted window open
	PhaseCharList               // service account picked
	PhaseHandoff                // GameLoginReply sent
)

// Connection drives one lobby socket: key exchange, account and character
// list delivery, character actions, and the hand-off to the zone server.
type Connection struct {
	cfg  *config.Config
	conn net.Conn
	log  *zap.Logger

	state *packet.ConnectionState
	phase Phase

	serviceAccountID uint32
	sequence         uint64

	writeMu sync.Mutex
}

// NewConnection wraps an accepted lobby socket.
func NewConnection(conn net.Conn, id uint64, cfg *config.Config, log *zap.Logger) *Connection {
	return &Connection{
		cfg:   cfg,
		conn:  conn,
		log:   log.With(zap.Uint64("session", id)),
		state: packet.NewConnectionState(),
		phase: PhaseHandshake,
	}
}

// Run services the connection until the client disconnects or the hand-off
// completes.
func (c *Connection) Run() {
	defer c.conn.Close()

	maxSize := uint32(c.cfg.Game.ReceiveBufferSize)
	for {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.Game.HandshakeTimeout))

		_, segments, err := packet.ReadPacket(c.conn, c.state, maxSize)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.log.Debug("讀取錯誤", zap.Error(err))
			}
			return
		}
		for i := range segments {
			if err := c.handleSegment(&segments[i]); err != nil {
				c.log.Warn("大廳協議錯誤", zap.Error(err))
				return
			}
		}
	}
}

func (c *Connection) handleSegment(seg *packet.Segment) error {
	switch d := seg.Data.(type) {
	case packet.KeyInitData:
		return c.handleKeyInit(d)
	case packet.KeepAliveData:
		if !d.Response {
			c.writeMu.Lock()
			defer c.writeMu.Unlock()
			return packet.SendKeepAlive(c.conn, c.state, packet.ConnectionLobby, d.ID, d.Timestamp)
		}
		return nil
	case packet.IpcData:
		return c.handleIpc(d.Envelope)
	default:
		return fmt.Errorf("unexpected segment type 0x%X in lobby", uint16(seg.Type()))
	}
}

// handleKeyInit derives the Blowfish session key and opens the encrypted
// window.
func (c *Connection) handleKeyInit(d packet.KeyInitData) error {
	if c.phase != PhaseHandshake {
		return fmt.Errorf("key init after handshake")
	}
	c.state.SetLobbyKey(d.Key[:], d.Phrase, c.cfg.Game.Version)
	c.phase = PhaseKeyed

	return c.send([]packet.Segment{{
		Data: packet.KeyResponseData{},
	}})
}

func (c *Connection) handleIpc(envelope []byte) error {
	if c.state.ClientKey == nil {
		// Encryption key absent during the lobby phase is a hard error.
		return fmt.Errorf("ipc before key exchange")
	}
	_, payload, err := ipc.DecodeClientLobby(envelope)
	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case *ipc.LoginEx:
		c.sequence = p.Sequence
		return c.handleLoginEx(p)
	case *ipc.ServiceLogin:
		c.sequence = p.Sequence
		return c.handleServiceLogin(p)
	case *ipc.CharaMake:
		c.sequence = p.Sequence
		return c.handleCharaMake(p)
	case *ipc.GameLogin:
		c.sequence = p.Sequence
		return c.handleGameLogin(p)
	case *ipc.UnknownClientLobby:
		c.log.Debug("未知操作碼", zap.Uint16("opcode", p.Opcode))
		return nil
	default:
		return nil
	}
}

// handleLoginEx answers with the session's service accounts.
func (c *Connection) handleLoginEx(p *ipc.LoginEx) error {
	if p.SessionID == "" {
		return c.nack(1000, "missing session ticket")
	}

	reply := &ipc.LoginReply{
		Sequence:           p.Sequence,
		NumServiceAccounts: 1,
	}
	reply.ServiceAccounts[0] = ipc.ServiceAccount{
		ID:   1,
		Name: "FINAL FANTASY XIV",
	}
	return c.sendIpc(reply)
}

// handleServiceLogin advertises the world and streams the character roster.
func (c *Connection) handleServiceLogin(p *ipc.ServiceLogin) error {
	c.serviceAccountID = p.AccountID
	if c.serviceAccountID == 0 {
		c.serviceAccountID = 1
	}
	c.phase = PhaseCharList

	list := &ipc.ServerList{
		Sequence: p.Sequence,
		Final:    1,
		Num:      1,
	}
	list.Servers[0] = ipc.Server{
		ID:   c.cfg.Lobby.WorldID,
		Name: c.cfg.Lobby.WorldName,
	}
	if err := c.sendIpc(list); err != nil {
		return err
	}
	return c.sendCharacterList(p.Sequence)
}

// sendCharacterList pulls the roster from the world over the private
// channel and relays it, two characters per packet.
func (c *Connection) sendCharacterList(sequence uint64) error {
	roster, err := c.worldCharacterList()
	if err != nil {
		c.log.Error("角色清單查詢失敗", zap.Error(err))
		return c.nack(1001, "world server unavailable")
	}

	total := int(roster.NumCharacters)
	packets := total/2 + 1
	for i := 0; i < packets; i++ {
		list := &ipc.CharacterList{
			Sequence: sequence,
			Counter:  uint8(i*4) + 1,
		}
		if i == packets-1 {
			list.Counter = uint8(i*4) + 2 // final packet marker
		}
		for j := 0; j < 2; j++ {
			idx := i*2 + j
			if idx >= total {
				break
			}
			src := roster.Characters[idx]
			list.Characters[j] = ipc.CharacterDetails{
				ContentID:     src.ContentID,
				Index:         uint8(idx),
				OriginServer:  c.cfg.Lobby.WorldID,
				CurrentServer: c.cfg.Lobby.WorldID,
				Name:          src.Name,
				Json:          src.Json,
			}
			list.NumInPacket++
		}
		if err := c.sendIpc(list); err != nil {
			return err
		}
	}
	return nil
}

// handleCharaMake performs one character-list action, coordinating with the
// world over the private channel.
func (c *Connection) handleCharaMake(p *ipc.CharaMake) error {
	if c.phase != PhaseCharList {
		return c.nack(1002, "no service account selected")
	}

	name := strings.TrimSpace(norm.NFC.String(p.Name))
	switch p.Action {
	case ipc.CharaActionReserveName:
		if name == "" || len(name) > ipc.CharNameLength {
			return c.sendIpc(&ipc.CharaMakeReply{Sequence: p.Sequence, Status: charaMakeNameRejected})
		}
		free, err := c.worldNameAvailable(name)
		if err != nil {
			return c.nack(1003, "world server unavailable")
		}
		status := uint32(charaMakeOk)
		if !free {
			status = charaMakeNameTaken
		}
		return c.sendIpc(&ipc.CharaMakeReply{Sequence: p.Sequence, Status: status})

	case ipc.CharaActionCreate:
		created, err := c.worldCreateCharacter(name, p.Json)
		if err != nil {
			c.log.Error("角色建立失敗", zap.String("name", name), zap.Error(err))
			return c.sendIpc(&ipc.CharaMakeReply{Sequence: p.Sequence, Status: charaMakeNameRejected})
		}
		return c.sendIpc(&ipc.CharaMakeReply{
			Sequence:  p.Sequence,
			ContentID: created.ContentID,
			Status:    charaMakeOk,
		})

	case ipc.CharaActionDelete:
		if err := c.worldDeleteCharacter(p.ContentID); err != nil {
			return c.nack(1004, "delete failed")
		}
		return c.sendIpc(&ipc.CharaMakeReply{
			Sequence:  p.Sequence,
			ContentID: p.ContentID,
			Status:    charaMakeOk,
		})

	default:
		return c.sendIpc(&ipc.CharaMakeReply{Sequence: p.Sequence, Status: charaMakeNameRejected})
	}
}

const (
	charaMakeOk           = 0
	charaMakeNameTaken    = 0x131
	charaMakeNameRejected = 0x132
)

// handleGameLogin hands the session off to the zone server.
func (c *Connection) handleGameLogin(p *ipc.GameLogin) error {
	actorID, err := c.worldActorID(p.ContentID)
	if err != nil {
		return c.nack(1005, "unknown character")
	}

	host, port := splitHostPort(c.cfg.World.PublicHost)
	reply := &ipc.GameLoginReply{
		Sequence:  p.Sequence,
		ActorID:   actorID,
		ContentID: p.ContentID,
		Token:     uint32(time.Now().UnixNano() & 0x7FFFFFFF),
		Port:      port,
		Host:      host,
	}
	c.phase = PhaseHandoff
	return c.sendIpc(reply)
}

func splitHostPort(addr string) (string, uint16) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 7100
	}
	var port uint16
	fmt.Sscanf(portStr, "%d", &port)
	return host, port
}

// nack reports a lobby error; the connection stays open.
func (c *Connection) nack(code uint32, message string) error {
	return c.sendIpc(&ipc.LobbyNackReply{
		Sequence:  c.sequence,
		ErrorCode: code,
		Message:   message,
	})
}

func (c *Connection) sendIpc(p ipc.ServerLobbyPayload) error {
	envelope, err := ipc.EncodeServerLobby(c.cfg.World.ServerID, p)
	if err != nil {
		return err
	}
	return c.send([]packet.Segment{{Data: packet.IpcData{Envelope: envelope}}})
}

func (c *Connection) send(segments []packet.Segment) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return packet.SendPacket(c.conn, c.state, packet.ConnectionLobby, packet.CompressionNone, segments)
}

// ── world coordination over the private channel ────────────────────

func (c *Connection) roundTrip(p ipc.CustomPayload) (ipc.CustomPayload, error) {
	envelope, err := ipc.EncodeCustom(c.cfg.World.ServerID, p)
	if err != nil {
		return nil, err
	}
	replyEnvelope, err := packet.RoundTripCustom(
		c.cfg.World.PublicHost, envelope, uint32(c.cfg.Game.ReceiveBufferSize))
	if err != nil {
		return nil, err
	}
	_, reply, err := ipc.DecodeCustom(replyEnvelope)
	return reply, err
}

func (c *Connection) worldCharacterList() (*ipc.CharacterListResponse, error) {
	reply, err := c.roundTrip(&ipc.RequestCharacterList{ServiceAccountID: c.serviceAccountID})
	if err != nil {
		return nil, err
	}
	list, ok := reply.(*ipc.CharacterListResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected reply %T", reply)
	}
	return list, nil
}

func (c *Connection) worldNameAvailable(name string) (bool, error) {
	reply, err := c.roundTrip(&ipc.CheckNameIsAvailable{Name: name})
	if err != nil {
		return false, err
	}
	resp, ok := reply.(*ipc.NameIsAvailableResponse)
	if !ok {
		return false, fmt.Errorf("unexpected reply %T", reply)
	}
	return resp.Free != 0, nil
}

func (c *Connection) worldCreateCharacter(name, json string) (*ipc.CharacterCreated, error) {
	reply, err := c.roundTrip(&ipc.RequestCreateCharacter{
		ServiceAccountID: c.serviceAccountID,
		Name:             name,
		CharaMakeJson:    json,
	})
	if err != nil {
		return nil, err
	}
	created, ok := reply.(*ipc.CharacterCreated)
	if !ok {
		return nil, fmt.Errorf("unexpected reply %T", reply)
	}
	if created.ContentID == 0 {
		return nil, fmt.Errorf("world rejected character create")
	}
	return created, nil
}

func (c *Connection) worldDeleteCharacter(contentID uint64) error {
	reply, err := c.roundTrip(&ipc.DeleteCharacter{ContentID: contentID})
	if err != nil {
		return err
	}
	deleted, ok := reply.(*ipc.CharacterDeleted)
	if !ok || deleted.Deleted == 0 {
		return fmt.Errorf("world rejected character delete")
	}
	return nil
}

func (c *Connection) worldActorID(contentID uint64) (uint32, error) {
	reply, err := c.roundTrip(&ipc.GetActorId{ContentID: contentID})
	if err != nil {
		return 0, err
	}
	found, ok := reply.(*ipc.ActorIdFound)
	if !ok || found.ActorID == uint32(common.InvalidObjectId) {
		return 0, fmt.Errorf("content id %d not found", contentID)
	}
	return found.ActorID, nil
}
