package server

import (
	"net"
	"sync/atomic"

	"go.uber.org/zap"
)

// Handler runs one accepted connection to completion. It owns closing conn.
type Handler func(conn net.Conn, id uint64)

// Listener accepts TCP connections for one server role and hands each to a
// Handler in its own goroutine.
type Listener struct {
	listener net.Listener
	nextID   atomic.Uint64
	log      *zap.Logger
	closeCh  chan struct{}
}

func Listen(bindAddr string, log *zap.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Listener{
		listener: ln,
		log:      log,
		closeCh:  make(chan struct{}),
	}, nil
}

// Serve runs the accept loop until Shutdown.
func (l *Listener) Serve(handle Handler) {
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			select {
			case <-l.closeCh:
				return // server shutting down
			default:
			}
			l.log.Error("連線接受失敗", zap.Error(err))
			continue
		}

		id := l.nextID.Add(1)
		l.log.Info("玩家連線",
			zap.Uint64("session", id),
			zap.String("ip", conn.RemoteAddr().String()),
		)
		go handle(conn, id)
	}
}

// Shutdown stops accepting new connections.
func (l *Listener) Shutdown() {
	close(l.closeCh)
	l.listener.Close()
}

// Addr returns the listener's address.
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}
