package server

import (
	"bytes"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	skerr "LocalSketch/internal/errors"
	"LocalSketch/internal/export"
	sknet "LocalSketch/internal/net"
	"LocalSketch/internal/protocol"
	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

// Reply is a text message sent to the browser.
type Reply struct {
	Type     string          `json:"type"`
	Snapshot *state.Snapshot `json:"snapshot,omitempty"`
	Code     skerr.Code      `json:"code,omitempty"`
	Error    string          `json:"error,omitempty"`
	Scale    int             `json:"scale,omitempty"`
}

const (
	replyStatus = "status"
	replyError  = "error"
	replyExport = "export"
)

// peerConn is one websocket client and the session it owns. All of its
// methods run on the connection's read goroutine.
type peerConn struct {
	id      string
	ws      *websocket.Conn
	session *state.Session
	display *render.Raster
	srv     *Server
	logger  *log.Logger
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer ws.Close()

	id := uuid.NewString()
	logger := s.logger.With("peer", id[:8])

	display, err := render.NewRaster(s.cfg.RasterOptions(1, s.fonts))
	if err != nil {
		logger.Error("create display surface", "err", err)
		return
	}
	defer display.Close()

	pc := &peerConn{
		id:      id,
		ws:      ws,
		session: state.NewSession(state.WithLogger(logger), state.WithTool(s.cfg.StrokeTool())),
		display: display,
		srv:     s,
		logger:  logger,
	}

	s.peers.Add(&sknet.Peer{
		ID:          id,
		RemoteAddr:  r.RemoteAddr,
		ConnectedAt: time.Now(),
		Close:       ws.Close,
	})
	defer s.peers.Remove(id)

	pc.run()
}

func (pc *peerConn) run() {
	pc.ws.SetReadLimit(maxMessageSize)
	if err := pc.sendFrame(); err != nil {
		pc.logger.Debug("initial frame", "err", err)
		return
	}
	for {
		kind, data, err := pc.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				pc.logger.Warn("read failed", "err", err)
			}
			return
		}
		if err := pc.handle(kind, data); err != nil {
			pc.logger.Debug("write failed", "err", err)
			return
		}
	}
}

// handle processes one message. Only write failures are returned; protocol
// and state errors are reported to the client and the connection stays open.
func (pc *peerConn) handle(kind int, data []byte) error {
	if kind != websocket.TextMessage {
		return pc.sendError(skerr.New(skerr.ErrCodeInvalidMessage, "expected a text message"))
	}
	msg, err := protocol.Parse(data)
	if err != nil {
		return pc.sendError(err)
	}
	if msg.Op == protocol.OpExport {
		return pc.sendExport(msg.Scale)
	}
	if err := protocol.Apply(pc.session, msg); err != nil {
		return pc.sendError(err)
	}
	return pc.sendFrame()
}

// sendFrame renders the session onto the display surface and sends it,
// followed by a status message.
func (pc *peerConn) sendFrame() error {
	pc.session.Render(pc.display)
	var buf bytes.Buffer
	if err := pc.display.EncodePNG(&buf); err != nil {
		return pc.sendError(err)
	}
	if err := pc.write(websocket.BinaryMessage, buf.Bytes()); err != nil {
		return err
	}
	snap := pc.session.Snapshot()
	return pc.writeJSON(Reply{Type: replyStatus, Snapshot: &snap})
}

func (pc *peerConn) sendExport(scale int) error {
	if scale == 0 {
		scale = pc.srv.cfg.Export.Scale
	}
	var buf bytes.Buffer
	if err := export.PNG(&buf, pc.session, pc.srv.cfg.RasterOptions(scale, pc.srv.fonts)); err != nil {
		return pc.sendError(err)
	}
	pc.logger.Info("exported", "scale", scale, "bytes", buf.Len())
	if err := pc.writeJSON(Reply{Type: replyExport, Scale: scale}); err != nil {
		return err
	}
	return pc.write(websocket.BinaryMessage, buf.Bytes())
}

func (pc *peerConn) sendError(err error) error {
	pc.logger.Debug("rejected message", "err", err)
	return pc.writeJSON(Reply{Type: replyError, Code: skerr.GetCode(err), Error: skerr.UserMessage(err)})
}

func (pc *peerConn) write(kind int, data []byte) error {
	_ = pc.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return pc.ws.WriteMessage(kind, data)
}

func (pc *peerConn) writeJSON(v any) error {
	_ = pc.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return pc.ws.WriteJSON(v)
}
