package net

import (
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Peer is one connected browser client. Each peer owns a private session;
// peers never see each other's drawings.
type Peer struct {
	ID          string
	RemoteAddr  string
	ConnectedAt time.Time

	// Close terminates the peer's connection.
	Close func() error
}

// PeerManager tracks the live connections of the server so they can be
// listed and closed on shutdown.
type PeerManager struct {
	peers  map[string]*Peer
	mu     sync.RWMutex
	logger *log.Logger
}

// NewPeerManager creates an empty manager.
func NewPeerManager(logger *log.Logger) *PeerManager {
	if logger == nil {
		logger = log.Default()
	}
	return &PeerManager{
		peers:  make(map[string]*Peer),
		logger: logger,
	}
}

// Add registers a peer.
func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[peer.ID] = peer
	pm.logger.Info("peer connected", "id", peer.ID, "addr", peer.RemoteAddr, "peers", len(pm.peers))
}

// Remove forgets a peer.
func (pm *PeerManager) Remove(id string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if _, ok := pm.peers[id]; !ok {
		return
	}
	delete(pm.peers, id)
	pm.logger.Info("peer disconnected", "id", id, "peers", len(pm.peers))
}

// Count returns the number of live peers.
func (pm *PeerManager) Count() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// List returns the live peers, oldest first.
func (pm *PeerManager) List() []Peer {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	out := make([]Peer, 0, len(pm.peers))
	for _, p := range pm.peers {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConnectedAt.Before(out[j].ConnectedAt) })
	return out
}

// CloseAll closes every peer connection.
func (pm *PeerManager) CloseAll() {
	pm.mu.RLock()
	peers := make([]*Peer, 0, len(pm.peers))
	for _, p := range pm.peers {
		peers = append(peers, p)
	}
	pm.mu.RUnlock()

	for _, p := range peers {
		if p.Close == nil {
			continue
		}
		if err := p.Close(); err != nil {
			pm.logger.Warn("closing peer", "id", p.ID, "err", err)
		}
	}
}
