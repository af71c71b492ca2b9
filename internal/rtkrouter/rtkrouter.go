// Package rtkrouter implements rtktool's RTK correction relay: an
// ordered set of clients keyed by (address, port), classified as base or
// rover by the length of the RTCM frame they send, with at-most-one-base
// enforcement and liveness-based membership (spec.md §4.8).
package rtkrouter

import (
	"net/netip"
	"sort"
	"sync"
	"time"

	"github.com/gnss-tools/hazer-go/internal/datagram"
	"github.com/gnss-tools/hazer-go/internal/framer"
	"github.com/gnss-tools/hazer-go/internal/rtcm"
)

// Role classifies a client by what kind of RTCM traffic it sends.
type Role int

const (
	RoleUnknown Role = iota
	RoleBase
	RoleRover
)

// Client is one peer the router has seen, ordered lexicographically by
// its (IPv6-mapped address, port) key.
type Client struct {
	Addr     netip.AddrPort
	Role     Role
	LastSeen time.Time

	seq datagram.Tracker
}

func keyOf(a netip.AddrPort) netip.AddrPort {
	if a.Addr().Is4() {
		return netip.AddrPortFrom(netip.AddrFrom16(a.Addr().As16()), a.Port())
	}
	return a
}

func less(a, b netip.AddrPort) bool {
	if c := a.Addr().Compare(b.Addr()); c != 0 {
		return c < 0
	}
	return a.Port() < b.Port()
}

// Sender forwards a verbatim datagram to a peer; implementations
// typically wrap a net.UDPConn's WriteToUDPAddrPort.
type Sender func(to netip.AddrPort, datagram []byte) error

// Router holds client membership and classification state. The zero
// value is not usable; construct with New.
type Router struct {
	mu      sync.Mutex
	clients []*Client
	index   map[netip.AddrPort]*Client
	base    *Client
	timeout time.Duration
	now     func() time.Time
	send    Sender
}

// New constructs a Router. now supplies the current time (time.Now in
// production, a fixed clock in tests); send forwards bytes to a peer;
// timeout bounds how long a client may go unseen before a Sweep evicts
// it.
func New(timeout time.Duration, now func() time.Time, send Sender) *Router {
	return &Router{
		index:   make(map[netip.AddrPort]*Client),
		timeout: timeout,
		now:     now,
		send:    send,
	}
}

// HandleDatagram runs the per-datagram algorithm of spec.md §4.8 against
// one received envelope+payload buffer from the given peer.
func (r *Router) HandleDatagram(from netip.AddrPort, buf []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq, payload, err := datagram.Decode(buf)
	if err != nil {
		return err
	}

	key := keyOf(from)
	client, existing := r.index[key]
	if !existing {
		client = &Client{Addr: key}
	}

	if outcome, _ := client.seq.Observe(seq); outcome == datagram.OutcomeOutOfOrder {
		return framer.ErrSequence
	}

	n, err := rtcm.Validate(payload)
	if err != nil {
		return err
	}
	frame := payload[:n]

	role := RoleRover
	if !rtcm.IsKeepalive(frame) {
		role = RoleBase
	}

	if existing && client.Role != RoleUnknown && client.Role != role {
		// Classification changed: reject and let liveness eventually
		// evict the stale entry (spec.md §4.8 step 6).
		return framer.ErrClassify
	}
	if role == RoleBase && r.base != nil && r.base != client {
		return framer.ErrClassify
	}

	client.Role = role
	client.LastSeen = r.now()

	if !existing {
		r.insert(client)
	}

	if role == RoleBase {
		r.base = client
		r.forward(buf)
	}
	return nil
}

func (r *Router) insert(c *Client) {
	r.index[c.Addr] = c
	i := sort.Search(len(r.clients), func(i int) bool { return !less(r.clients[i].Addr, c.Addr) })
	r.clients = append(r.clients, nil)
	copy(r.clients[i+1:], r.clients[i:])
	r.clients[i] = c
}

// forward relays buf verbatim to every client currently classified as a
// rover, in key order (spec.md §4.8 step 8).
func (r *Router) forward(buf []byte) {
	if r.send == nil {
		return
	}
	for _, c := range r.clients {
		if c.Role == RoleRover {
			_ = r.send(c.Addr, buf)
		}
	}
}

// Sweep evicts clients whose last-seen age exceeds the configured
// timeout. Evicting the incumbent base clears the base slot so a future
// correction can promote a new base (spec.md §4.8).
func (r *Router) Sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	kept := r.clients[:0]
	for _, c := range r.clients {
		if now.Sub(c.LastSeen) > r.timeout {
			delete(r.index, c.Addr)
			if r.base == c {
				r.base = nil
			}
			continue
		}
		kept = append(kept, c)
	}
	r.clients = kept
}

// Clients returns a snapshot of the current ordered client set.
func (r *Router) Clients() []Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Client, len(r.clients))
	for i, c := range r.clients {
		out[i] = *c
	}
	return out
}
