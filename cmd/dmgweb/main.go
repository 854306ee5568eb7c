// Command dmgweb serves one running Machine to browser clients over a
// websocket: every tick it runs one frame, hashes the resulting
// framebuffer with xxhash, and broadcasts it only when the hash
// changed since the last tick, grounded on thelolagemann-gomeboy's
// pkg/display/web hub.go/player.go dedup trick (simplified here to a
// single shared ROM and a single broadcast stream rather than their
// multiplayer/patch-cache protocol, which is out of spec.md's scope).
package main

import (
	"flag"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash"
	"github.com/gorilla/websocket"

	"github.com/budach/gameboy/internal/machine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1 << 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// hub fans out framebuffer frames to every connected client and
// funnels inbound joypad bytes back onto the single Machine.
type hub struct {
	m *machine.Machine

	mu      sync.Mutex
	clients map[*client]bool

	input chan byte
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newHub(m *machine.Machine) *hub {
	return &hub{m: m, clients: make(map[*client]bool), input: make(chan byte, 8)}
}

func (h *hub) broadcast(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default: // slow client: drop this frame rather than block the tick loop
		}
	}
}

// run drives the Machine at roughly the native DMG refresh rate,
// applying at most one queued joypad byte (the oldest) each tick and
// broadcasting a
// frame only when its xxhash differs from the previous one (the
// dedup trick player.go uses before writing to its socket).
func (h *hub) run() {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	var lastHash uint64
	state := byte(0xFF)

	for range ticker.C {
		select {
		case s := <-h.input:
			state = s
		default:
		}
		h.m.SetInput(state)
		h.m.RunFrame()

		frame := h.m.Framebuffer()
		hash := xxhash.Sum64(frame)
		if hash == lastHash {
			continue
		}
		lastHash = hash
		h.broadcast(frame)
	}
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dmgweb: upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 4)}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

func (h *hub) writePump(c *client) {
	defer c.conn.Close()
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return
		}
	}
}

// readPump accepts a single 1-byte joypad-latch message per frame
// from the client (spec.md §4.6 bit layout) until the socket closes.
func (h *hub) readPump(c *client) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		close(c.send)
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if len(data) == 1 {
			select {
			case h.input <- data[0]:
			default:
			}
		}
	}
}

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	addr := flag.String("addr", ":8090", "listen address")
	trace := flag.Bool("trace", false, "log PC and cycle count of every CPU step")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("dmgweb: -rom is required")
	}

	m, err := machine.NewFromFile(*romPath, machine.Config{Trace: *trace})
	if err != nil {
		log.Fatalf("dmgweb: %v", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Printf("dmgweb: %v", err)
		}
	}()

	h := newHub(m)
	go h.run()

	http.HandleFunc("/ws", h.serveWS)
	log.Printf("dmgweb: serving %s on %s", *romPath, *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
