// Popup notices
//
// A single server-wide notice, mirrored to every open page:
// - A notice has a message, a level ("error" or "warning"), and a shown flag
// - Closing resets the level to "error" and clears the message
// - Notices close themselves after --notice-timeout, unless a newer one replaced them
// - Each page holds a websocket on /notices/ws and gets the current notice on connect
// - Subscribers that fall behind are dropped instead of blocking the store

package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

type Notice struct {
	Message string `json:"message"`
	Level   Level  `json:"level"`
	Shown   bool   `json:"shown"`
}

type subscriber struct {
	send chan Notice
}

type NoticeStore struct {
	cfg     *Config
	timeout time.Duration

	mu          sync.Mutex
	current     Notice
	generation  uint64
	timer       *time.Timer
	subscribers map[*subscriber]struct{}
}

func newNoticeStore(cfg *Config) *NoticeStore {
	return &NoticeStore{
		cfg:         cfg,
		timeout:     cfg.noticeTimeout,
		current:     Notice{Level: LevelError},
		subscribers: make(map[*subscriber]struct{}),
	}
}

func (s *NoticeStore) Current() Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

func (s *NoticeStore) ShowError(msg string) {
	s.Show(msg, LevelError)
}

func (s *NoticeStore) ShowWarning(msg string) {
	s.Show(msg, LevelWarning)
}

// Show replaces the current notice. Unknown levels are treated as errors.
func (s *NoticeStore) Show(msg string, level Level) {
	if level != LevelWarning {
		level = LevelError
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Notice{Message: msg, Level: level, Shown: true}
	s.generation++
	s.stopTimerLocked()

	if s.timeout > 0 {
		gen := s.generation
		s.timer = time.AfterFunc(s.timeout, func() {
			s.expire(gen)
		})
	}

	logf(s.cfg, "NOTICE: Showing %s %q", level, msg)

	s.broadcastLocked()
}

func (s *NoticeStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()
}

// expire closes the notice only if nothing newer was shown since gen.
func (s *NoticeStore) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return
	}

	s.closeLocked()
}

func (s *NoticeStore) closeLocked() {
	s.stopTimerLocked()

	if !s.current.Shown && s.current.Message == "" && s.current.Level == LevelError {
		return
	}

	s.current = Notice{Level: LevelError}
	s.generation++

	s.broadcastLocked()
}

func (s *NoticeStore) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Subscribe returns a channel that first yields the current notice and then
// every change. The channel is closed by cancel, or by the store when the
// subscriber cannot keep up.
func (s *NoticeStore) Subscribe(buffer int) (<-chan Notice, func()) {
	if buffer < 1 {
		buffer = 1
	}

	sub := &subscriber{send: make(chan Notice, buffer)}

	s.mu.Lock()
	sub.send <- s.current
	s.subscribers[sub] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.dropLocked(sub)
	}

	return sub.send, cancel
}

func (s *NoticeStore) dropLocked(sub *subscriber) {
	if _, ok := s.subscribers[sub]; ok {
		delete(s.subscribers, sub)
		close(sub.send)
	}
}

func (s *NoticeStore) broadcastLocked() {
	for sub := range s.subscribers {
		select {
		case sub.send <- s.current:
		default:
			s.dropLocked(sub)
		}
	}
}

func (s *NoticeStore) subscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.subscribers)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// noticeCommand is the only message pages send over the socket.
type noticeCommand struct {
	Type string `json:"type"` // "close"
}

func serveNoticesWS(cfg *Config, notices *NoticeStore) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Websocket upgrade from %s: %v", realIP(r), err)

			return
		}

		updates, cancel := notices.Subscribe(8)

		logf(cfg, "SERVE: Notice stream to %s", realIP(r))

		go writeNotices(conn, updates)
		readNotices(conn, notices)

		cancel()
	}
}

func readNotices(conn *websocket.Conn, notices *NoticeStore) {
	defer conn.Close()

	for {
		var cmd noticeCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}

		switch cmd.Type {
		case "close":
			notices.Close()
		default:
			// ignore unknown types
		}
	}
}

func writeNotices(conn *websocket.Conn, updates <-chan Notice) {
	defer conn.Close()

	for n := range updates {
		_ = conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := conn.WriteJSON(n); err != nil {
			return
		}
	}
}

func serveNotice(cfg *Config, notices *NoticeStore, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		securityHeaders(cfg, w)

		if err := writeJSON(w, http.StatusOK, notices.Current()); err != nil {
			errs <- err
		}
	}
}

func serveNoticeClose(cfg *Config, notices *NoticeStore, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		notices.Close()

		securityHeaders(cfg, w)

		if err := writeJSON(w, http.StatusOK, notices.Current()); err != nil {
			errs <- err
		}
	}
}

func registerNotices(cfg *Config, mux *httprouter.Router, notices *NoticeStore, errs chan<- error) {
	mux.GET(cfg.prefix+"/notices", serveNotice(cfg, notices, errs))
	mux.POST(cfg.prefix+"/notices/close", serveNoticeClose(cfg, notices, errs))
	mux.GET(cfg.prefix+"/notices/ws", serveNoticesWS(cfg, notices))
}
