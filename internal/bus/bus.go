// Package bus connects the assistant to an external websocket message
// bus so other agents on the machine can submit text commands and
// receive the replies.
package bus

import (
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/gorilla/websocket"
)

type Bus struct {
	conn *websocket.Conn
}

// Message is one envelope on the bus. Kind is "command" for inbound
// requests and "reply" for our answers.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

func Connect(wsURL string) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	slog.Info("connected to bus", "url", wsURL)
	return &Bus{conn: conn}, nil
}

func (b *Bus) Read() (*Message, error) {
	_, raw, err := b.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (b *Bus) Write(m *Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return b.conn.WriteMessage(websocket.TextMessage, data)
}

func (b *Bus) Close() error { return b.conn.Close() }

// Serve pumps commands off the bus through handle and writes the reply
// back to the sender. It returns when the connection drops.
func (b *Bus) Serve(handle func(text string) string) {
	for {
		msg, err := b.Read()
		if err != nil {
			slog.Error("bus read failed", "err", err)
			return
		}
		if msg.Kind != "command" || msg.Content == "" {
			continue
		}

		reply := handle(msg.Content)
		resp := &Message{From: "vani", To: msg.From, Kind: "reply", Content: reply}
		if err := b.Write(resp); err != nil {
			slog.Error("bus write failed", "err", err)
			return
		}
	}
}
