package relay

import (
	"sort"
	"time"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

// Board is one named broadcast channel and its current members. Boards are
// owned by the hub goroutine.
type Board struct {
	Name    string
	Created time.Time

	members map[*Client]struct{}
	relayed int
}

func newBoard(name string) *Board {
	return &Board{
		Name:    name,
		Created: time.Now(),
		members: make(map[*Client]struct{}),
	}
}

// BoardInfo is a point-in-time view of a board for the /boards endpoint.
type BoardInfo struct {
	Name         string    `json:"name"`
	Members      int       `json:"members"`
	Participants []string  `json:"participants"`
	Relayed      int       `json:"relayed"`
	Created      time.Time `json:"created"`
}

func (b *Board) info() BoardInfo {
	names := make([]string, 0, len(b.members))
	for c := range b.members {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return BoardInfo{
		Name:         b.Name,
		Members:      len(b.members),
		Participants: names,
		Relayed:      b.relayed,
		Created:      b.Created,
	}
}

// frame is an event read from one client, handed to the hub.
type frame struct {
	client *Client
	event  board.Event
	err    error
}
