package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Lobby:
		o.printLobby(v)
	case LobbySummary:
		o.printLobbySummary(v)
	case LobbyList:
		o.printLobbyList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	IsOwner   bool   `json:"isOwner"`
	Score     int    `json:"score"`
}

// Lobby response type
type Lobby struct {
	Name        string   `json:"name"`
	Status      string   `json:"status"`
	Players     []Player `json:"players"`
	PlayerCount int      `json:"playerCount"`
	RoundNo     int      `json:"roundNo,omitempty"`
	TotalRounds int      `json:"totalRounds,omitempty"`
}

// LobbySummary response type
type LobbySummary struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	PlayerCount int    `json:"playerCount"`
	Joinable    bool   `json:"joinable"`
}

// LobbyList response type
type LobbyList struct {
	Lobbies []LobbySummary `json:"lobbies"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printLobby(l Lobby) {
	fmt.Printf("Lobby:   %s\n", l.Name)
	fmt.Printf("Status:  %s\n", l.Status)
	if l.TotalRounds > 0 {
		fmt.Printf("Round:   %d/%d\n", l.RoundNo, l.TotalRounds)
	}
	fmt.Printf("Players: %d\n", l.PlayerCount)
	for _, p := range l.Players {
		var marks []string
		if p.IsOwner {
			marks = append(marks, "owner")
		}
		if !p.Connected {
			marks = append(marks, "disconnected")
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = fmt.Sprintf(" (%s)", strings.Join(marks, ", "))
		}
		fmt.Printf("  %-20s %6d%s\n", p.Name, p.Score, suffix)
	}
}

func (o *Output) printLobbySummary(s LobbySummary) {
	joinable := "no"
	if s.Joinable {
		joinable = "yes"
	}
	fmt.Printf("%s: %s, %d players, joinable: %s\n", s.Name, s.Status, s.PlayerCount, joinable)
}

func (o *Output) printLobbyList(l LobbyList) {
	fmt.Printf("%-20s %-12s %-8s %s\n", "NAME", "STATUS", "PLAYERS", "JOINABLE")
	for _, s := range l.Lobbies {
		joinable := "no"
		if s.Joinable {
			joinable = "yes"
		}
		fmt.Printf("%-20s %-12s %-8d %s\n", s.Name, s.Status, s.PlayerCount, joinable)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Server status: %s\n", h.Status)
}
