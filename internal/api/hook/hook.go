// Package hook exposes playback to editor and agent hooks.
//
// Hooks run without a terminal and parse stdout, so every call is quiet and
// Start acknowledges with a JSON permission object.
package hook

import (
	"encoding/json"
	"io"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/muzak/internal/app/playback"
)

// Player is the part of the playback controller hooks drive.
type Player interface {
	Start(quiet bool) playback.Result
	Stop(quiet bool) playback.Result
}

// Ack is written after a hook start.
type Ack struct {
	Allow bool `json:"allow"`
}

// Handler serves hook invocations.
type Handler struct {
	player Player
}

// NewHandler creates a new Handler.
func NewHandler(player Player) *Handler {
	return &Handler{player: player}
}

// Start begins playback quietly and tells the caller to proceed.
// The acknowledgement is written even when playback could not start.
func (h *Handler) Start(w io.Writer) error {
	res := h.player.Start(true)
	zlog.Debug().Msgf("hook start: outcome=%s", res.Outcome)

	return json.NewEncoder(w).Encode(Ack{Allow: true})
}

// Stop ends playback quietly.
func (h *Handler) Stop() {
	res := h.player.Stop(true)
	zlog.Debug().Msgf("hook stop: outcome=%s", res.Outcome)
}
