package generator

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/scripting"
)

// RoomObserver is told about each room once its enemies are spawned. The
// generator neither waits on nor reads anything back from observers.
type RoomObserver interface {
	RoomPlaced(room Room)
}

// RoomObserverFunc adapts a function to RoomObserver.
type RoomObserverFunc func(room Room)

// RoomPlaced calls f(room).
func (f RoomObserverFunc) RoomPlaced(room Room) { f(room) }

// MultiObserver fans a notification out to each observer in order.
type MultiObserver []RoomObserver

// RoomPlaced notifies every non-nil observer.
func (m MultiObserver) RoomPlaced(room Room) {
	for _, o := range m {
		if o != nil {
			o.RoomPlaced(room)
		}
	}
}

// LogObserver logs each placed room at Debug.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver returns a LogObserver writing to logger.
//
// Precondition: logger must be non-nil.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// RoomPlaced implements RoomObserver.
func (o *LogObserver) RoomPlaced(room Room) {
	o.logger.Debug("room placed",
		zap.Int("room", room.Index),
		zap.Stringer("bounds", room.Bounds),
		zap.String("template", room.Template),
		zap.Int("enemies", len(room.Enemies)),
	)
}

// ScriptObserver forwards each placed room to the Lua on_room_placed hook of
// the room's template scope.
type ScriptObserver struct {
	hooks  *scripting.Manager
	logger *zap.Logger
}

// NewScriptObserver returns a ScriptObserver dispatching through hooks.
//
// Precondition: hooks and logger must be non-nil.
func NewScriptObserver(hooks *scripting.Manager, logger *zap.Logger) *ScriptObserver {
	return &ScriptObserver{hooks: hooks, logger: logger}
}

// RoomPlaced implements RoomObserver. Hook failures are logged, never
// propagated.
func (o *ScriptObserver) RoomPlaced(room Room) {
	info := scripting.RoomInfo{
		Index:    room.Index,
		Template: room.Template,
		X:        room.Bounds.X,
		Y:        room.Bounds.Y,
		Width:    room.Bounds.Width,
		Height:   room.Bounds.Height,
	}
	for _, e := range room.Enemies {
		info.Enemies = append(info.Enemies, scripting.SpawnInfo{
			ID:   e.ID.String(),
			Kind: e.Kind,
			X:    e.Tile.X,
			Y:    e.Tile.Y,
		})
	}
	if _, err := o.hooks.OnRoomPlaced(info); err != nil {
		o.logger.Warn("room hook failed", zap.Int("room", room.Index), zap.Error(err))
	}
}
