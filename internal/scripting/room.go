package scripting

import lua "github.com/yuin/gopher-lua"

// RoomPlacedHook is the Lua global called once per placed room.
const RoomPlacedHook = "on_room_placed"

// SpawnInfo is a snapshot of one spawned enemy passed to Lua callbacks.
type SpawnInfo struct {
	ID   string
	Kind string
	X    int
	Y    int
}

// RoomInfo is a snapshot of a placed room passed to Lua callbacks.
type RoomInfo struct {
	Index    int
	Template string
	X        int
	Y        int
	Width    int
	Height   int
	Enemies  []SpawnInfo
}

// OnRoomPlaced calls on_room_placed(room) in the VM for info.Template, or the
// global VM when no such scope exists. The room table carries index, template,
// x, y, width, height and an enemies array of {id, kind, x, y}.
//
// Postcondition: Returns the hook's first return value, or LNil.
func (m *Manager) OnRoomPlaced(info RoomInfo) (lua.LValue, error) {
	return m.CallHook(info.Template, RoomPlacedHook, roomTable(info))
}

func roomTable(info RoomInfo) *lua.LTable {
	t := new(lua.LTable)
	t.RawSetString("index", lua.LNumber(info.Index))
	t.RawSetString("template", lua.LString(info.Template))
	t.RawSetString("x", lua.LNumber(info.X))
	t.RawSetString("y", lua.LNumber(info.Y))
	t.RawSetString("width", lua.LNumber(info.Width))
	t.RawSetString("height", lua.LNumber(info.Height))

	enemies := new(lua.LTable)
	for _, e := range info.Enemies {
		et := new(lua.LTable)
		et.RawSetString("id", lua.LString(e.ID))
		et.RawSetString("kind", lua.LString(e.Kind))
		et.RawSetString("x", lua.LNumber(e.X))
		et.RawSetString("y", lua.LNumber(e.Y))
		enemies.Append(et)
	}
	t.RawSetString("enemies", enemies)
	return t
}
