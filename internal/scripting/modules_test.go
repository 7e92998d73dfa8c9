package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dungeon/internal/game/dice"
	"github.com/cory-johannsen/dungeon/internal/scripting"
)

func runScript(t testing.TB, mgr *scripting.Manager, luaSrc, hook string, args ...lua.LValue) lua.LValue {
	t.Helper()
	require.NoError(t, mgr.LoadString("modtest", luaSrc, 0))
	ret, err := mgr.CallHook("modtest", hook, args...)
	require.NoError(t, err)
	return ret
}

func TestEngineLog_AllLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewSeededSource(1), logger), logger)
	defer mgr.Close()

	runScript(t, mgr, `
		function do_all_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
			engine.log.error("e")
		end
	`, "do_all_logs")

	levels := map[string]string{}
	for _, e := range logs.All() {
		levels[e.Level.String()] = e.Message
	}
	assert.Equal(t, "d", levels["debug"])
	assert.Equal(t, "i", levels["info"])
	assert.Equal(t, "w", levels["warn"])
	assert.Equal(t, "e", levels["error"])
}

func TestEngineDice_Roll_ReturnsTable(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function do_roll()
			local r = engine.dice.roll("1d6")
			if type(r.dice) ~= "number" then error("dice field missing") end
			return r.total
		end
	`, "do_roll")
	n, ok := ret.(lua.LNumber)
	require.True(t, ok, "expected LNumber, got %T", ret)
	assert.GreaterOrEqual(t, int(n), 1)
	assert.LessOrEqual(t, int(n), 6)
}

func TestEngineDice_Roll_BadExpression(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function do_roll()
			local r, msg = engine.dice.roll("banana")
			if r ~= nil then error("expected nil") end
			return msg
		end
	`, "do_roll")
	s, ok := ret.(lua.LString)
	require.True(t, ok, "expected LString, got %T", ret)
	assert.NotEmpty(t, string(s))
}

func TestEngineDice_Roll_RejectsHugeDieCount(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function do_roll()
			local r, msg = engine.dice.roll("50000000d6")
			if r ~= nil then error("expected nil") end
			return msg
		end
	`, "do_roll")
	s, ok := ret.(lua.LString)
	require.True(t, ok, "expected LString, got %T", ret)
	assert.Contains(t, string(s), "die count")
}

func TestProperty_DiceRoll_TotalEqualsDicePlusModifier(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadString("prop", `
		function check_invariant(expr)
			local r = engine.dice.roll(expr)
			return r.total == r.dice + r.modifier
		end
	`, 0))
	rapid.Check(t, func(rt *rapid.T) {
		expr := rapid.SampledFrom([]string{"1d6", "2d6+3", "1d4-1", "1d8", "5"}).Draw(rt, "expr")
		ret, err := mgr.CallHook("prop", "check_invariant", lua.LString(expr))
		if err != nil {
			rt.Fatal(err)
		}
		if ret != lua.LTrue {
			rt.Fatalf("total must equal dice + modifier for expr %s", expr)
		}
	})
}

func TestOnRoomPlaced_PassesRoomTable(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadString("shrine", `
		function on_room_placed(room)
			local e = room.enemies[2]
			return room.index .. ":" .. room.template .. ":" .. room.x .. "," .. room.y ..
				":" .. room.width .. "x" .. room.height .. ":" .. #room.enemies .. ":" .. e.kind .. "@" .. e.x .. "," .. e.y
		end
	`, 0))

	ret, err := mgr.OnRoomPlaced(scripting.RoomInfo{
		Index: 3, Template: "shrine", X: 10, Y: 20, Width: 8, Height: 6,
		Enemies: []scripting.SpawnInfo{
			{ID: "a", Kind: "goblin", X: 12, Y: 22},
			{ID: "b", Kind: "slime", X: 13, Y: 23},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, lua.LString("3:shrine:10,20:8x6:2:slime@13,23"), ret)
}

func TestOnRoomPlaced_NoHookIsNoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret, err := mgr.OnRoomPlaced(scripting.RoomInfo{Index: 0, Width: 5, Height: 5})
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}
