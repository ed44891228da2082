package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helios-os/helios/internal/game"
)

func TestRegisterFuncAndResolve(t *testing.T) {
	RegisterFunc("funcs-test/greet", func(ctx game.Context) []string {
		return []string{"hello, " + ctx.CommanderName}
	})

	fn, ok := Func("funcs-test/greet")
	require.True(t, ok)
	assert.Equal(t, []string{"hello, Vega"}, fn(game.Context{CommanderName: "Vega"}))

	lines := Resolve(game.CommandContent{FuncName: "funcs-test/greet"}, game.Context{CommanderName: "Osei"})
	assert.Equal(t, []string{"hello, Osei"}, lines)

	assert.Contains(t, FuncNames(), "funcs-test/greet")
}

func TestRegisterFuncDuplicatePanics(t *testing.T) {
	RegisterFunc("funcs-test/dup", func(game.Context) []string { return nil })
	assert.Panics(t, func() {
		RegisterFunc("funcs-test/dup", func(game.Context) []string { return nil })
	})
}

func TestResolveStaticLinesShortCircuit(t *testing.T) {
	lines := Resolve(game.CommandContent{Lines: []string{"fixed"}}, game.Context{})
	assert.Equal(t, []string{"fixed"}, lines)
}

func TestResolveUnknownFuncPanics(t *testing.T) {
	assert.Panics(t, func() {
		Resolve(game.CommandContent{FuncName: "funcs-test/missing"}, game.Context{})
	})
}

func TestResolveEmptyOverrideIsNil(t *testing.T) {
	assert.Nil(t, Resolve(game.CommandContent{}, game.Context{}))
}
