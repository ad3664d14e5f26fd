package stream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/afd/internal/result"
)

func TestProgressClamps(t *testing.T) {
	assert.Equal(t, 100.0, Progress(150, "almost").Progress)
	assert.Equal(t, 0.0, Progress(-5, "starting").Progress)
	assert.Equal(t, 42.0, Progress(42, "working").Progress)
}

func TestProgressWithSteps(t *testing.T) {
	c := ProgressWithSteps(50, "halfway", 2, 4)
	require.NotNil(t, c.CurrentStep)
	assert.Equal(t, 2, *c.CurrentStep)
	require.NotNil(t, c.TotalSteps)
	assert.Equal(t, 4, *c.TotalSteps)
}

func TestTerminalChunks(t *testing.T) {
	assert.False(t, Progress(10, "x").IsTerminal())
	assert.False(t, Data("partial", false).IsTerminal())
	assert.True(t, Complete("done", 120).IsTerminal())
	assert.True(t, Error(result.NewError(result.CodeTimeout, "slow"), true).IsTerminal())
}

func TestCompleteOmitsNegativeDuration(t *testing.T) {
	assert.Nil(t, Complete("done", -1).DurationMs)

	c := Complete("done", 0)
	require.NotNil(t, c.DurationMs)
	assert.Equal(t, int64(0), *c.DurationMs)
}

func TestChunkJSONTag(t *testing.T) {
	raw, err := json.Marshal(Data(map[string]any{"row": 1}, true))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "data", m["type"])
	assert.Equal(t, true, m["isFinal"])
}

func TestCollectData(t *testing.T) {
	chunks := []Chunk{
		Progress(10, "reading"),
		Data("a", false),
		Data("b", false),
		Progress(90, "finishing"),
		Complete("c", 30),
	}

	assert.Equal(t, []any{"a", "b", "c"}, CollectData(chunks))
}

func TestEmitterOrderAndTerminal(t *testing.T) {
	var got []Chunk
	e := NewEmitter(func(c Chunk) { got = append(got, c) })

	e.Emit(Progress(25, "q1"))
	e.Emit(Data("x", false))
	e.Emit(Complete("x", 10))
	// Nothing follows the terminal chunk.
	e.Emit(Progress(99, "late"))
	e.Emit(Data("y", true))

	require.Len(t, got, 3)
	assert.Equal(t, KindProgress, got[0].Type)
	assert.Equal(t, KindData, got[1].Type)
	assert.Equal(t, KindComplete, got[2].Type)
	assert.True(t, e.Closed())
}

func TestEmitterErrorIsTerminal(t *testing.T) {
	var got []Chunk
	e := NewEmitter(func(c Chunk) { got = append(got, c) })

	e.Emit(Error(result.NewError(result.CodeInternalError, "boom"), false))
	e.Emit(Progress(10, "late"))

	require.Len(t, got, 1)
	assert.True(t, e.Closed())
}

func TestEmitterNilSinkDiscards(t *testing.T) {
	e := NewEmitter(nil)
	e.Emit(Progress(10, "x"))
	assert.False(t, e.Closed())
}

func TestFromExtraAlwaysUsable(t *testing.T) {
	e := FromExtra(nil)
	require.NotNil(t, e)
	e.Emit(Progress(10, "no sink"))

	stored := NewEmitter(func(Chunk) {})
	extra := stored.IntoExtra(nil)
	assert.Same(t, stored, FromExtra(extra))
}
