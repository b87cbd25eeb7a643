package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeTree_AddScope(t *testing.T) {
	tree := NewScopeTree()
	require.Equal(t, 1, tree.Len())

	top := tree.AddScope(RootIndex, "module", "top")
	cpu := tree.AddScope(top, "module", "cpu")
	mem := tree.AddScope(top, "module", "mem")

	assert.Equal(t, []int{cpu, mem}, tree.Node(top).Children)
	assert.Equal(t, top, tree.Node(cpu).Parent)
	assert.Equal(t, NoParent, tree.Node(RootIndex).Parent)

	got, ok := tree.Child(top, "mem")
	require.True(t, ok)
	assert.Equal(t, mem, got)

	_, ok = tree.Child(top, "io")
	assert.False(t, ok)
}

func TestScopeTree_ReopenedScopeReusesNode(t *testing.T) {
	tree := NewScopeTree()
	top := tree.AddScope(RootIndex, "module", "top")

	again := tree.AddScope(RootIndex, "module", "top")

	assert.Equal(t, top, again)
	assert.Equal(t, 2, tree.Len())
	assert.Len(t, tree.Node(RootIndex).Children, 1)
}

func TestScopeTree_AddVariableOverwrites(t *testing.T) {
	tree := NewScopeTree()
	top := tree.AddScope(RootIndex, "module", "top")

	tree.AddVariable(top, Variable{Kind: "wire", Width: 8, Code: "!", Name: "data", Select: "[7:0]"})
	tree.AddVariable(top, Variable{Kind: "wire", Width: 4, Code: "\"", Name: "data", Select: "[3:0]"})

	require.Len(t, tree.Node(top).Variables, 1)
	assert.Equal(t, "\"", tree.Node(top).Variables["data"].Code)
}

func TestScopeTree_PathOf(t *testing.T) {
	tree := NewScopeTree()
	top := tree.AddScope(RootIndex, "module", "top")
	cpu := tree.AddScope(top, "module", "cpu")
	alu := tree.AddScope(cpu, "begin", "alu")

	assert.Equal(t, SignalPath("top/cpu/alu"), tree.PathOf(alu))
	assert.Equal(t, SignalPath("top"), tree.PathOf(top))
	assert.Equal(t, SignalPath(""), tree.PathOf(RootIndex))
}
