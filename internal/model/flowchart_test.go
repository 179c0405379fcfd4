package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() FlowchartData {
	return FlowchartData{
		Nodes: []FlowNode{
			{ID: "1", Type: NodeStart, Text: "开始", Width: 120, Height: 50},
			{ID: "2", Type: NodeProcess, Text: "流程步骤", X: 0, Y: 100, Width: 120, Height: 50},
		},
		Connections: []FlowConnection{
			{ID: "c1", From: Endpoint{NodeID: "1"}, To: Endpoint{NodeID: "2"}, Text: "是"},
		},
	}
}

func TestEmptyMarshalsArrays(t *testing.T) {
	data, err := json.Marshal(Empty())
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[],"connections":[]}`, string(data))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sample().Validate())

	d := sample()
	d.Nodes = append(d.Nodes, FlowNode{ID: "1", Type: NodeEnd})
	d.Connections = append(d.Connections, FlowConnection{ID: "c2", From: Endpoint{NodeID: "1"}, To: Endpoint{NodeID: "ghost"}})

	err := d.Validate()
	require.Error(t, err)
	var ie *IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Len(t, ie.Problems, 2)
	assert.Contains(t, err.Error(), `duplicate node id "1"`)
	assert.Contains(t, err.Error(), `unknown target node "ghost"`)
}

func TestEqualIgnoresOrder(t *testing.T) {
	a := sample()
	b := sample()
	b.Nodes[0], b.Nodes[1] = b.Nodes[1], b.Nodes[0]
	assert.True(t, Equal(a, b))

	b.Nodes[0].Text = "changed"
	assert.False(t, Equal(a, b))
}

func TestCloneIsIndependent(t *testing.T) {
	a := sample()
	b := a.Clone()
	b.Nodes[0].Text = "other"
	assert.Equal(t, "开始", a.Nodes[0].Text)

	var zero FlowchartData
	c := zero.Clone()
	assert.NotNil(t, c.Nodes)
	assert.NotNil(t, c.Connections)
}

// Clone copies by value, which only works while no element type holds
// pointers, slices or maps
func TestCloneElementsHoldNoReferences(t *testing.T) {
	var check func(reflect.Type, string)
	check = func(typ reflect.Type, path string) {
		switch typ.Kind() {
		case reflect.Struct:
			for i := 0; i < typ.NumField(); i++ {
				f := typ.Field(i)
				check(f.Type, path+"."+f.Name)
			}
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
			t.Errorf("%s is a %s, Clone would share it", path, typ.Kind())
		}
	}
	check(reflect.TypeOf(FlowNode{}), "FlowNode")
	check(reflect.TypeOf(FlowConnection{}), "FlowConnection")
}

func TestConnectionsOf(t *testing.T) {
	d := sample()
	assert.Len(t, d.ConnectionsOf("1"), 1)
	assert.Len(t, d.ConnectionsOf("missing"), 0)
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewID("node")
		assert.False(t, seen[id], "id reused: %s", id)
		seen[id] = true
	}
}

func TestDefaultText(t *testing.T) {
	assert.Equal(t, "开始", DefaultText(NodeStart))
	assert.Equal(t, "结束", DefaultText(NodeEnd))
	assert.Equal(t, "流程步骤", DefaultText(NodeProcess))
	assert.Equal(t, "条件判断?", DefaultText(NodeDecision))
	assert.Equal(t, "点击上传图片", DefaultText(NodeImage))
	assert.True(t, NodeImage.Valid())
	assert.False(t, FlowNodeType("circle").Valid())
}
