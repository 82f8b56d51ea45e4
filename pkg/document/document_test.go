package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndGetters(t *testing.T) {
	d, err := Parse([]byte(`{"name":"Live","index":3,"ratio":0.5,"on":true,
		"nested":{"kind":"image"},"items":[{"a":1},2,{"a":3}]}`))
	require.NoError(t, err)

	assert.Equal(t, "Live", d.String("name"))
	assert.Equal(t, 3, d.Int("index"))
	assert.Equal(t, 0.5, d.Float("ratio"))
	assert.True(t, d.Bool("on"))
	assert.Equal(t, "image", d.Object("nested").String("kind"))
	items := d.Objects("items")
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[1].Int("a"))
}

func TestAbsentKeysReadAsDefaults(t *testing.T) {
	var d Document
	assert.Equal(t, "", d.String("missing"))
	assert.Equal(t, 0, d.Int("missing"))
	assert.False(t, d.Bool("missing"))
	assert.Nil(t, d.Object("missing"))
	assert.Equal(t, "", d.Object("missing").String("deeper"))
	assert.False(t, d.Has("missing"))
}

func TestParseEmpty(t *testing.T) {
	d, err := Parse(nil)
	require.NoError(t, err)
	assert.NotNil(t, d)
	assert.Empty(t, d)

	d, err = Parse([]byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, d)
}

func TestDecodeWeaklyTyped(t *testing.T) {
	type scene struct {
		Index int    `json:"sceneIndex"`
		Name  string `json:"sceneName"`
	}
	var out struct {
		Current string  `json:"currentProgramSceneName"`
		Scenes  []scene `json:"scenes"`
	}
	d := Document{
		"currentProgramSceneName": "Live",
		"scenes": []any{
			map[string]any{"sceneIndex": float64(1), "sceneName": "Live"},
		},
	}
	require.NoError(t, d.Decode(&out))
	assert.Equal(t, "Live", out.Current)
	require.Len(t, out.Scenes, 1)
	assert.Equal(t, 1, out.Scenes[0].Index)
}

func TestDecodeReplacesPreviousValues(t *testing.T) {
	var out struct {
		Name  string   `json:"name"`
		Count int      `json:"count"`
		Tags  []string `json:"tags"`
	}
	require.NoError(t, Document{"name": "a", "count": 2, "tags": []any{"x", "y", "z"}}.Decode(&out))
	require.NoError(t, Document{"tags": []any{"q"}}.Decode(&out))
	assert.Empty(t, out.Name)
	assert.Zero(t, out.Count)
	assert.Equal(t, []string{"q"}, out.Tags)
}

func TestMarshalNilDocument(t *testing.T) {
	var d Document
	raw, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}

func TestCloneIsDeep(t *testing.T) {
	d := New().Set("nested", map[string]any{"k": "v"})
	c := d.Clone()
	d.Object("nested")["k"] = "changed"
	assert.Equal(t, "v", c.Object("nested").String("k"))
}

func TestFromStruct(t *testing.T) {
	d := FromStruct(struct {
		Name string `json:"name"`
	}{Name: "x"})
	assert.Equal(t, "x", d.String("name"))
}
