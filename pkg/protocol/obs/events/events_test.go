package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdimtech/go-obsws/pkg/document"
	"github.com/xdimtech/go-obsws/pkg/protocol/obs"
)

var (
	_ obs.EventSchema = (*CurrentProgramSceneChanged)(nil)
	_ obs.EventSchema = (*RecordStateChanged)(nil)
	_ obs.EventSchema = (*StreamStateChanged)(nil)
	_ obs.EventSchema = (*SceneTransitionEnded)(nil)
)

func TestRecordStateChangedResetsOptionalPath(t *testing.T) {
	e := &RecordStateChanged{}
	require.NoError(t, e.ParseEventData(document.Document{
		"outputActive": true,
		"outputState":  "OBS_WEBSOCKET_OUTPUT_STARTED",
		"outputPath":   "/tmp/rec.mkv",
	}))
	assert.True(t, e.OutputActive)
	assert.Equal(t, "/tmp/rec.mkv", e.OutputPath)

	require.NoError(t, e.ParseEventData(document.Document{
		"outputActive": false,
		"outputState":  "OBS_WEBSOCKET_OUTPUT_STOPPING",
	}))
	assert.False(t, e.OutputActive)
	assert.Equal(t, "OBS_WEBSOCKET_OUTPUT_STOPPING", e.OutputState)
	assert.Empty(t, e.OutputPath)
}

func TestSceneEvents(t *testing.T) {
	scene := &CurrentProgramSceneChanged{}
	require.NoError(t, scene.ParseEventData(document.Document{"sceneName": "Live"}))
	assert.Equal(t, "Live", scene.SceneName)

	tr := &SceneTransitionEnded{}
	require.NoError(t, tr.ParseEventData(document.Document{"transitionName": "Fade"}))
	assert.Equal(t, "Fade", tr.TransitionName)
}
