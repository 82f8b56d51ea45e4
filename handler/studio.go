package handler

import (
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/xdimtech/go-obsws/pkg/document"
	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
)

// Studio is the in-memory OBS state behind the default mock handlers.
type Studio struct {
	mu        sync.Mutex
	scenes    []string
	program   string
	recording bool
	streaming bool
	inputs    map[string]document.Document
}

func NewStudio(scenes ...string) *Studio {
	if len(scenes) == 0 {
		scenes = []string{"Starting Soon", "Live", "Be Right Back"}
	}
	return &Studio{
		scenes:  scenes,
		program: scenes[0],
		inputs: map[string]document.Document{
			"Mic/Aux": document.New().Set("device_id", "default"),
		},
	}
}

// Install registers the studio's request handlers on s.
func (st *Studio) Install(s *MockServer) *MockServer {
	s.Handle("GetVersion", func(*obsapi.Request) (obsapi.RequestStatus, document.Document) {
		s.handlersMu.RLock()
		available := lo.Keys(s.handlers)
		s.handlersMu.RUnlock()
		return Success(), document.New().
			Set("obsVersion", MockOBSVersion).
			Set("obsWebSocketVersion", MockOBSWebSocketVersion).
			Set("rpcVersion", obsapi.DefaultRPCVersion).
			Set("availableRequests", available).
			Set("platform", "mock")
	})
	s.Handle("GetSceneList", st.getSceneList)
	s.Handle("SetCurrentProgramScene", func(req *obsapi.Request) (obsapi.RequestStatus, document.Document) {
		return st.setProgramScene(s, req)
	})
	s.Handle("GetRecordStatus", func(*obsapi.Request) (obsapi.RequestStatus, document.Document) {
		st.mu.Lock()
		defer st.mu.Unlock()
		return Success(), outputStatus(st.recording)
	})
	s.Handle("GetStreamStatus", func(*obsapi.Request) (obsapi.RequestStatus, document.Document) {
		st.mu.Lock()
		defer st.mu.Unlock()
		return Success(), outputStatus(st.streaming).Set("outputReconnecting", false)
	})
	s.Handle("StartRecord", st.toggleOutput(s, "RecordStateChanged", &st.recording, true))
	s.Handle("StopRecord", st.toggleOutput(s, "RecordStateChanged", &st.recording, false))
	s.Handle("StartStream", st.toggleOutput(s, "StreamStateChanged", &st.streaming, true))
	s.Handle("StopStream", st.toggleOutput(s, "StreamStateChanged", &st.streaming, false))
	s.Handle("GetInputSettings", st.getInputSettings)
	return s
}

func outputStatus(active bool) document.Document {
	return document.New().
		Set("outputActive", active).
		Set("outputTimecode", "00:00:00.000").
		Set("outputDuration", 0).
		Set("outputBytes", 0)
}

func (st *Studio) getSceneList(*obsapi.Request) (obsapi.RequestStatus, document.Document) {
	st.mu.Lock()
	defer st.mu.Unlock()
	// obs lists scenes bottom up: the highest sceneIndex is the first scene.
	scenes := make([]any, 0, len(st.scenes))
	for i := len(st.scenes) - 1; i >= 0; i-- {
		scenes = append(scenes, map[string]any{
			"sceneIndex": i,
			"sceneName":  st.scenes[i],
		})
	}
	return Success(), document.New().
		Set("currentProgramSceneName", st.program).
		Set("currentPreviewSceneName", nil).
		Set("scenes", scenes)
}

func (st *Studio) setProgramScene(s *MockServer, req *obsapi.Request) (obsapi.RequestStatus, document.Document) {
	name := req.RequestData.String("sceneName")
	if name == "" {
		return Failure(obsapi.StatusMissingRequestField, "Your request is missing the `sceneName` field."), nil
	}

	st.mu.Lock()
	if !lo.Contains(st.scenes, name) {
		st.mu.Unlock()
		return Failure(obsapi.StatusResourceNotFound, fmt.Sprintf("No source was found by the name of `%s`.", name)), nil
	}
	changed := st.program != name
	st.program = name
	st.mu.Unlock()

	if changed {
		s.Broadcast("CurrentProgramSceneChanged", document.New().Set("sceneName", name))
	}
	return Success(), nil
}

func (st *Studio) toggleOutput(s *MockServer, eventType string, flag *bool, start bool) RequestHandlerFunc {
	return func(*obsapi.Request) (obsapi.RequestStatus, document.Document) {
		st.mu.Lock()
		if *flag == start {
			st.mu.Unlock()
			if start {
				return Failure(obsapi.StatusOutputRunning, "The output is already running."), nil
			}
			return Failure(obsapi.StatusOutputNotRunning, "The output is not running."), nil
		}
		*flag = start
		st.mu.Unlock()

		state := "OBS_WEBSOCKET_OUTPUT_STOPPED"
		if start {
			state = "OBS_WEBSOCKET_OUTPUT_STARTED"
		}
		data := document.New().Set("outputActive", start).Set("outputState", state)
		if eventType == "RecordStateChanged" && !start {
			data.Set("outputPath", "/tmp/mock-recording.mkv")
		}
		s.Broadcast(eventType, data)
		if eventType == "RecordStateChanged" && !start {
			return Success(), document.New().Set("outputPath", "/tmp/mock-recording.mkv")
		}
		return Success(), nil
	}
}

func (st *Studio) getInputSettings(req *obsapi.Request) (obsapi.RequestStatus, document.Document) {
	name := req.RequestData.String("inputName")
	st.mu.Lock()
	settings, ok := st.inputs[name]
	st.mu.Unlock()
	if !ok {
		return Failure(obsapi.StatusResourceNotFound, fmt.Sprintf("No source was found by the name of `%s`.", name)), nil
	}
	return Success(), document.New().
		Set("inputKind", "pulse_input_capture").
		Set("inputSettings", settings.Clone())
}
