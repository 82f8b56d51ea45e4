// Package requests contains obs-websocket request schemas.
//
// Each type names its wire requestType, writes its parameters into
// requestData and reads responseData back into its own fields.
package requests

import (
	"sort"

	"github.com/samber/lo"

	"github.com/xdimtech/go-obsws/pkg/document"
)

// EmptyRequest sends no data and expects none back, e.g. "StartRecord".
type EmptyRequest struct {
	Type string
}

// Empty returns a request that carries only its requestType.
func Empty(requestType string) *EmptyRequest {
	return &EmptyRequest{Type: requestType}
}

func (r *EmptyRequest) RequestType() string                        { return r.Type }
func (r *EmptyRequest) FillRequestData(document.Document)          {}
func (r *EmptyRequest) ParseResponseData(document.Document) error { return nil }

// noParams is embedded by Get requests without parameters.
type noParams struct{}

func (noParams) FillRequestData(document.Document) {}

// noResponse is embedded by Set requests that return nothing.
type noResponse struct{}

func (noResponse) ParseResponseData(document.Document) error { return nil }

type GetVersion struct {
	noParams
	ObsVersion          string   `json:"obsVersion"`
	ObsWebSocketVersion string   `json:"obsWebSocketVersion"`
	RPCVersion          int      `json:"rpcVersion"`
	AvailableRequests   []string `json:"availableRequests"`
	Platform            string   `json:"platform"`
}

func (r *GetVersion) RequestType() string { return "GetVersion" }

func (r *GetVersion) ParseResponseData(data document.Document) error {
	return data.Decode(r)
}

type GetRecordStatus struct {
	noParams
	OutputActive   bool   `json:"outputActive"`
	OutputPaused   bool   `json:"outputPaused"`
	OutputTimecode string `json:"outputTimecode"`
	OutputDuration int    `json:"outputDuration"`
	OutputBytes    int    `json:"outputBytes"`
}

func (r *GetRecordStatus) RequestType() string { return "GetRecordStatus" }

func (r *GetRecordStatus) ParseResponseData(data document.Document) error {
	return data.Decode(r)
}

type GetStreamStatus struct {
	noParams
	OutputActive       bool   `json:"outputActive"`
	OutputReconnecting bool   `json:"outputReconnecting"`
	OutputTimecode     string `json:"outputTimecode"`
	OutputDuration     int    `json:"outputDuration"`
	OutputBytes        int    `json:"outputBytes"`
}

func (r *GetStreamStatus) RequestType() string { return "GetStreamStatus" }

func (r *GetStreamStatus) ParseResponseData(data document.Document) error {
	return data.Decode(r)
}

type Scene struct {
	SceneIndex int    `json:"sceneIndex"`
	SceneName  string `json:"sceneName"`
}

// GetSceneList lists scenes ordered by sceneIndex.
type GetSceneList struct {
	noParams
	CurrentProgramSceneName string  `json:"currentProgramSceneName"`
	CurrentPreviewSceneName string  `json:"currentPreviewSceneName"`
	Scenes                  []Scene `json:"scenes"`
}

func (r *GetSceneList) RequestType() string { return "GetSceneList" }

func (r *GetSceneList) ParseResponseData(data document.Document) error {
	if err := data.Decode(r); err != nil {
		return err
	}
	sort.SliceStable(r.Scenes, func(i, j int) bool {
		return r.Scenes[i].SceneIndex < r.Scenes[j].SceneIndex
	})
	return nil
}

// SceneNames returns scene names in sceneIndex order.
func (r *GetSceneList) SceneNames() []string {
	return lo.Map(r.Scenes, func(s Scene, _ int) string { return s.SceneName })
}

type GetInputSettings struct {
	InputName string `json:"-"`

	InputKind     string            `json:"inputKind"`
	InputSettings document.Document `json:"inputSettings"`
}

func (r *GetInputSettings) RequestType() string { return "GetInputSettings" }

func (r *GetInputSettings) FillRequestData(data document.Document) {
	data.Set("inputName", r.InputName)
}

func (r *GetInputSettings) ParseResponseData(data document.Document) error {
	r.InputKind = data.String("inputKind")
	r.InputSettings = data.Object("inputSettings")
	return nil
}

type GetSceneItemId struct {
	SceneName    string
	SourceName   string
	SearchOffset int

	SceneItemID int `json:"sceneItemId"`
}

func (r *GetSceneItemId) RequestType() string { return "GetSceneItemId" }

func (r *GetSceneItemId) FillRequestData(data document.Document) {
	data.Set("sceneName", r.SceneName).
		Set("sourceName", r.SourceName).
		Set("searchOffset", r.SearchOffset)
}

func (r *GetSceneItemId) ParseResponseData(data document.Document) error {
	r.SceneItemID = data.Int("sceneItemId")
	return nil
}

type GetSceneItemEnabled struct {
	SceneName   string
	SceneItemID int

	SceneItemEnabled bool
}

func (r *GetSceneItemEnabled) RequestType() string { return "GetSceneItemEnabled" }

func (r *GetSceneItemEnabled) FillRequestData(data document.Document) {
	data.Set("sceneName", r.SceneName).Set("sceneItemId", r.SceneItemID)
}

func (r *GetSceneItemEnabled) ParseResponseData(data document.Document) error {
	r.SceneItemEnabled = data.Bool("sceneItemEnabled")
	return nil
}

type SetCurrentProgramScene struct {
	noResponse
	SceneName string
}

func (r *SetCurrentProgramScene) RequestType() string { return "SetCurrentProgramScene" }

func (r *SetCurrentProgramScene) FillRequestData(data document.Document) {
	data.Set("sceneName", r.SceneName)
}

type SetInputSettings struct {
	noResponse
	InputName     string
	InputSettings map[string]any
	// Overlay false replaces all settings instead of merging.
	Overlay *bool
}

func (r *SetInputSettings) RequestType() string { return "SetInputSettings" }

func (r *SetInputSettings) FillRequestData(data document.Document) {
	data.Set("inputName", r.InputName).
		Set("inputSettings", document.Document(lo.Assign(map[string]any{}, r.InputSettings)))
	if r.Overlay != nil {
		data.Set("overlay", lo.FromPtr(r.Overlay))
	}
}

type SetSceneItemEnabled struct {
	noResponse
	SceneName        string
	SceneItemID      int
	SceneItemEnabled bool
}

func (r *SetSceneItemEnabled) RequestType() string { return "SetSceneItemEnabled" }

func (r *SetSceneItemEnabled) FillRequestData(data document.Document) {
	data.Set("sceneName", r.SceneName).
		Set("sceneItemId", r.SceneItemID).
		Set("sceneItemEnabled", r.SceneItemEnabled)
}
