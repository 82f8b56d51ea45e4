// Package events contains obs-websocket event schemas.
package events

import "github.com/xdimtech/go-obsws/pkg/document"

type CurrentProgramSceneChanged struct {
	SceneName string `json:"sceneName"`
}

func (e *CurrentProgramSceneChanged) EventType() string { return "CurrentProgramSceneChanged" }

func (e *CurrentProgramSceneChanged) ParseEventData(data document.Document) error {
	return data.Decode(e)
}

type RecordStateChanged struct {
	OutputActive bool   `json:"outputActive"`
	OutputState  string `json:"outputState"`
	OutputPath   string `json:"outputPath"`
}

func (e *RecordStateChanged) EventType() string { return "RecordStateChanged" }

func (e *RecordStateChanged) ParseEventData(data document.Document) error {
	return data.Decode(e)
}

type StreamStateChanged struct {
	OutputActive bool   `json:"outputActive"`
	OutputState  string `json:"outputState"`
}

func (e *StreamStateChanged) EventType() string { return "StreamStateChanged" }

func (e *StreamStateChanged) ParseEventData(data document.Document) error {
	return data.Decode(e)
}

type SceneTransitionEnded struct {
	TransitionName string `json:"transitionName"`
}

func (e *SceneTransitionEnded) EventType() string { return "SceneTransitionEnded" }

func (e *SceneTransitionEnded) ParseEventData(data document.Document) error {
	return data.Decode(e)
}
