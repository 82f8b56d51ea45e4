package obs

import "github.com/xdimtech/go-obsws/pkg/document"

// RequestSchema is the contract a request schema satisfies. The same value is
// sent and then filled in place from responseData.
type RequestSchema interface {
	// RequestType is the wire requestType, e.g. "GetVersion".
	RequestType() string
	// FillRequestData writes the request parameters into data.
	FillRequestData(data document.Document)
	// ParseResponseData reads responseData. data is empty, never nil-dereferenced,
	// when the server sent no responseData.
	ParseResponseData(data document.Document) error
}

// EventSchema is the contract an event schema satisfies.
type EventSchema interface {
	// EventType is the wire eventType, e.g. "CurrentProgramSceneChanged".
	EventType() string
	ParseEventData(data document.Document) error
}

// RequestFunc is a request descriptor made of plain data: a wire name and an
// encode/decode function pair. Nil functions are skipped.
type RequestFunc struct {
	Type  string
	Fill  func(data document.Document)
	Parse func(data document.Document) error

	// Response keeps the last parsed responseData.
	Response document.Document
}

func (r *RequestFunc) RequestType() string { return r.Type }

func (r *RequestFunc) FillRequestData(data document.Document) {
	if r.Fill != nil {
		r.Fill(data)
	}
}

func (r *RequestFunc) ParseResponseData(data document.Document) error {
	r.Response = data
	if r.Parse != nil {
		return r.Parse(data)
	}
	return nil
}

// EventFunc is the event counterpart of RequestFunc.
type EventFunc struct {
	Type  string
	Parse func(data document.Document) error

	Data document.Document
}

func (e *EventFunc) EventType() string { return e.Type }

func (e *EventFunc) ParseEventData(data document.Document) error {
	e.Data = data
	if e.Parse != nil {
		return e.Parse(data)
	}
	return nil
}
