// Package obs defines the obs-websocket 5.x wire format: the {op, d} envelope,
// the typed payload of every opcode, close and status codes, and the
// descriptor contracts that request and event schemas implement.
package obs

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xdimtech/go-obsws/pkg/document"
	"github.com/xdimtech/go-obsws/pkg/utils"
)

// OpCode identifies the payload type of an envelope.
type OpCode int

const (
	OpHello                OpCode = 0
	OpIdentify             OpCode = 1
	OpIdentified           OpCode = 2
	OpReidentify           OpCode = 3
	OpEvent                OpCode = 5
	OpRequest              OpCode = 6
	OpRequestResponse      OpCode = 7
	OpRequestBatch         OpCode = 8
	OpRequestBatchResponse OpCode = 9
)

func (o OpCode) String() string {
	switch o {
	case OpHello:
		return "Hello"
	case OpIdentify:
		return "Identify"
	case OpIdentified:
		return "Identified"
	case OpReidentify:
		return "Reidentify"
	case OpEvent:
		return "Event"
	case OpRequest:
		return "Request"
	case OpRequestResponse:
		return "RequestResponse"
	case OpRequestBatch:
		return "RequestBatch"
	case OpRequestBatchResponse:
		return "RequestBatchResponse"
	default:
		return fmt.Sprintf("OpCode(%d)", int(o))
	}
}

var (
	ErrMalformedMessage = errors.New("obs: malformed message")
	ErrUnknownOpCode    = errors.New("obs: unknown opcode")
)

// DefaultRPCVersion is the rpc version this client asks for in Identify.
const DefaultRPCVersion = 1

// Message is any payload that travels inside an envelope.
type Message interface {
	OpCode() OpCode
}

// Envelope is the outer frame of every message: {"op": n, "d": {...}}.
type Envelope struct {
	Op OpCode          `json:"op"`
	D  json.RawMessage `json:"d"`
}

type Authentication struct {
	Challenge string `json:"challenge"`
	Salt      string `json:"salt"`
}

// Hello is sent by the server right after the websocket opens.
type Hello struct {
	ObsWebSocketVersion string          `json:"obsWebSocketVersion"`
	RPCVersion          int             `json:"rpcVersion"`
	Authentication      *Authentication `json:"authentication,omitempty"`
}

func (*Hello) OpCode() OpCode { return OpHello }

// Identify answers Hello.
type Identify struct {
	RPCVersion         int     `json:"rpcVersion"`
	Authentication     *string `json:"authentication,omitempty"`
	EventSubscriptions *uint32 `json:"eventSubscriptions,omitempty"`
}

func (*Identify) OpCode() OpCode { return OpIdentify }

type Identified struct {
	NegotiatedRPCVersion int `json:"negotiatedRpcVersion"`
}

func (*Identified) OpCode() OpCode { return OpIdentified }

type Event struct {
	EventType   string            `json:"eventType"`
	EventIntent int               `json:"eventIntent,omitempty"`
	EventData   document.Document `json:"eventData,omitempty"`
}

func (*Event) OpCode() OpCode { return OpEvent }

type Request struct {
	RequestType string            `json:"requestType"`
	RequestID   string            `json:"requestId"`
	RequestData document.Document `json:"requestData"`
}

func (*Request) OpCode() OpCode { return OpRequest }

type RequestStatus struct {
	Result  bool    `json:"result"`
	Code    int     `json:"code"`
	Comment *string `json:"comment,omitempty"`
}

type RequestResponse struct {
	RequestType   string            `json:"requestType"`
	RequestID     string            `json:"requestId"`
	RequestStatus RequestStatus     `json:"requestStatus"`
	ResponseData  document.Document `json:"responseData,omitempty"`

	// Raw is the full frame text the response was decoded from.
	Raw string `json:"-"`
}

func (*RequestResponse) OpCode() OpCode { return OpRequestResponse }

// Marshal wraps msg in an envelope and encodes it.
func Marshal(msg Message) ([]byte, error) {
	d, err := utils.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("obs: marshal %s: %w", msg.OpCode(), err)
	}
	return utils.Marshal(&Envelope{Op: msg.OpCode(), D: d})
}

func unmarshalMessage[T Hello | Identify | Identified | Event | Request | RequestResponse](d json.RawMessage) (*T, error) {
	var t T
	if len(d) == 0 {
		return nil, fmt.Errorf("%w: missing d", ErrMalformedMessage)
	}
	if err := utils.Unmarshal(d, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &t, nil
}

// Unmarshal decodes a frame into its typed payload. An opcode this package
// does not model is reported with ErrUnknownOpCode and the decoded envelope,
// so callers can log the op and move on.
func Unmarshal(data []byte) (Message, *Envelope, error) {
	var env Envelope
	if err := utils.Unmarshal(data, &env); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	var (
		msg Message
		err error
	)
	switch env.Op {
	case OpHello:
		msg, err = unmarshalMessage[Hello](env.D)
	case OpIdentify:
		msg, err = unmarshalMessage[Identify](env.D)
	case OpIdentified:
		msg, err = unmarshalMessage[Identified](env.D)
	case OpEvent:
		msg, err = unmarshalMessage[Event](env.D)
	case OpRequest:
		msg, err = unmarshalMessage[Request](env.D)
	case OpRequestResponse:
		var resp *RequestResponse
		resp, err = unmarshalMessage[RequestResponse](env.D)
		if err == nil {
			resp.Raw = string(data)
			msg = resp
		}
	default:
		return nil, &env, fmt.Errorf("%w: %d", ErrUnknownOpCode, int(env.Op))
	}
	if err != nil {
		return nil, &env, err
	}
	return msg, &env, nil
}
