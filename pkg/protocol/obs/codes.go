package obs

import "fmt"

// CloseCode is a websocket close status sent by obs-websocket.
type CloseCode int

const (
	CloseDontClose             CloseCode = 0
	CloseUnknownReason         CloseCode = 4000
	CloseMessageDecodeError    CloseCode = 4002
	CloseMissingDataField      CloseCode = 4003
	CloseInvalidDataFieldType  CloseCode = 4004
	CloseInvalidDataFieldValue CloseCode = 4005
	CloseUnknownOpCode         CloseCode = 4006
	CloseNotIdentified         CloseCode = 4007
	CloseAlreadyIdentified     CloseCode = 4008
	CloseAuthenticationFailed  CloseCode = 4009
	CloseUnsupportedRPCVersion CloseCode = 4010
	CloseSessionInvalidated    CloseCode = 4011
	CloseUnsupportedFeature    CloseCode = 4012
)

var closeCodeNames = map[CloseCode]string{
	CloseDontClose:             "DontClose",
	CloseUnknownReason:         "UnknownReason",
	CloseMessageDecodeError:    "MessageDecodeError",
	CloseMissingDataField:      "MissingDataField",
	CloseInvalidDataFieldType:  "InvalidDataFieldType",
	CloseInvalidDataFieldValue: "InvalidDataFieldValue",
	CloseUnknownOpCode:         "UnknownOpCode",
	CloseNotIdentified:         "NotIdentified",
	CloseAlreadyIdentified:     "AlreadyIdentified",
	CloseAuthenticationFailed:  "AuthenticationFailed",
	CloseUnsupportedRPCVersion: "UnsupportedRpcVersion",
	CloseSessionInvalidated:    "SessionInvalidated",
	CloseUnsupportedFeature:    "UnsupportedFeature",
}

func (c CloseCode) String() string {
	if name, ok := closeCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CloseCode(%d)", int(c))
}

// RequestStatus codes returned in requestStatus.code.
const (
	StatusUnknown                 = 0
	StatusNoError                 = 10
	StatusSuccess                 = 100
	StatusMissingRequestType      = 203
	StatusUnknownRequestType      = 204
	StatusGenericError            = 205
	StatusUnsupportedRequestBatch = 206
	StatusNotReady                = 207
	StatusMissingRequestField     = 300
	StatusMissingRequestData      = 301
	StatusInvalidRequestField     = 400
	StatusInvalidRequestFieldType = 401
	StatusRequestFieldOutOfRange  = 402
	StatusRequestFieldEmpty       = 403
	StatusTooManyRequestFields    = 404
	StatusOutputRunning           = 500
	StatusOutputNotRunning        = 501
	StatusOutputPaused            = 502
	StatusOutputNotPaused         = 503
	StatusOutputDisabled          = 504
	StatusStudioModeActive        = 505
	StatusStudioModeNotActive     = 506
	StatusResourceNotFound        = 600
	StatusResourceAlreadyExists   = 601
	StatusInvalidResourceType     = 602
	StatusNotEnoughResources      = 603
	StatusInvalidResourceState    = 604
	StatusInvalidInputKind        = 605
	StatusResourceNotConfigurable = 606
	StatusInvalidFilterKind       = 607
	StatusResourceCreationFailed  = 700
	StatusResourceActionFailed    = 701
	StatusRequestProcessingFailed = 702
	StatusCannotAct               = 703
)

// EventSubscription is the bitmask sent in Identify.eventSubscriptions.
type EventSubscription uint32

const (
	EventSubscriptionNone        EventSubscription = 0
	EventSubscriptionGeneral     EventSubscription = 1 << 0
	EventSubscriptionConfig      EventSubscription = 1 << 1
	EventSubscriptionScenes      EventSubscription = 1 << 2
	EventSubscriptionInputs      EventSubscription = 1 << 3
	EventSubscriptionTransitions EventSubscription = 1 << 4
	EventSubscriptionFilters     EventSubscription = 1 << 5
	EventSubscriptionOutputs     EventSubscription = 1 << 6
	EventSubscriptionSceneItems  EventSubscription = 1 << 7
	EventSubscriptionMediaInputs EventSubscription = 1 << 8
	EventSubscriptionVendors     EventSubscription = 1 << 9
	EventSubscriptionUi          EventSubscription = 1 << 10

	EventSubscriptionAll = EventSubscriptionGeneral | EventSubscriptionConfig |
		EventSubscriptionScenes | EventSubscriptionInputs | EventSubscriptionTransitions |
		EventSubscriptionFilters | EventSubscriptionOutputs | EventSubscriptionSceneItems |
		EventSubscriptionMediaInputs | EventSubscriptionVendors | EventSubscriptionUi
)
