package obs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdimtech/go-obsws/pkg/document"
	"github.com/xdimtech/go-obsws/pkg/utils"
)

func TestAuthResponseKnownVector(t *testing.T) {
	// secret = base64(sha256("pw"+"s1")), auth = base64(sha256(secret+"ch"))
	assert.Equal(t, "KUUC/9Dqn56h8+KEmFfylusKiXDqirfPau0kj/4kEQ8=", AuthResponse("pw", "s1", "ch"))

	// Example values from the obs-websocket protocol documentation.
	assert.Equal(t, "TGg0cwWbBCXCyVftRmWuDsZ5jOjptyNC+cgZEcfJ/nk=",
		AuthResponse("supersecret", "lSLT", "+IxH4CnCiqpX1rM9scsNynZzbOe4KhDeYcTNS3PDaeY="))
}

func TestNewIdentify(t *testing.T) {
	plain := NewIdentify(&Hello{RPCVersion: 1}, 1, "ignored", nil)
	assert.Nil(t, plain.Authentication)
	assert.Nil(t, plain.EventSubscriptions)

	mask := uint32(EventSubscriptionScenes)
	authed := NewIdentify(&Hello{
		RPCVersion:     1,
		Authentication: &Authentication{Challenge: "ch", Salt: "s1"},
	}, 1, "pw", &mask)
	require.NotNil(t, authed.Authentication)
	assert.Equal(t, AuthResponse("pw", "s1", "ch"), *authed.Authentication)
	assert.Equal(t, uint32(4), *authed.EventSubscriptions)
}

func TestMarshalRequestEnvelope(t *testing.T) {
	raw, err := Marshal(&Request{
		RequestType: "GetInputSettings",
		RequestID:   "abc",
		RequestData: document.New().Set("inputName", "Mic"),
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, utils.Unmarshal(raw, &got))
	assert.EqualValues(t, 6, got["op"])
	d := document.Document(got["d"].(map[string]any))
	assert.Equal(t, "GetInputSettings", d.String("requestType"))
	assert.Equal(t, "abc", d.String("requestId"))
	assert.Equal(t, "Mic", d.Object("requestData").String("inputName"))
}

func TestMarshalIdentifyOmitsEmptyAuthentication(t *testing.T) {
	raw, err := Marshal(&Identify{RPCVersion: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":1,"d":{"rpcVersion":1}}`, string(raw))
}

func TestUnmarshalHello(t *testing.T) {
	msg, env, err := Unmarshal([]byte(`{"op":0,"d":{"obsWebSocketVersion":"5.1.0","rpcVersion":1,
		"authentication":{"challenge":"ch","salt":"s1"}}}`))
	require.NoError(t, err)
	assert.Equal(t, OpHello, env.Op)
	hello, ok := msg.(*Hello)
	require.True(t, ok)
	assert.Equal(t, "5.1.0", hello.ObsWebSocketVersion)
	assert.Equal(t, 1, hello.RPCVersion)
	require.NotNil(t, hello.Authentication)
	assert.Equal(t, "ch", hello.Authentication.Challenge)
	assert.Equal(t, "s1", hello.Authentication.Salt)
}

func TestUnmarshalRequestResponseKeepsRaw(t *testing.T) {
	frame := `{"op":7,"d":{"requestType":"GetVersion","requestId":"r1",` +
		`"requestStatus":{"result":false,"code":600,"comment":"No source was found"}}}`
	msg, _, err := Unmarshal([]byte(frame))
	require.NoError(t, err)
	resp, ok := msg.(*RequestResponse)
	require.True(t, ok)
	assert.Equal(t, "r1", resp.RequestID)
	assert.False(t, resp.RequestStatus.Result)
	assert.Equal(t, StatusResourceNotFound, resp.RequestStatus.Code)
	require.NotNil(t, resp.RequestStatus.Comment)
	assert.Equal(t, "No source was found", *resp.RequestStatus.Comment)
	assert.Nil(t, resp.ResponseData)
	assert.Equal(t, frame, resp.Raw)
}

func TestUnmarshalEvent(t *testing.T) {
	msg, _, err := Unmarshal([]byte(`{"op":5,"d":{"eventType":"CurrentProgramSceneChanged",
		"eventIntent":4,"eventData":{"sceneName":"Live"}}}`))
	require.NoError(t, err)
	ev := msg.(*Event)
	assert.Equal(t, "CurrentProgramSceneChanged", ev.EventType)
	assert.Equal(t, "Live", ev.EventData.String("sceneName"))
}

func TestUnmarshalUnknownOpCode(t *testing.T) {
	msg, env, err := Unmarshal([]byte(`{"op":42,"d":{}}`))
	assert.Nil(t, msg)
	require.NotNil(t, env)
	assert.Equal(t, OpCode(42), env.Op)
	assert.True(t, errors.Is(err, ErrUnknownOpCode))
}

func TestUnmarshalMalformed(t *testing.T) {
	_, _, err := Unmarshal([]byte(`not json`))
	assert.True(t, errors.Is(err, ErrMalformedMessage))

	_, _, err = Unmarshal([]byte(`{"op":2}`))
	assert.True(t, errors.Is(err, ErrMalformedMessage))
}

func TestRequestFuncDescriptor(t *testing.T) {
	var kind string
	req := &RequestFunc{
		Type: "GetInputSettings",
		Fill: func(data document.Document) { data.Set("inputName", "Mic") },
		Parse: func(data document.Document) error {
			kind = data.String("inputKind")
			return nil
		},
	}
	data := document.New()
	req.FillRequestData(data)
	assert.Equal(t, "Mic", data.String("inputName"))

	require.NoError(t, req.ParseResponseData(document.New().Set("inputKind", "wasapi_input_capture")))
	assert.Equal(t, "wasapi_input_capture", kind)
	assert.Equal(t, "wasapi_input_capture", req.Response.String("inputKind"))
}

func TestCloseCodeString(t *testing.T) {
	assert.Equal(t, "AuthenticationFailed", CloseAuthenticationFailed.String())
	assert.Equal(t, "CloseCode(1000)", CloseCode(1000).String())
}
