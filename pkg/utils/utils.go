package utils

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"unsafe"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// UniqueID returns a time ordered id without dashes.
func UniqueID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

// RandomID returns a random (version 4) uuid string, 122 bits of entropy.
func RandomID() string {
	return uuid.NewString()
}

func GetLocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("failed to get interface addresses: %w", err)
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok {
			if ipnet.IP.IsLoopback() {
				continue
			}
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	return "", fmt.Errorf("no valid local IP address found")
}

// Marshal encodes v as JSON.
func Marshal(v interface{}) ([]byte, error) {
	return sonic.Marshal(v)
}

// Unmarshal decodes JSON into body.
func Unmarshal(in []byte, body interface{}) error {
	return sonic.Unmarshal(in, body)
}

// MustToJSON encodes obj as a JSON string, ignoring errors.
func MustToJSON(obj interface{}) string {
	str, _ := sonic.Marshal(obj)
	return Bytes2Str(str)
}

// MustToIndentJSON is MustToJSON with two space indentation.
func MustToIndentJSON(obj interface{}) string {
	str, _ := sonic.ConfigStd.MarshalIndent(obj, "", "  ")
	return Bytes2Str(str)
}

func AnyToMap(data any) map[string]any {
	tmp, _ := Marshal(data)
	var m map[string]any
	_ = Unmarshal(tmp, &m)
	return m
}

// Bytes2Str converts byte slice to string.
func Bytes2Str(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

func WriteRespWithHttpStatus(w http.ResponseWriter, httpStatus int) {
	w.WriteHeader(httpStatus)
	fmt.Fprint(w, http.StatusText(httpStatus))
}
