package obs

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/samber/lo"
)

// AuthResponse computes the Identify authentication string:
//
//	secret = base64(sha256(password + salt))
//	auth   = base64(sha256(secret + challenge))
func AuthResponse(password, salt, challenge string) string {
	secret := sha256.Sum256([]byte(password + salt))
	secretB64 := base64.StdEncoding.EncodeToString(secret[:])
	auth := sha256.Sum256([]byte(secretB64 + challenge))
	return base64.StdEncoding.EncodeToString(auth[:])
}

// NewIdentify builds the reply to hello. password is only consulted when
// hello carries an authentication challenge.
func NewIdentify(hello *Hello, rpcVersion int, password string, subscriptions *uint32) *Identify {
	ident := &Identify{
		RPCVersion:         rpcVersion,
		EventSubscriptions: subscriptions,
	}
	if hello.Authentication != nil {
		ident.Authentication = lo.ToPtr(AuthResponse(password, hello.Authentication.Salt, hello.Authentication.Challenge))
	}
	return ident
}
