package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"
	"sort"

	"github.com/oculusrep/commission-api/internal/httpx"
)

type jwk struct {
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSet is the body of the JWKS endpoint.
type JWKSet struct {
	Keys []jwk `json:"keys"`
}

func toJWK(kid string, pub *rsa.PublicKey) jwk {
	return jwk{
		Kty: "RSA",
		Alg: signMethod().Alg(),
		Use: "sig",
		Kid: kid,
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

// buildJWKSet lists the signing key first, then keys kept for tokens issued
// before a rotation, by kid.
func buildJWKSet() (JWKSet, bool) {
	active, keys := verificationKeys()
	pub, ok := keys[active]
	if !ok || pub == nil {
		return JWKSet{}, false
	}
	set := JWKSet{Keys: []jwk{toJWK(active, pub)}}

	var retired []string
	for kid := range keys {
		if kid != active {
			retired = append(retired, kid)
		}
	}
	sort.Strings(retired)
	for _, kid := range retired {
		set.Keys = append(set.Keys, toJWK(kid, keys[kid]))
	}
	return set, true
}

// JWKSHandler publishes the public keys brokers' tokens are verified with.
//
// GET /.well-known/jwks.json
func JWKSHandler(w http.ResponseWriter, r *http.Request) {
	if err := mustInitKeys(); err != nil {
		http.Error(w, "jwks unavailable", http.StatusInternalServerError)
		return
	}
	set, ok := buildJWKSet()
	if !ok {
		http.Error(w, "no public key", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	httpx.JSON(w, http.StatusOK, set)
}
