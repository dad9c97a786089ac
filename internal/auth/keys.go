package auth

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

var (
	keysMu   sync.RWMutex
	keysOnce sync.Once
	keysErr  error

	privKey   *rsa.PrivateKey
	pubKeys   = map[string]*rsa.PublicKey{} // kid -> pub
	activeKID string
	issuer    string
	audience  string
)

// mustInitKeys loads the signing key once, from AUTH_RSA_PRIVATE_PEM or the
// file at AUTH_RSA_PRIVATE_PATH.
func mustInitKeys() error {
	if getPriv() != nil {
		return nil
	}
	keysOnce.Do(func() {
		kid := os.Getenv("AUTH_KID")
		iss := os.Getenv("AUTH_ISSUER")
		aud := os.Getenv("AUTH_AUDIENCE")
		if kid == "" || iss == "" || aud == "" {
			keysErr = errors.New("missing envs: AUTH_KID/AUTH_ISSUER/AUTH_AUDIENCE")
			return
		}

		b := []byte(os.Getenv("AUTH_RSA_PRIVATE_PEM"))
		if len(b) == 0 {
			path := os.Getenv("AUTH_RSA_PRIVATE_PATH")
			if path == "" {
				keysErr = errors.New("missing envs: AUTH_RSA_PRIVATE_PEM or AUTH_RSA_PRIVATE_PATH")
				return
			}
			var err error
			if b, err = os.ReadFile(path); err != nil {
				keysErr = fmt.Errorf("read private key: %w", err)
				return
			}
		}

		pk, err := parsePrivateKey(b)
		if err != nil {
			keysErr = err
			return
		}
		SetSigningKey(kid, pk, iss, aud)
	})
	return keysErr
}

func parsePrivateKey(b []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("pem decode private key failed")
	}
	// PKCS#1 or PKCS#8
	if k, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return k, nil
	}
	k8, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	rk, ok := k8.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not RSA")
	}
	return rk, nil
}

// SetSigningKey installs the active key directly, bypassing the environment.
func SetSigningKey(kid string, pk *rsa.PrivateKey, iss, aud string) {
	keysMu.Lock()
	defer keysMu.Unlock()
	privKey = pk
	activeKID = kid
	issuer = iss
	audience = aud
	pubKeys[kid] = &pk.PublicKey
}

func getPriv() *rsa.PrivateKey {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return privKey
}

func getPub(kid string) (*rsa.PublicKey, bool) {
	keysMu.RLock()
	defer keysMu.RUnlock()
	p, ok := pubKeys[kid]
	return p, ok
}

func getKID() string {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return activeKID
}

// verificationKeys returns the active kid and every public key still accepted
// for verification, including keys that signed before a rotation.
func verificationKeys() (string, map[string]*rsa.PublicKey) {
	keysMu.RLock()
	defer keysMu.RUnlock()
	out := make(map[string]*rsa.PublicKey, len(pubKeys))
	for kid, pub := range pubKeys {
		out[kid] = pub
	}
	return activeKID, out
}

func getIssuer() string {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return issuer
}

func getAudience() string {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return audience
}

func signMethod() jwt.SigningMethod { return jwt.SigningMethodRS256 }
