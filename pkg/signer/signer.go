package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SignatureMethod is sent verbatim in the signing string and in x-ca-signature-method.
const SignatureMethod = "HmacSHA256"

const (
	HeaderContentType     = "content-type"
	HeaderAppID           = "x-ca-appid"
	HeaderTimestamp       = "x-ca-timestamp"
	HeaderNonce           = "x-ca-nonce"
	HeaderSignatureMethod = "x-ca-signature-method"
	HeaderSignature       = "x-ca-signature"
)

// Signer produces the x-ca-* authentication headers expected by the APsystems OpenAPI gateway.
type Signer struct {
	appID  string
	secret string
	now    func() time.Time
	nonce  func() string
}

func New(appID, secret string) *Signer {
	return &Signer{
		appID:  appID,
		secret: secret,
		now:    time.Now,
		nonce:  GenerateNonce,
	}
}

// GenerateNonce returns 128 random bits as 32 lowercase hex characters.
func GenerateNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Headers signs method and path with a fresh timestamp and nonce.
func (s *Signer) Headers(method, path string) map[string]string {
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	nonce := s.nonce()

	return map[string]string{
		HeaderContentType:     "application/json",
		HeaderAppID:           s.appID,
		HeaderTimestamp:       timestamp,
		HeaderNonce:           nonce,
		HeaderSignatureMethod: SignatureMethod,
		HeaderSignature:       s.Sign(method, path, timestamp, nonce),
	}
}

// Apply sets the signed headers on req, signing req.URL.Path.
func (s *Signer) Apply(req *http.Request) {
	for k, v := range s.Headers(req.Method, req.URL.Path) {
		req.Header.Set(k, v)
	}
}

// Sign is deterministic for a given timestamp and nonce.
func (s *Signer) Sign(method, path, timestamp, nonce string) string {
	return hmacSHA256(s.secret, SigningString(s.appID, method, path, timestamp, nonce))
}

func SigningString(appID, method, path, timestamp, nonce string) string {
	return strings.Join([]string{
		timestamp,
		nonce,
		appID,
		lastSegment(path),
		strings.ToUpper(method),
		SignatureMethod,
	}, "/")
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func hmacSHA256(key, message string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
