package attest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// digestPayload fixes the shape hashed for a parameter digest. Both action
// name and parameters participate so two actions with identical parameters
// still produce distinct digests.
type digestPayload struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// Digest returns a stable SHA-256 hex digest of an action and its parameters.
// The JSON is canonicalized per RFC 8785 before hashing so the digest is
// independent of key ordering and number formatting, which keeps policy
// decisions reproducible across processes.
func Digest(action string, params map[string]any) string {
	raw, err := json.Marshal(digestPayload{Action: action, Params: params})
	if err != nil {
		// Unmarshalable values (channels, funcs) cannot round-trip through
		// the policy layer anyway; hash a printable rendering instead of
		// failing the safety path.
		raw = []byte(fmt.Sprintf("%s:%v", action, params))
	} else if canonical, cerr := jcs.Transform(raw); cerr == nil {
		raw = canonical
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
