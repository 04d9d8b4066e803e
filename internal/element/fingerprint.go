package element

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint returns a stable digest of the resolved element. Two resolutions
// of the same declarations yield the same fingerprint.
func (r *Resolved) Fingerprint() (string, error) {
	// encoding/json sorts map keys, which makes the encoding canonical.
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
