package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// artifactKey builds the canonical artifact key: the "artifact:" namespace
// plus a SHA-256 over the JSON form of the source hash and the options.
// JSON keeps the digest stable across runs without a hand-rolled canonical
// encoding for ArtifactKeyOpts.
func artifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	payload, _ := json.Marshal(struct {
		Source  string
		Options ArtifactKeyOpts
	}{sourceHash, opts})
	return "artifact:" + Hash(payload)
}

// Hash returns the hex SHA-256 of data. FileCache uses it to derive entry
// file names from keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
