package bson

import (
	"encoding/hex"

	"github.com/segmentio/ksuid"

	bsonerr "github.com/vaporbyte/bson/errors"
)

// ObjectID is a 12-byte BSON object identifier.
type ObjectID [12]byte

// Hex returns the lowercase hex encoding of the ObjectID.
func (id ObjectID) Hex() string { return hex.EncodeToString(id[:]) }

func (id ObjectID) String() string { return id.Hex() }

// ObjectIDFromHex decodes a 24-character hex string into an ObjectID.
func ObjectIDFromHex(s string) (ObjectID, error) {
	var id ObjectID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, bsonerr.E(bsonerr.Precondition, err)
	}
	if len(b) != len(id) {
		return id, bsonerr.E(bsonerr.Precondition, "oid hex must decode to 12 bytes")
	}
	copy(id[:], b)
	return id, nil
}

// NewObjectID mints a fresh ObjectID from a KSUID: KSUID already packs a
// timestamp and 16 bytes of randomness into a sortable, collision-resistant
// value, so an ObjectID is simply its leading 12 bytes.
func NewObjectID() ObjectID {
	var id ObjectID
	copy(id[:], ksuid.New().Bytes())
	return id
}
