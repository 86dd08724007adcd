package copying

import "github.com/google/uuid"

// DeriveID computes the id of an entity's copy inside a copy namespace
// (the new course or exam id). It is a version 5 UUID over the textual
// form of the original id, which makes it identical to PostgreSQL's
// uuid_generate_v5(namespace, id::text) used by the bulk copy SQL, so
// every step can recompute a clone's id without a lookup table.
//
// The algorithm is part of the stored data format: changing it would
// change the ids of all future copies.
func DeriveID(namespace, original uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(original.String()))
}
