package uid

import (
	"io"

	"github.com/google/uuid"
)

// UUID generates version 7 UUID strings. Ids from one process sort by
// creation time, which keeps archive keys under a day prefix in send order.
type UUID struct {
	rand io.Reader // nil means crypto/rand
}

// NewUUID returns a UUID generator backed by crypto/rand.
func NewUUID() *UUID {
	return &UUID{}
}

func (u *UUID) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if u.rand == nil {
		id, err = uuid.NewV7()
	} else {
		id, err = uuid.NewV7FromReader(u.rand)
	}
	if err != nil {
		// v4 from the package pool; ordering is lost but ids stay unique
		return uuid.NewString()
	}
	return id.String()
}
