// ID untuk request & batch ingest. UUIDv7 supaya batch_id urut waktu.

package util

import (
	"github.com/google/uuid"
)

func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
