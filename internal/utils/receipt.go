package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateReceiptID returns a unique receipt reference for a gateway order.
// A random token is used instead of bare wall-clock time so that rapid
// repeated checkout attempts can never collide on the same receipt.
func GenerateReceiptID() string {
	datePart := time.Now().UTC().Format("20060102")
	return fmt.Sprintf("rcpt_%s_%s", datePart, uuid.NewString()[:8])
}
