package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderNumberPrefix = "ORD"

// GenerateOrderNumber builds "ORD-<unix ms>-<6 hex>". The random suffix keeps
// numbers distinct within the same millisecond.
func GenerateOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%d-%s", orderNumberPrefix, at.UnixMilli(), suffix)
}
