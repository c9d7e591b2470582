package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh record id: unix-milli prefix plus a short random
// suffix. The time prefix keeps ids roughly sortable by creation; the
// suffix makes same-millisecond collisions practically impossible.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix
}
