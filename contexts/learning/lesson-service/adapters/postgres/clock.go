package postgresadapter

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// RandomSuffix takes hex characters from a random UUID. length is capped at 32.
func (UUIDGenerator) RandomSuffix(length int) string {
	value := strings.ReplaceAll(uuid.NewString(), "-", "")
	if length > len(value) {
		length = len(value)
	}
	return value[:length]
}
