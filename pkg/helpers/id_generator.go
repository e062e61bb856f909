package helpers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// IDGenerator generates various types of IDs
type IDGenerator struct {
	rand *rand.Rand
}

// NewIDGenerator creates a new ID generator
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateUUID generates a UUID v4
func (g *IDGenerator) GenerateUUID() string {
	return uuid.New().String()
}

// GenerateTreeID generates a tree collection ID
// Format: TREE-YYYYMMDD-XXXXXX (e.g., TREE-20260901-A1B2C3)
func (g *IDGenerator) GenerateTreeID() string {
	now := time.Now()
	dateStr := now.Format("20060102")

	// Generate 6 character random alphanumeric suffix
	suffix := g.randomAlphanumeric(6)

	return fmt.Sprintf("TREE-%s-%s", dateStr, suffix)
}

// randomAlphanumeric generates a random alphanumeric string
func (g *IDGenerator) randomAlphanumeric(length int) string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		result[i] = chars[g.rand.Intn(len(chars))]
	}
	return string(result)
}
