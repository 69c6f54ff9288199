package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// Flight reads are the only cached queries. Every flight mutation drops all
// three keys for the touched flight.
func FlightKey(id uuid.UUID) string {
	return fmt.Sprintf("flight:data:%s", id)
}

func FlightListKey() string {
	return "flight:list:all"
}

func ScheduledFlightListKey() string {
	return "flight:list:scheduled"
}

// InvalidationKeys is the set of keys to drop when a flight changes.
func InvalidationKeys(id uuid.UUID) []string {
	return []string{FlightKey(id), FlightListKey(), ScheduledFlightListKey()}
}
