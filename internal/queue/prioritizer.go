// Package queue turns a housekeeper's assignment set into the prioritized
// work queue the apps display. Ordering is a pure, stable function of the
// input; callers re-run it after every re-fetch.
package queue

import (
	"sort"
	"strconv"

	"github.com/anuruddha96/hotelcare-backend/internal/constants"
	"github.com/anuruddha96/hotelcare-backend/internal/models"
)

// ViewMode selects one of the two named orderings. The desktop board and
// the compact mobile queue historically encoded overlapping but not
// identical rules; they are kept as explicit modes of one prioritizer
// rather than two divergent copies.
type ViewMode string

const (
	// ViewDesktop is the canonical ordering: bucket, then floor, then
	// numeric room number.
	ViewDesktop ViewMode = "desktop"

	// ViewCompact ranks explicit numeric priority ahead of the work-type
	// bucket and surfaces checkout-ready rooms ahead of dailies in every
	// bucket, matching the mobile queue.
	ViewCompact ViewMode = "compact"
)

// Item pairs an assignment with its room; the room contributes the floor
// and room-number tie-breakers.
type Item struct {
	Assignment *models.Assignment
	Room       *models.Room
}

// Bucket classes for the canonical (desktop) ordering, ascending. The
// worker's current task stays on top, urgent and ready work outranks
// not-yet-ready checkout rooms, finished work sinks.
const (
	bucketInProgress       = 0
	bucketHighPriority     = 1
	bucketCheckoutReady    = 2
	bucketDefault          = 3
	bucketCheckoutNotReady = 4
	bucketCompleted        = 5
	bucketCancelled        = 6
)

func desktopBucket(a *models.Assignment) int {
	switch a.Status {
	case models.AssignmentStatusInProgress:
		return bucketInProgress
	case models.AssignmentStatusCompleted:
		return bucketCompleted
	case models.AssignmentStatusCancelled:
		return bucketCancelled
	}

	// status == assigned
	if a.Priority >= models.PriorityHigh {
		return bucketHighPriority
	}
	if a.Type == models.AssignmentTypeCheckoutCleaning {
		if a.ReadyToClean {
			return bucketCheckoutReady
		}
		return bucketCheckoutNotReady
	}
	return bucketDefault
}

// compact status classes: in_progress, then all pending work, then done.
func compactStatusClass(a *models.Assignment) int {
	switch a.Status {
	case models.AssignmentStatusInProgress:
		return 0
	case models.AssignmentStatusAssigned:
		return 1
	case models.AssignmentStatusCompleted:
		return 2
	default:
		return 3
	}
}

// compactTypeRank orders work types within one priority level:
// checkout-ready rooms ahead of everything, checkout rooms still occupied
// last.
func compactTypeRank(a *models.Assignment) int {
	if a.Type == models.AssignmentTypeCheckoutCleaning {
		if a.ReadyToClean {
			return 0
		}
		return 2
	}
	return 1
}

func floorKey(it Item) int {
	if it.Room == nil || it.Room.FloorNumber == nil {
		return constants.MissingFloorSentinel
	}
	return *it.Room.FloorNumber
}

// roomKey returns the numeric value of the room number, or the sentinel for
// non-numeric room identifiers ("PH-2", "Lobby"), which sort last.
func roomKey(it Item) int {
	if it.Room == nil {
		return constants.MaxNumericRoomNumber
	}
	n, err := strconv.Atoi(it.Room.RoomNumber)
	if err != nil || n < 0 || n > constants.MaxNumericRoomNumber {
		return constants.MaxNumericRoomNumber
	}
	return n
}

// Prioritize returns a new slice sorted by the named ordering. The sort is
// stable, so re-sorting an already-sorted queue is a no-op.
func Prioritize(items []Item, mode ViewMode) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	less := desktopLess
	if mode == ViewCompact {
		less = compactLess
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func desktopLess(x, y Item) bool {
	bx, by := desktopBucket(x.Assignment), desktopBucket(y.Assignment)
	if bx != by {
		return bx < by
	}
	fx, fy := floorKey(x), floorKey(y)
	if fx != fy {
		return fx < fy
	}
	return roomKey(x) < roomKey(y)
}

func compactLess(x, y Item) bool {
	cx, cy := compactStatusClass(x.Assignment), compactStatusClass(y.Assignment)
	if cx != cy {
		return cx < cy
	}
	if cx == 1 { // pending work: explicit priority outranks the type bucket
		if x.Assignment.Priority != y.Assignment.Priority {
			return x.Assignment.Priority > y.Assignment.Priority
		}
		tx, ty := compactTypeRank(x.Assignment), compactTypeRank(y.Assignment)
		if tx != ty {
			return tx < ty
		}
	}
	fx, fy := floorKey(x), floorKey(y)
	if fx != fy {
		return fx < fy
	}
	return roomKey(x) < roomKey(y)
}
