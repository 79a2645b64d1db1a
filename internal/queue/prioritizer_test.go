package queue

import (
	"testing"

	"github.com/google/uuid"

	"github.com/anuruddha96/hotelcare-backend/internal/models"
)

func item(status models.AssignmentStatus, aType models.AssignmentType, priority int, ready bool, floor *int, roomNumber string) Item {
	return Item{
		Assignment: &models.Assignment{
			ID:           uuid.New(),
			Status:       status,
			Type:         aType,
			Priority:     priority,
			ReadyToClean: ready,
		},
		Room: &models.Room{
			ID:          uuid.New(),
			RoomNumber:  roomNumber,
			FloorNumber: floor,
		},
	}
}

func floorOf(n int) *int { return &n }

func roomNumbers(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Room.RoomNumber
	}
	return out
}

func TestDesktopBucketOrder(t *testing.T) {
	daily := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(1), "101")
	checkoutReady := item(models.AssignmentStatusAssigned, models.AssignmentTypeCheckoutCleaning, models.PriorityNormal, true, floorOf(1), "102")
	urgent := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityHigh, true, floorOf(1), "103")
	active := item(models.AssignmentStatusInProgress, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(2), "201")

	got := Prioritize([]Item{active, urgent, checkoutReady, daily}, ViewDesktop)

	want := []string{"201", "103", "102", "101"}
	for i, rn := range want {
		if got[i].Room.RoomNumber != rn {
			t.Fatalf("position %d = %q, want %q (full order %v)", i, got[i].Room.RoomNumber, rn, roomNumbers(got))
		}
	}
}

func TestDesktopCheckoutNotReadySortsAfterDaily(t *testing.T) {
	notReady := item(models.AssignmentStatusAssigned, models.AssignmentTypeCheckoutCleaning, models.PriorityNormal, false, floorOf(1), "101")
	daily := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(3), "301")

	got := Prioritize([]Item{notReady, daily}, ViewDesktop)

	if got[0].Room.RoomNumber != "301" {
		t.Errorf("daily should outrank not-ready checkout, got order %v", roomNumbers(got))
	}
}

func TestDesktopTerminalStatesSink(t *testing.T) {
	completed := item(models.AssignmentStatusCompleted, models.AssignmentTypeDailyCleaning, models.PriorityHigh, true, floorOf(1), "101")
	cancelled := item(models.AssignmentStatusCancelled, models.AssignmentTypeDailyCleaning, models.PriorityHigh, true, floorOf(1), "102")
	pending := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(9), "901")

	got := Prioritize([]Item{completed, cancelled, pending}, ViewDesktop)

	want := []string{"901", "101", "102"}
	for i, rn := range want {
		if got[i].Room.RoomNumber != rn {
			t.Fatalf("order = %v, want %v", roomNumbers(got), want)
		}
	}
}

func TestFloorThenRoomTieBreak(t *testing.T) {
	a := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(2), "205")
	b := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(1), "110")
	c := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(1), "102")

	got := Prioritize([]Item{a, b, c}, ViewDesktop)

	want := []string{"102", "110", "205"}
	for i, rn := range want {
		if got[i].Room.RoomNumber != rn {
			t.Fatalf("order = %v, want %v", roomNumbers(got), want)
		}
	}
}

func TestMissingFloorSortsLast(t *testing.T) {
	poolArea := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, nil, "Pool Area")
	topFloor := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(42), "4201")

	got := Prioritize([]Item{poolArea, topFloor}, ViewDesktop)

	if got[0].Room.RoomNumber != "4201" {
		t.Errorf("floorless room should sort after every numbered floor, got order %v", roomNumbers(got))
	}
}

func TestNonNumericRoomSortsAfterNumericOnSameFloor(t *testing.T) {
	suite := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(9), "Penthouse")
	numbered := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(9), "905")

	got := Prioritize([]Item{suite, numbered}, ViewDesktop)

	if got[0].Room.RoomNumber != "905" {
		t.Errorf("numeric room numbers sort first, got order %v", roomNumbers(got))
	}
}

func TestPrioritizeIsStableAndIdempotent(t *testing.T) {
	// Two items with identical sort keys keep their input order.
	first := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(1), "oak suite")
	second := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(1), "elm suite")

	once := Prioritize([]Item{first, second}, ViewDesktop)
	if once[0].Assignment.ID != first.Assignment.ID {
		t.Fatal("stable sort must keep input order for equal keys")
	}

	twice := Prioritize(once, ViewDesktop)
	for i := range once {
		if twice[i].Assignment.ID != once[i].Assignment.ID {
			t.Fatalf("re-sorting a sorted queue changed position %d", i)
		}
	}
}

func TestPrioritizeDoesNotMutateInput(t *testing.T) {
	a := item(models.AssignmentStatusCompleted, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(1), "101")
	b := item(models.AssignmentStatusInProgress, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(1), "102")
	in := []Item{a, b}

	_ = Prioritize(in, ViewDesktop)

	if in[0].Room.RoomNumber != "101" || in[1].Room.RoomNumber != "102" {
		t.Error("input slice must not be reordered")
	}
}

func TestCompactPriorityOutranksTypeBucket(t *testing.T) {
	// In compact mode an urgent daily beats a normal checkout-ready room;
	// desktop mode already covers the reverse.
	urgentDaily := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityHigh, true, floorOf(5), "501")
	checkoutReady := item(models.AssignmentStatusAssigned, models.AssignmentTypeCheckoutCleaning, models.PriorityNormal, true, floorOf(1), "101")

	got := Prioritize([]Item{checkoutReady, urgentDaily}, ViewCompact)

	if got[0].Room.RoomNumber != "501" {
		t.Errorf("explicit priority should outrank type in compact mode, got order %v", roomNumbers(got))
	}
}

func TestCompactTypeRankWithinSamePriority(t *testing.T) {
	daily := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(1), "101")
	checkoutReady := item(models.AssignmentStatusAssigned, models.AssignmentTypeCheckoutCleaning, models.PriorityNormal, true, floorOf(2), "201")
	checkoutNotReady := item(models.AssignmentStatusAssigned, models.AssignmentTypeCheckoutCleaning, models.PriorityNormal, false, floorOf(1), "103")

	got := Prioritize([]Item{daily, checkoutNotReady, checkoutReady}, ViewCompact)

	want := []string{"201", "101", "103"}
	for i, rn := range want {
		if got[i].Room.RoomNumber != rn {
			t.Fatalf("order = %v, want %v", roomNumbers(got), want)
		}
	}
}

func TestCompactInProgressStaysOnTop(t *testing.T) {
	active := item(models.AssignmentStatusInProgress, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(8), "801")
	urgent := item(models.AssignmentStatusAssigned, models.AssignmentTypeCheckoutCleaning, models.PriorityHigh, true, floorOf(1), "101")
	done := item(models.AssignmentStatusCompleted, models.AssignmentTypeCheckoutCleaning, models.PriorityHigh, true, floorOf(1), "102")

	got := Prioritize([]Item{done, urgent, active}, ViewCompact)

	want := []string{"801", "101", "102"}
	for i, rn := range want {
		if got[i].Room.RoomNumber != rn {
			t.Fatalf("order = %v, want %v", roomNumbers(got), want)
		}
	}
}

func TestNilRoomSortsLast(t *testing.T) {
	orphan := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(1), "101")
	orphan.Room = nil
	normal := item(models.AssignmentStatusAssigned, models.AssignmentTypeDailyCleaning, models.PriorityNormal, true, floorOf(7), "701")

	got := Prioritize([]Item{orphan, normal}, ViewDesktop)

	if got[0].Room == nil {
		t.Error("assignment without a room row should sort after one with a room")
	}
}
