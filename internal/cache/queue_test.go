package cache

import (
	"context"
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	_, client := newTestClient(t)
	queue := NewNotificationQueue(client)
	ctx := context.Background()

	for _, item := range []string{"A", "B", "C"} {
		if !queue.Enqueue(ctx, item) {
			t.Fatalf("Enqueue %s should succeed", item)
		}
	}

	if n := queue.Len(ctx); n != 3 {
		t.Errorf("Expected queue length 3, got %d", n)
	}

	for _, want := range []string{"A", "B", "C"} {
		var got string
		if status := queue.Dequeue(ctx, &got); status != StatusOK {
			t.Fatalf("Expected ok dequeuing %s, got %s", want, status)
		}
		if got != want {
			t.Errorf("FIFO violated: expected %s, got %s", want, got)
		}
	}

	var extra string
	if status := queue.Dequeue(ctx, &extra); status != StatusMiss {
		t.Errorf("Fourth pop on an empty queue should miss, got %s", status)
	}
}

func TestQueueDropsUndecodableItem(t *testing.T) {
	mr, client := newTestClient(t)
	queue := NewNotificationQueue(client)
	ctx := context.Background()

	mr.Lpush("notification_queue", "{broken")

	var out string
	if status := queue.Dequeue(ctx, &out); status != StatusMiss {
		t.Errorf("Undecodable item should be dropped as a miss, got %s", status)
	}
	if n := queue.Len(ctx); n != 0 {
		t.Errorf("Dropped item must not be requeued, queue length %d", n)
	}
}

func TestQueueFailsOpenWhenOffline(t *testing.T) {
	queue := NewNotificationQueue(newOfflineClient())
	ctx := context.Background()

	if queue.Enqueue(ctx, "x") {
		t.Error("Enqueue should return false when the store is down")
	}
	var out string
	if status := queue.Dequeue(ctx, &out); status != StatusUnavailable {
		t.Errorf("Expected unavailable, got %s", status)
	}
	if n := queue.Len(ctx); n != 0 {
		t.Errorf("Len should report 0 when the store is down, got %d", n)
	}
}
