package httpmiddleware

import "testing"

func TestTokenBucketExhausts(t *testing.T) {
	l := NewTokenBucket(3, 3)
	for i := 0; i < 3; i++ {
		if !l.allow("1.2.3.4") {
			t.Fatalf("request %d should pass", i)
		}
	}
	if l.allow("1.2.3.4") {
		t.Fatal("bucket should be empty")
	}
	// Other clients are unaffected.
	if !l.allow("5.6.7.8") {
		t.Fatal("separate key should have its own bucket")
	}
}

func TestTokenBucketDefaultCapacity(t *testing.T) {
	l := NewTokenBucket(0, 10)
	if l.capacity != 10 {
		t.Fatalf("capacity %d", l.capacity)
	}
}
