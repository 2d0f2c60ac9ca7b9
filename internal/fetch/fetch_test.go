package fetch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func constLoad(vals ...int) Func[int] {
	return func(context.Context) ([]int, error) { return vals, nil }
}

func TestDataNeverNil(t *testing.T) {
	r := New[int](context.Background(), "nums", constLoad())
	if r.Data() == nil {
		t.Fatal("Data() is nil before first fetch")
	}
	if !r.Loading() {
		t.Error("new resource should be loading")
	}
	if len(r.Data()) != 0 {
		t.Errorf("len(Data()) = %d, want 0", len(r.Data()))
	}

	r.Update(r.Fetch()())
	if r.Data() == nil {
		t.Error("Data() is nil after loading a nil slice")
	}
}

func TestFetchSuccess(t *testing.T) {
	r := New(context.Background(), "nums", constLoad(1, 2, 3))
	cmd := r.Fetch()
	if !r.Loading() {
		t.Error("Loading() = false after Fetch")
	}
	if !r.Update(cmd()) {
		t.Fatal("Update() ignored the current result")
	}
	if r.Loading() || r.Err() != nil {
		t.Errorf("Loading = %v, Err = %v", r.Loading(), r.Err())
	}
	if got := r.Data(); len(got) != 3 || got[2] != 3 {
		t.Errorf("Data() = %v, want [1 2 3]", got)
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	var calls atomic.Int32
	load := func(context.Context) ([]int, error) {
		n := calls.Add(1)
		return []int{int(n)}, nil
	}
	r := New[int](context.Background(), "nums", load)

	first := r.Fetch()
	second := r.Fetch()

	secondMsg := second()
	firstMsg := first()

	if !r.Update(secondMsg) {
		t.Fatal("latest result was ignored")
	}
	if r.Update(firstMsg) {
		t.Error("superseded result was applied")
	}
	if got := r.Data(); len(got) != 1 || got[0] != 1 {
		// second ran first, so it produced 1
		t.Errorf("Data() = %v, want [1]", got)
	}
}

func TestFetchCancelsPrevious(t *testing.T) {
	var sawCancel atomic.Bool
	started := make(chan struct{})
	load := func(ctx context.Context) ([]int, error) {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return nil, ctx.Err()
	}
	r := New[int](context.Background(), "slow", load)
	cmd := r.Fetch()

	done := make(chan any)
	go func() { done <- cmd() }()
	<-started

	r.Fetch() // supersedes and cancels
	msg := <-done
	if !sawCancel.Load() {
		t.Error("previous load was not cancelled")
	}
	if r.Update(msg) {
		t.Error("cancelled result was applied")
	}
}

func TestCloseDropsLateResult(t *testing.T) {
	r := New(context.Background(), "nums", constLoad(9))
	cmd := r.Fetch()
	r.Close()
	if r.Update(cmd()) {
		t.Error("result applied after Close")
	}
	if len(r.Data()) != 0 {
		t.Errorf("Data() = %v, want empty", r.Data())
	}
}

func TestParentCancelStopsLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New[int](ctx, "nums", func(ctx context.Context) ([]int, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cmd := r.Fetch()
	cancel()
	if r.Update(cmd()) {
		t.Error("result applied after the page context was cancelled")
	}
}

func TestErrorKeepsDataAndRefetchClears(t *testing.T) {
	fail := false
	load := func(context.Context) ([]int, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return []int{7}, nil
	}
	r := New[int](context.Background(), "nums", load)
	r.Update(r.Fetch()())

	fail = true
	r.Update(r.Refetch()())
	if r.Err() == nil {
		t.Fatal("Err() = nil after failed load")
	}
	if got := r.Data(); len(got) != 1 || got[0] != 7 {
		t.Errorf("Data() after error = %v, want last good data [7]", got)
	}

	fail = false
	cmd := r.Refetch()
	if r.Err() != nil {
		t.Error("Refetch did not clear the error")
	}
	r.Update(cmd())
	if r.Err() != nil {
		t.Errorf("Err() = %v after successful refetch", r.Err())
	}
}

func TestDependOnlyRefetchesOnChange(t *testing.T) {
	r := New(context.Background(), "nums", constLoad(1))
	if r.Depend("7") == nil {
		t.Fatal("first Depend should fetch")
	}
	if r.Depend("7") != nil {
		t.Error("Depend with same key should not fetch")
	}
	if r.Depend("8") == nil {
		t.Error("Depend with new key should fetch")
	}
}

func TestOne(t *testing.T) {
	v := 5
	load := One(func(context.Context) (*int, error) { return &v, nil })
	got, err := load(context.Background())
	if err != nil || len(got) != 1 || got[0] != 5 {
		t.Errorf("One() = %v, %v", got, err)
	}
}

func TestMessagesDoNotCrossResources(t *testing.T) {
	a := New(context.Background(), "a", constLoad(1))
	b := New(context.Background(), "b", constLoad(2))
	msgA := a.Fetch()()
	b.Fetch()
	if b.Update(msgA) {
		t.Error("resource b applied a's result")
	}
}
