package mystore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type Ticket struct {
	UID       string
	Owner     string
	Amount    int64
	CreatedAt time.Time
}

var (
	ticket1 = Ticket{UID: "123", Owner: "eva", Amount: 100, CreatedAt: time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)}
	ticket2 = Ticket{UID: "456", Owner: "marc", Amount: 200, CreatedAt: time.Date(2024, time.May, 15, 11, 0, 0, 0, time.UTC)}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	ts, cleanup, err := newInMemoryStore[Ticket](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := ts.Get(c, ticket1.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		err = ts.Put(c, ticket1.UID, ticket1)
		assert.NoError(t, err)
	})

	t.Run("Get found", func(t *testing.T) {
		got, found, err := ts.Get(c, ticket1.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, ticket1, got)
	})

	t.Run("List", func(t *testing.T) {
		all, err := ts.List(c)
		assert.NoError(t, err)
		assert.Equal(t, []Ticket{ticket1}, all)
	})

	t.Run("Query on field", func(t *testing.T) {
		err = ts.Put(c, ticket2.UID, ticket2)
		assert.NoError(t, err)

		got, err := ts.Query(c, []Filter{{Field: "Owner", Compare: "=", Value: "marc"}}, "CreatedAt")
		assert.NoError(t, err)
		assert.Equal(t, []Ticket{ticket2}, got)
	})

	t.Run("Query ordered descending", func(t *testing.T) {
		got, err := ts.Query(c, nil, "-CreatedAt")
		assert.NoError(t, err)
		assert.Equal(t, []Ticket{ticket2, ticket1}, got)
	})

	t.Run("Delete", func(t *testing.T) {
		err = ts.Delete(c, ticket1.UID)
		assert.NoError(t, err)

		_, found, err := ts.Get(c, ticket1.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestTransactionLocksPerStore(t *testing.T) {
	c := context.TODO()
	tickets, cleanup, err := newInMemoryStore[Ticket](c)
	assert.NoError(t, err)
	defer cleanup()
	vouchers, cleanup, err := newInMemoryStore[Ticket](c)
	assert.NoError(t, err)
	defer cleanup()

	// given: a transaction holds the lock of the second store
	held := make(chan struct{})
	release := make(chan struct{})
	go vouchers.RunInTransaction(c, func(c context.Context) error {
		close(held)
		<-release
		return nil
	})
	<-held

	// when: a transaction on the first store writes to the second store
	done := make(chan struct{})
	go func() {
		err := tickets.RunInTransaction(c, func(tc context.Context) error {
			return vouchers.Put(tc, ticket1.UID, ticket1)
		})
		assert.NoError(t, err)
		close(done)
	}()

	// then: the write waits for the second store's lock
	select {
	case <-done:
		t.Fatal("write to the other store did not wait for its transaction")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-done

	got, found, err := vouchers.Get(c, ticket1.UID)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, ticket1, got)
}
