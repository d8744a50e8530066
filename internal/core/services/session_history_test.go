package services_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/SscSPs/personal_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestSessionHistory_MostRecentFirstAndCapped(t *testing.T) {
	h := services.NewSessionHistory(3)
	for i := 1; i <= 5; i++ {
		h.Add(domain.Movement{MovementID: fmt.Sprintf("m%d", i)}, "user-1")
	}

	got := h.Recent("user-1")
	ids := make([]string, len(got))
	for i, m := range got {
		ids[i] = m.MovementID
	}
	assert.Equal(t, []string{"m5", "m4", "m3"}, ids)
	assert.Empty(t, h.Recent("user-2"))
}

func TestSessionHistory_DedupsOwnersAndCopies(t *testing.T) {
	h := services.NewSessionHistory(0)
	h.Add(domain.Movement{MovementID: "t1"}, "user-1", "user-1", "user-2")

	assert.Len(t, h.Recent("user-1"), 1)
	assert.Len(t, h.Recent("user-2"), 1)

	got := h.Recent("user-1")
	got[0].MovementID = "changed"
	assert.Equal(t, "t1", h.Recent("user-1")[0].MovementID)
}

func TestSessionHistory_ConcurrentAdds(t *testing.T) {
	h := services.NewSessionHistory(services.DefaultSessionHistorySize)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Add(domain.Movement{MovementID: fmt.Sprintf("m%d", i)}, "user-1")
			_ = h.Recent("user-1")
		}(i)
	}
	wg.Wait()

	assert.Len(t, h.Recent("user-1"), services.DefaultSessionHistorySize)
}
