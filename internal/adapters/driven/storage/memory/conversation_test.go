package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

func turn(role domain.Role, text string) domain.ConversationTurn {
	return domain.ConversationTurn{Role: role, Text: text}
}

func TestConversationStore_WindowIsBoundedFIFO(t *testing.T) {
	store := NewConversationStore(4)

	for i := 0; i < 5; i++ {
		store.Append("s",
			turn(domain.RoleUser, fmt.Sprintf("q%d", i)),
			turn(domain.RoleAssistant, fmt.Sprintf("a%d", i)))
	}

	window := store.Window("s")
	require.Len(t, window, 4)
	assert.Equal(t, "q3", window[0].Text)
	assert.Equal(t, "a4", window[3].Text)
	assert.Equal(t, uint64(7), window[0].Seq)
	assert.Equal(t, uint64(10), window[3].Seq)
}

func TestConversationStore_ZeroSizeKeepsNothing(t *testing.T) {
	store := NewConversationStore(0)
	store.Append("s", turn(domain.RoleUser, "q"))
	assert.Empty(t, store.Window("s"))
}

func TestConversationStore_SessionsAreIndependent(t *testing.T) {
	store := NewConversationStore(10)
	store.Append("a", turn(domain.RoleUser, "from a"))
	store.Append("b", turn(domain.RoleUser, "from b"))

	assert.Equal(t, "from a", store.Window("a")[0].Text)
	assert.Equal(t, "from b", store.Window("b")[0].Text)
	assert.Equal(t, 2, store.Sessions())
	assert.Empty(t, store.Window("unknown"))
}

func TestConversationStore_WindowReturnsCopy(t *testing.T) {
	store := NewConversationStore(2)
	store.Append("s", turn(domain.RoleUser, "q"))

	w := store.Window("s")
	w[0].Text = "changed"
	assert.Equal(t, "q", store.Window("s")[0].Text)
}

func TestConversationStore_Forget(t *testing.T) {
	store := NewConversationStore(2)
	store.Append("s", turn(domain.RoleUser, "q"))
	store.Forget("s")
	assert.Empty(t, store.Window("s"))
}

func TestConversationStore_AcquireSerialisesSession(t *testing.T) {
	store := NewConversationStore(2)

	release, err := store.Acquire(context.Background(), "s")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = store.Acquire(ctx, "s")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := store.Acquire(context.Background(), "other")
	require.NoError(t, err, "different sessions never contend")
	other()

	release()
	release()

	again, err := store.Acquire(context.Background(), "s")
	require.NoError(t, err)
	again()
}

func TestConversationStore_ConcurrentAppendsKeepBound(t *testing.T) {
	store := NewConversationStore(6)
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			release, err := store.Acquire(context.Background(), "s")
			if !assert.NoError(t, err) {
				return
			}
			defer release()
			store.Append("s",
				turn(domain.RoleUser, fmt.Sprintf("q%d", n)),
				turn(domain.RoleAssistant, fmt.Sprintf("a%d", n)))
		}(i)
	}
	wg.Wait()

	window := store.Window("s")
	require.Len(t, window, 6)
	for i := 0; i < len(window); i += 2 {
		assert.Equal(t, domain.RoleUser, window[i].Role)
		assert.Equal(t, domain.RoleAssistant, window[i+1].Role)
		assert.Equal(t, window[i].Seq+1, window[i+1].Seq)
	}
}
