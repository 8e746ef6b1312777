package ws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// =============================================================================
// 🧪 Hub 成员关系测试
// =============================================================================

func TestHub_JoinLeaveRoom(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	ctx := context.Background()

	hub.JoinRoom(ctx, "c1", "general")
	hub.JoinRoom(ctx, "c2", "general")
	hub.JoinRoom(ctx, "c1", "dev")

	assert.ElementsMatch(t, []string{"c1", "c2"}, hub.RoomMembers("general"))
	assert.ElementsMatch(t, []string{"general", "dev"}, hub.ClientRooms("c1"))
	assert.ElementsMatch(t, []string{"general"}, hub.ClientRooms("c2"))

	hub.LeaveRoom(ctx, "c1", "general")
	assert.ElementsMatch(t, []string{"c2"}, hub.RoomMembers("general"))
	assert.ElementsMatch(t, []string{"dev"}, hub.ClientRooms("c1"))
}

func TestHub_LeaveRoomNotMember(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	ctx := context.Background()

	// 不在房间里离开是 no-op
	hub.LeaveRoom(ctx, "ghost", "general")
	assert.Empty(t, hub.RoomMembers("general"))
}

func TestHub_EmptyRoomIsDropped(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	ctx := context.Background()

	hub.JoinRoom(ctx, "c1", "general")
	hub.LeaveRoom(ctx, "c1", "general")

	hub.mu.RLock()
	_, exists := hub.roomClients["general"]
	hub.mu.RUnlock()
	assert.False(t, exists, "empty rooms must be removed from the registry")
}

func TestHub_UnregisterCleansRoomMemberships(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	ctx := context.Background()

	hub.JoinRoom(ctx, "c1", "general")
	hub.JoinRoom(ctx, "c1", "dev")
	hub.JoinRoom(ctx, "c2", "general")

	hub.Unregister("c1")

	assert.Empty(t, hub.ClientRooms("c1"))
	assert.ElementsMatch(t, []string{"c2"}, hub.RoomMembers("general"))
	assert.Empty(t, hub.RoomMembers("dev"))
	assert.Equal(t, 0, hub.ConnectionCount())
}
