package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drainEvents decodes everything queued for a client without blocking.
func drainEvents(t *testing.T, c *Client) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return events
			}
			var ev Event
			require.NoError(t, json.Unmarshal(data, &ev))
			events = append(events, ev)
		default:
			return events
		}
	}
}

func newTestClient(hub *Hub, userID string) *Client {
	return NewClient(hub, nil, userID, 10)
}

func TestRegisterJoinsThePersonalRoom(t *testing.T) {
	hub := NewHub(nil)
	client := newTestClient(hub, "u1")

	hub.registerClient(client)

	assert.True(t, client.InRoom("u1"))
	assert.Equal(t, 1, hub.RoomSize("u1"))
}

func TestSendToUserReachesEverySessionOfThatUser(t *testing.T) {
	hub := NewHub(nil)
	phone := newTestClient(hub, "u1")
	laptop := newTestClient(hub, "u1")
	other := newTestClient(hub, "u2")
	hub.registerClient(phone)
	hub.registerClient(laptop)
	hub.registerClient(other)

	hub.SendToUser("u1", "new_message", map[string]string{"content": "hi"})

	for _, c := range []*Client{phone, laptop} {
		events := drainEvents(t, c)
		require.Len(t, events, 1)
		assert.Equal(t, "new_message", events[0].Event)
	}
	assert.Empty(t, drainEvents(t, other))
}

func TestSendToRoomSkipsNonMembers(t *testing.T) {
	hub := NewHub(nil)
	member := newTestClient(hub, "u1")
	outsider := newTestClient(hub, "u2")
	hub.registerClient(member)
	hub.registerClient(outsider)
	hub.JoinRoom(member, "group:g1")

	hub.SendToRoom("group:g1", "new_group_message", nil)

	assert.Len(t, drainEvents(t, member), 1)
	assert.Empty(t, drainEvents(t, outsider))
}

func TestSendToRoomExceptSkipsEverySessionOfTheExcludedUser(t *testing.T) {
	hub := NewHub(nil)
	senderPhone := newTestClient(hub, "u1")
	senderLaptop := newTestClient(hub, "u1")
	receiver := newTestClient(hub, "u2")
	for _, c := range []*Client{senderPhone, senderLaptop, receiver} {
		hub.registerClient(c)
		hub.JoinRoom(c, "group:g1")
	}

	hub.SendToRoomExcept("group:g1", "u1", "new_group_message", nil)

	assert.Empty(t, drainEvents(t, senderPhone))
	assert.Empty(t, drainEvents(t, senderLaptop))
	assert.Len(t, drainEvents(t, receiver), 1)
}

func TestSendToEmptyRoomIsANoOp(t *testing.T) {
	hub := NewHub(nil)
	hub.SendToRoom("group:ghost", "new_group_message", nil)
	assert.Equal(t, 0, hub.RoomSize("group:ghost"))
}

func TestLeaveRoomStopsDelivery(t *testing.T) {
	hub := NewHub(nil)
	client := newTestClient(hub, "u1")
	hub.registerClient(client)
	hub.JoinRoom(client, "group:g1")

	hub.LeaveRoom(client, "group:g1")
	hub.SendToRoom("group:g1", "new_group_message", nil)

	assert.False(t, client.InRoom("group:g1"))
	assert.Empty(t, drainEvents(t, client))
}

func TestLeaveRoomCannotRemoveThePersonalRoom(t *testing.T) {
	hub := NewHub(nil)
	client := newTestClient(hub, "u1")
	hub.registerClient(client)

	hub.LeaveRoom(client, "u1")

	assert.True(t, client.InRoom("u1"))
	assert.Equal(t, 1, hub.RoomSize("u1"))
}

func TestUnregisterRemovesAllMembershipsAndIsIdempotent(t *testing.T) {
	hub := NewHub(nil)
	client := newTestClient(hub, "u1")
	hub.registerClient(client)
	hub.JoinRoom(client, "group:g1")

	hub.unregisterClient(client)

	assert.Equal(t, 0, hub.RoomSize("u1"))
	assert.Equal(t, 0, hub.RoomSize("group:g1"))

	// A second unregister for the same session must be harmless
	hub.unregisterClient(client)
}

func TestUnregisterOnlyDropsTheDisconnectedSession(t *testing.T) {
	hub := NewHub(nil)
	phone := newTestClient(hub, "u1")
	laptop := newTestClient(hub, "u1")
	hub.registerClient(phone)
	hub.registerClient(laptop)

	hub.unregisterClient(phone)
	hub.SendToUser("u1", "new_message", nil)

	assert.Empty(t, drainEvents(t, phone))
	assert.Len(t, drainEvents(t, laptop), 1)
}
