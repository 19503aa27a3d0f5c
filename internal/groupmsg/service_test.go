package groupmsg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoster struct {
	groups  map[string]bool
	members map[string]map[string]bool
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{
		groups:  make(map[string]bool),
		members: make(map[string]map[string]bool),
	}
}

func (r *fakeRoster) addMember(groupID, userID string) {
	r.groups[groupID] = true
	if r.members[groupID] == nil {
		r.members[groupID] = make(map[string]bool)
	}
	r.members[groupID][userID] = true
}

func (r *fakeRoster) removeMember(groupID, userID string) {
	delete(r.members[groupID], userID)
}

func (r *fakeRoster) GroupExists(_ context.Context, groupID string) (bool, error) {
	return r.groups[groupID], nil
}

func (r *fakeRoster) IsMember(_ context.Context, groupID, userID string) (bool, error) {
	return r.members[groupID][userID], nil
}

type fakeMessages struct {
	created []*GroupMessage
}

func (m *fakeMessages) Create(_ context.Context, msg *GroupMessage) error {
	m.created = append(m.created, msg)
	return nil
}

func (m *fakeMessages) FindByGroupID(_ context.Context, groupID string, _ int) ([]*GroupMessage, error) {
	var out []*GroupMessage
	for _, msg := range m.created {
		if msg.GroupID == groupID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type broadcastCall struct {
	roomID string
	except string
	event  string
}

type recordingBroadcaster struct {
	calls []broadcastCall
}

func (b *recordingBroadcaster) SendToUser(userID, event string, _ any) {
	b.calls = append(b.calls, broadcastCall{roomID: userID, event: event})
}

func (b *recordingBroadcaster) SendToRoom(roomID, event string, _ any) {
	b.calls = append(b.calls, broadcastCall{roomID: roomID, event: event})
}

func (b *recordingBroadcaster) SendToRoomExcept(roomID, exceptUserID, event string, _ any) {
	b.calls = append(b.calls, broadcastCall{roomID: roomID, except: exceptUserID, event: event})
}

func TestSendBroadcastsToTheGroupRoomExceptTheSender(t *testing.T) {
	roster := newFakeRoster()
	roster.addMember("g1", "u1")
	roster.addMember("g1", "u2")
	messages := &fakeMessages{}
	broadcaster := &recordingBroadcaster{}
	svc := NewService(roster, messages, broadcaster, nil)

	msg, err := svc.Send(context.Background(), "g1", "u1", "meet at the hostel lobby")
	require.NoError(t, err)

	require.Len(t, messages.created, 1)
	assert.Equal(t, "g1", msg.GroupID)
	assert.Equal(t, "u1", msg.SenderID)

	require.Len(t, broadcaster.calls, 1)
	assert.Equal(t, "group:g1", broadcaster.calls[0].roomID)
	assert.Equal(t, "u1", broadcaster.calls[0].except)
	assert.Equal(t, EventNewGroupMessage, broadcaster.calls[0].event)
}

func TestSendByNonMemberHasNoSideEffects(t *testing.T) {
	roster := newFakeRoster()
	roster.addMember("g1", "u1")
	messages := &fakeMessages{}
	broadcaster := &recordingBroadcaster{}
	svc := NewService(roster, messages, broadcaster, nil)

	_, err := svc.Send(context.Background(), "g1", "intruder", "hello")
	assert.ErrorIs(t, err, ErrNotMember)
	assert.Empty(t, messages.created)
	assert.Empty(t, broadcaster.calls)
}

func TestSendToUnknownGroupFailsWithNotFound(t *testing.T) {
	svc := NewService(newFakeRoster(), &fakeMessages{}, &recordingBroadcaster{}, nil)

	_, err := svc.Send(context.Background(), "nope", "u1", "hello")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestSendRejectsEmptyContent(t *testing.T) {
	roster := newFakeRoster()
	roster.addMember("g1", "u1")
	svc := NewService(roster, &fakeMessages{}, &recordingBroadcaster{}, nil)

	_, err := svc.Send(context.Background(), "g1", "u1", "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestJoinReChecksMembershipEveryTime(t *testing.T) {
	roster := newFakeRoster()
	roster.addMember("g1", "u1")
	svc := NewService(roster, &fakeMessages{}, &recordingBroadcaster{}, nil)

	require.NoError(t, svc.Join(context.Background(), "g1", "u1"))

	// Removal from the roster must fail the next join, membership is
	// never cached
	roster.removeMember("g1", "u1")
	assert.ErrorIs(t, svc.Join(context.Background(), "g1", "u1"), ErrNotMember)
}

func TestHistoryIsMembersOnly(t *testing.T) {
	roster := newFakeRoster()
	roster.addMember("g1", "u1")
	messages := &fakeMessages{}
	svc := NewService(roster, messages, &recordingBroadcaster{}, nil)

	_, err := svc.Send(context.Background(), "g1", "u1", "first")
	require.NoError(t, err)

	msgs, err := svc.History(context.Background(), "g1", "u1", 50)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = svc.History(context.Background(), "g1", "outsider", 50)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestRoomNameIsPrefixed(t *testing.T) {
	// A group id that collides with a user id must still map to a
	// distinct room
	assert.Equal(t, "group:u1", RoomName("u1"))
	assert.NotEqual(t, "u1", RoomName("u1"))
}
