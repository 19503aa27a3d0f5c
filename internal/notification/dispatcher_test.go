package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created   []*Notification
	createErr error
	seen      []string
}

func (r *fakeRepo) Create(_ context.Context, n *Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, n)
	return nil
}

func (r *fakeRepo) FindByUserID(_ context.Context, userID string, _ int) ([]*Notification, error) {
	var out []*Notification
	for _, n := range r.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeRepo) MarkSeen(_ context.Context, id, _ string) error {
	r.seen = append(r.seen, id)
	return nil
}

type pushedEvent struct {
	userID string
	event  string
}

type fakeBroadcaster struct {
	pushed []pushedEvent
}

func (b *fakeBroadcaster) SendToUser(userID, event string, _ any) {
	b.pushed = append(b.pushed, pushedEvent{userID: userID, event: event})
}

func (b *fakeBroadcaster) SendToRoom(string, string, any)           {}
func (b *fakeBroadcaster) SendToRoomExcept(string, string, string, any) {}

func TestRegistryRefusesReadsBeforeSet(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Broadcaster()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestRegistryFirstSetWins(t *testing.T) {
	registry := NewRegistry()
	first := &fakeBroadcaster{}
	second := &fakeBroadcaster{}

	registry.SetBroadcaster(first)
	registry.SetBroadcaster(second)

	b, err := registry.Broadcaster()
	require.NoError(t, err)
	assert.Same(t, first, b)
}

func TestDispatchPersistsThenPushes(t *testing.T) {
	repo := &fakeRepo{}
	broadcaster := &fakeBroadcaster{}
	registry := NewRegistry()
	registry.SetBroadcaster(broadcaster)
	d := NewDispatcher(repo, registry)

	n, err := d.Dispatch(context.Background(), &DispatchRequest{
		UserID: "u1",
		Type:   "trip_invite",
		Title:  "New trip invite",
		Body:   "u2 invited you to Lisbon 2026",
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, n.ID, repo.created[0].ID)
	require.Len(t, broadcaster.pushed, 1)
	assert.Equal(t, "u1", broadcaster.pushed[0].userID)
	assert.Equal(t, EventNewNotification, broadcaster.pushed[0].event)
}

func TestDispatchDoesNotPushWhenPersistenceFails(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("mysql is down")}
	broadcaster := &fakeBroadcaster{}
	registry := NewRegistry()
	registry.SetBroadcaster(broadcaster)
	d := NewDispatcher(repo, registry)

	_, err := d.Dispatch(context.Background(), &DispatchRequest{UserID: "u1", Type: "x"})
	require.Error(t, err)
	assert.Empty(t, broadcaster.pushed)
}

func TestDispatchBeforeRegistryInitStaysDurable(t *testing.T) {
	repo := &fakeRepo{}
	d := NewDispatcher(repo, NewRegistry())

	n, err := d.Dispatch(context.Background(), &DispatchRequest{UserID: "u1", Type: "x"})
	assert.ErrorIs(t, err, ErrNotInitialized)

	// The notification was persisted before the ordering bug surfaced
	require.NotNil(t, n)
	assert.Len(t, repo.created, 1)
}

func TestMarkSeenDelegatesToTheRepo(t *testing.T) {
	repo := &fakeRepo{}
	d := NewDispatcher(repo, NewRegistry())

	require.NoError(t, d.MarkSeen(context.Background(), "n1", "u1"))
	assert.Equal(t, []string{"n1"}, repo.seen)
}
