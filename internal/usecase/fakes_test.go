package usecase

import (
	"context"
	"sync"
	"time"

	"ruangchat/internal/domain/entity"
	"ruangchat/internal/domain/repository"
	"ruangchat/pkg/errors"
)

type fakeSubscription struct {
	mu        sync.Mutex
	cancelled bool
}

func (s *fakeSubscription) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
}

func (s *fakeSubscription) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

type messageSubscription struct {
	roomID     string
	onSnapshot func([]*entity.Message)
	onError    func(error)
	handle     *fakeSubscription
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	created   []*entity.Message
	createErr error
	subs      []*messageSubscription
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	message.ID = "m" + time.Now().Format("150405.000000000")
	message.Timestamp = time.Now()
	f.created = append(f.created, message)
	return nil
}

func (f *fakeMessageRepo) SubscribeByRoom(ctx context.Context, roomID string, onSnapshot func([]*entity.Message), onError func(error)) (repository.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := &messageSubscription{
		roomID:     roomID,
		onSnapshot: onSnapshot,
		onError:    onError,
		handle:     &fakeSubscription{},
	}
	f.subs = append(f.subs, sub)
	return sub.handle, nil
}

func (f *fakeMessageRepo) lastSub() *messageSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.subs) == 0 {
		return nil
	}
	return f.subs[len(f.subs)-1]
}

func (f *fakeMessageRepo) createdMessages() []*entity.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Message, len(f.created))
	copy(out, f.created)
	return out
}

type countDelta struct {
	roomID string
	delta  int
}

type roomSubscription struct {
	onSnapshot func([]*entity.Room)
	onError    func(error)
	handle     *fakeSubscription
}

type fakeRoomRepo struct {
	mu        sync.Mutex
	rooms     map[string]*entity.Room
	created   []*entity.Room
	createErr error
	deltas    []countDelta
	previews  map[string]*entity.LastMessage
	touched   []string
	removed   []string
	viewers   map[string]int
	subs      []*roomSubscription
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{
		rooms:    make(map[string]*entity.Room),
		previews: make(map[string]*entity.LastMessage),
		viewers:  make(map[string]int),
	}
}

func (f *fakeRoomRepo) Create(ctx context.Context, room *entity.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	room.ID = "room-" + room.Name
	room.CreatedAt = time.Now()
	f.created = append(f.created, room)
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[id]
	if !ok {
		return nil, errors.NotFound("Room", nil)
	}
	return room, nil
}

func (f *fakeRoomRepo) SetLastMessage(ctx context.Context, roomID string, preview *entity.LastMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.previews[roomID] = preview
	return nil
}

func (f *fakeRoomRepo) AdjustParticipantCount(ctx context.Context, roomID string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deltas = append(f.deltas, countDelta{roomID: roomID, delta: delta})
	if room, ok := f.rooms[roomID]; ok {
		room.ParticipantCount += int64(delta)
	}
	return nil
}

func (f *fakeRoomRepo) SubscribeAll(ctx context.Context, onSnapshot func([]*entity.Room), onError func(error)) (repository.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := &roomSubscription{
		onSnapshot: onSnapshot,
		onError:    onError,
		handle:     &fakeSubscription{},
	}
	f.subs = append(f.subs, sub)
	return sub.handle, nil
}

func (f *fakeRoomRepo) TouchViewer(ctx context.Context, roomID, uid string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, roomID)
	f.viewers[roomID]++
	return nil
}

func (f *fakeRoomRepo) RemoveViewer(ctx context.Context, roomID, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, roomID)
	if f.viewers[roomID] > 0 {
		f.viewers[roomID]--
	}
	return nil
}

func (f *fakeRoomRepo) CountActiveViewers(ctx context.Context, roomID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewers[roomID], nil
}

func (f *fakeRoomRepo) countDeltas() []countDelta {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]countDelta, len(f.deltas))
	copy(out, f.deltas)
	return out
}

func roomFixture(id string) *entity.Room {
	return &entity.Room{ID: id, Name: id}
}

type presenceWrite struct {
	uid    string
	online bool
}

type fakeUserRepo struct {
	mu             sync.Mutex
	profiles       map[string]*entity.UserProfile
	merged         []*entity.UserProfile
	presence       []presenceWrite
	mergeErr       error
	setPresenceErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		profiles: make(map[string]*entity.UserProfile),
	}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	profile, ok := f.profiles[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return profile, nil
}

func (f *fakeUserRepo) MergeProfile(ctx context.Context, profile *entity.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.merged = append(f.merged, profile)
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeUserRepo) SetPresence(ctx context.Context, uid string, online bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setPresenceErr != nil {
		return f.setPresenceErr
	}
	f.presence = append(f.presence, presenceWrite{uid: uid, online: online})
	return nil
}

type authCall struct {
	name string
	uid  string
}

type fakeAuthClient struct {
	mu    sync.Mutex
	calls []authCall
}

func (f *fakeAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, authCall{name: "CreateUser"})
	return "uid-" + displayName, nil
}

func (f *fakeAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, authCall{name: "VerifyToken"})
	return "uid-verified", nil
}

func (f *fakeAuthClient) SignInWithEmailPassword(email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, authCall{name: "SignIn"})
	return "id-token", nil
}

func (f *fakeAuthClient) RevokeTokens(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, authCall{name: "RevokeTokens", uid: uid})
	return nil
}
