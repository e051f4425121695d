package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkovacev/ripple/internal/domain"
)

// In-memory fakes for the repository interfaces. They mirror the store
// guarantees the real postgres layer provides: FindOrCreateConversation is
// atomic per pair, and messages get a monotonically increasing seq.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Search(_ context.Context, _ string, _ int) ([]domain.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	byPair   map[string]*domain.Conversation
	byID     map[uuid.UUID]*domain.Conversation
	messages []domain.Message
	nextSeq  int64

	appendErr error
	missing   map[uuid.UUID]bool // member IDs that no longer resolve
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		byPair:  make(map[string]*domain.Conversation),
		byID:    make(map[uuid.UUID]*domain.Conversation),
		missing: make(map[uuid.UUID]bool),
	}
}

func (r *fakeChatRepo) FindOrCreateConversation(_ context.Context, memberA, memberB uuid.UUID) (*domain.Conversation, error) {
	a, b := domain.CanonicalPair(memberA, memberB)
	key := a.String() + "|" + b.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if conv, ok := r.byPair[key]; ok {
		cp := *conv
		return &cp, nil
	}
	conv := &domain.Conversation{
		ID:        uuid.New(),
		UserA:     a,
		UserB:     b,
		CreatedAt: time.Now(),
	}
	r.byPair[key] = conv
	r.byID[conv.ID] = conv
	cp := *conv
	return &cp, nil
}

func (r *fakeChatRepo) GetConversation(_ context.Context, id uuid.UUID) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *conv
	return &cp, nil
}

func (r *fakeChatRepo) ListConversations(_ context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var convs []domain.Conversation
	for _, conv := range r.byID {
		if !conv.HasMember(userID) {
			continue
		}
		cp := *conv
		otherID := conv.OtherMember(userID)
		other := domain.ProfileSummary{ID: otherID}
		if !r.missing[otherID] {
			other.Username = fmt.Sprintf("user_%s", otherID.String()[:8])
			other.Name = "Some User"
		}
		cp.Other = &other
		convs = append(convs, cp)
	}
	return convs, nil
}

func (r *fakeChatRepo) AppendMessage(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.appendErr != nil {
		return r.appendErr
	}
	r.nextSeq++
	msg.Seq = r.nextSeq
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeChatRepo) ListMessages(_ context.Context, conversationID uuid.UUID, limit int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var msgs []domain.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			msgs = append(msgs, m)
		}
		if limit > 0 && len(msgs) == limit {
			break
		}
	}
	return msgs, nil
}

func (r *fakeChatRepo) conversationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// fakeNotifier records delivery attempts; recipients listed in online get a
// successful delivery.
type fakeNotifier struct {
	mu            sync.Mutex
	online        map[uuid.UUID]bool
	delivered     []deliveredMessage
	notifications []deliveredNotification
}

type deliveredMessage struct {
	recipientID uuid.UUID
	msg         domain.Message
}

type deliveredNotification struct {
	recipientID  uuid.UUID
	notification domain.Notification
}

func newFakeNotifier(online ...uuid.UUID) *fakeNotifier {
	n := &fakeNotifier{online: make(map[uuid.UUID]bool)}
	for _, id := range online {
		n.online[id] = true
	}
	return n
}

func (n *fakeNotifier) DeliverMessage(recipientID uuid.UUID, msg *domain.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.online[recipientID] {
		return false
	}
	n.delivered = append(n.delivered, deliveredMessage{recipientID: recipientID, msg: *msg})
	return true
}

func (n *fakeNotifier) DeliverNotification(recipientID uuid.UUID, notification *domain.Notification) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.online[recipientID] {
		return false
	}
	n.notifications = append(n.notifications, deliveredNotification{recipientID: recipientID, notification: *notification})
	return true
}

func (n *fakeNotifier) deliveredTo(recipientID uuid.UUID) []deliveredMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []deliveredMessage
	for _, d := range n.delivered {
		if d.recipientID == recipientID {
			out = append(out, d)
		}
	}
	return out
}

type fakeFollowRepo struct {
	mu      sync.Mutex
	follows map[string]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{follows: make(map[string]bool)}
}

func followKey(followerID, followeeID uuid.UUID) string {
	return followerID.String() + ">" + followeeID.String()
}

func (r *fakeFollowRepo) Follow(_ context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := followKey(followerID, followeeID)
	if r.follows[key] {
		return false, nil
	}
	r.follows[key] = true
	return true, nil
}

func (r *fakeFollowRepo) Unfollow(_ context.Context, followerID, followeeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.follows, followKey(followerID, followeeID))
	return nil
}

func (r *fakeFollowRepo) IsFollowing(_ context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.follows[followKey(followerID, followeeID)], nil
}

func (r *fakeFollowRepo) ListFollowers(_ context.Context, _ uuid.UUID) ([]domain.ProfileSummary, error) {
	return nil, nil
}

func (r *fakeFollowRepo) ListFollowing(_ context.Context, _ uuid.UUID) ([]domain.ProfileSummary, error) {
	return nil, nil
}

func (r *fakeFollowRepo) ListFollowingIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for key := range r.follows {
		if len(key) > 37 && key[:36] == userID.String() {
			id, err := uuid.Parse(key[37:])
			if err == nil {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

type fakePostRepo struct {
	mu       sync.Mutex
	posts    map[uuid.UUID]*domain.Post
	likes    map[string]bool
	comments []domain.Comment
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts: make(map[uuid.UUID]*domain.Post),
		likes: make(map[string]bool),
	}
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id, _ uuid.UUID) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *post
	return &cp, nil
}

func (r *fakePostRepo) ListFeed(_ context.Context, _ uuid.UUID, authorIDs []uuid.UUID, _, _ int) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []domain.Post
	for _, p := range r.posts {
		if authorIDs != nil {
			found := false
			for _, id := range authorIDs {
				if p.AuthorID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		posts = append(posts, *p)
	}
	return posts, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) Like(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := postID.String() + "|" + userID.String()
	if r.likes[key] {
		return false, nil
	}
	r.likes[key] = true
	return true, nil
}

func (r *fakePostRepo) Unlike(_ context.Context, postID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes, postID.String()+"|"+userID.String())
	return nil
}

func (r *fakePostRepo) CreateComment(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakePostRepo) ListComments(_ context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var comments []domain.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListRecent(_ context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for i := len(r.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if r.notifications[i].UserID == userID {
			out = append(out, r.notifications[i])
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) forUser(userID uuid.UUID) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
