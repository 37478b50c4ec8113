package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"gorm.io/gorm"

	"aveta_backend/internal/models"
	"aveta_backend/internal/repositories"
)

// In-memory collaborators for service tests.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	likes  map[[2]uint]bool
	nextID uint

	saveErr error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{
		users:  make(map[uint]*models.User),
		likes:  make(map[[2]uint]bool),
		nextID: 1,
	}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = r.nextID
		}
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindAllExcept(_ context.Context, excludeID uint) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.ID != excludeID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, user.ID)
	return nil
}

func (r *fakeUserRepo) IncrementTokenVersion(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.TokenVersion++
	return nil
}

func (r *fakeUserRepo) AddLike(_ context.Context, userID, characterID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.likes[[2]uint{userID, characterID}] = true
	return nil
}

func (r *fakeUserRepo) RemoveLike(_ context.Context, userID, characterID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes, [2]uint{userID, characterID})
	return nil
}

func (r *fakeUserRepo) HasLiked(_ context.Context, userID, characterID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.likes[[2]uint{userID, characterID}], nil
}

func (r *fakeUserRepo) CountLikes(_ context.Context, characterID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, v := range r.likes {
		if v && k[1] == characterID {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) get(id uint) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

type fakeCharacterRepo struct {
	mu         sync.Mutex
	characters map[uint]*models.Character
	nextID     uint
	deleted    []uint
}

func newFakeCharacterRepo(characters ...*models.Character) *fakeCharacterRepo {
	r := &fakeCharacterRepo{
		characters: make(map[uint]*models.Character),
		nextID:     1,
	}
	for _, c := range characters {
		if c.ID == 0 {
			c.ID = r.nextID
		}
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
		r.characters[c.ID] = c
	}
	return r
}

func (r *fakeCharacterRepo) FindByID(_ context.Context, id uint) (*models.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.characters[id]
	if !ok {
		return nil, repositories.ErrCharacterNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCharacterRepo) Create(_ context.Context, character *models.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	character.ID = r.nextID
	r.nextID++
	copied := *character
	r.characters[character.ID] = &copied
	return nil
}

func (r *fakeCharacterRepo) Save(_ context.Context, character *models.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *character
	r.characters[character.ID] = &copied
	return nil
}

func (r *fakeCharacterRepo) Delete(_ context.Context, character *models.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.characters, character.ID)
	r.deleted = append(r.deleted, character.ID)
	return nil
}

func (r *fakeCharacterRepo) QueryPublic(context.Context, repositories.CharacterFilter) *gorm.DB {
	return nil
}

func (r *fakeCharacterRepo) QueryByCreator(context.Context, uint, bool) *gorm.DB {
	return nil
}

func (r *fakeCharacterRepo) QueryLikedBy(context.Context, uint, bool) *gorm.DB {
	return nil
}

type fakeChatRepo struct {
	mu      sync.Mutex
	chats   map[uint]*models.Chat
	nextID  uint
	deleted []uint
}

func newFakeChatRepo(chats ...*models.Chat) *fakeChatRepo {
	r := &fakeChatRepo{
		chats:  make(map[uint]*models.Chat),
		nextID: 1,
	}
	for _, c := range chats {
		if c.ID == 0 {
			c.ID = r.nextID
		}
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
		r.chats[c.ID] = c
	}
	return r
}

func (r *fakeChatRepo) FindByID(_ context.Context, id uint) (*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[id]
	if !ok {
		return nil, repositories.ErrChatNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeChatRepo) FindByUserAndCharacter(_ context.Context, userID, characterID uint) (*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chats {
		if c.UserID == userID && c.CharacterID == characterID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repositories.ErrChatNotFound
}

func (r *fakeChatRepo) FindAllByUser(_ context.Context, userID uint) ([]models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Chat
	for _, c := range r.chats {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) Create(_ context.Context, chat *models.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat.ID = r.nextID
	r.nextID++
	copied := *chat
	r.chats[chat.ID] = &copied
	return nil
}

func (r *fakeChatRepo) Save(_ context.Context, chat *models.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *chat
	r.chats[chat.ID] = &copied
	return nil
}

func (r *fakeChatRepo) Delete(_ context.Context, chat *models.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chats, chat.ID)
	r.deleted = append(r.deleted, chat.ID)
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []models.Message
	nextID   uint

	createErr error
	failAfter int // fail the Nth create (1-based); 0 disables
	creates   int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1}
}

func (r *fakeMessageRepo) Create(_ context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil && (r.failAfter == 0 || r.creates >= r.failAfter) {
		return r.createErr
	}
	message.ID = r.nextID
	r.nextID++
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) FindAllByChat(_ context.Context, chatID uint) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Message
	for _, m := range r.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeBlogRepo struct {
	mu     sync.Mutex
	blogs  map[uint]*models.Blog
	nextID uint
}

func newFakeBlogRepo(blogs ...*models.Blog) *fakeBlogRepo {
	r := &fakeBlogRepo{
		blogs:  make(map[uint]*models.Blog),
		nextID: 1,
	}
	for _, b := range blogs {
		if b.ID == 0 {
			b.ID = r.nextID
		}
		if b.ID >= r.nextID {
			r.nextID = b.ID + 1
		}
		r.blogs[b.ID] = b
	}
	return r
}

func (r *fakeBlogRepo) FindByID(_ context.Context, id uint) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return nil, repositories.ErrBlogNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBlogRepo) Create(_ context.Context, blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	blog.ID = r.nextID
	r.nextID++
	copied := *blog
	r.blogs[blog.ID] = &copied
	return nil
}

func (r *fakeBlogRepo) Save(_ context.Context, blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *blog
	r.blogs[blog.ID] = &copied
	return nil
}

func (r *fakeBlogRepo) Delete(_ context.Context, blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blogs, blog.ID)
	return nil
}

func (r *fakeBlogRepo) QueryAll(context.Context) *gorm.DB { return nil }

type fakeStorage struct {
	mu      sync.Mutex
	puts    []string
	deletes []string
	putErr  error
}

func (s *fakeStorage) Put(_ context.Context, key string, reader io.Reader, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return "", s.putErr
	}
	_, _ = io.Copy(io.Discard, reader)
	s.puts = append(s.puts, key)
	return "https://cdn.test/" + key, nil
}

func (s *fakeStorage) KeyFromURL(rawURL string) string {
	return strings.TrimPrefix(rawURL, "https://cdn.test/")
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, key)
	return nil
}

type fakeCompletion struct {
	reply string
	err   error
	calls int

	gotSystemPrompt string
	gotUserMessage  string
}

func (c *fakeCompletion) Complete(_ context.Context, systemPrompt, userMessage string) (string, error) {
	c.calls++
	c.gotSystemPrompt = systemPrompt
	c.gotUserMessage = userMessage
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

type fakeMail struct {
	welcomes []string
	resets   []string
	err      error
}

func (m *fakeMail) SendWelcome(to, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.welcomes = append(m.welcomes, to)
	return nil
}

func (m *fakeMail) SendPasswordReset(to, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.resets = append(m.resets, to)
	return nil
}

var errBoom = errors.New("boom")
