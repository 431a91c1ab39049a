package app

import (
	"context"
	"errors"
	"sort"

	"docuchat/internal/ai"
	"docuchat/internal/model"
	"docuchat/internal/storage"
)

type memUserStore struct {
	nextID uint
	users  map[string]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*model.User)}
}

func (s *memUserStore) Create(user *model.User) error {
	if _, exists := s.users[user.Email]; exists {
		return errors.New("duplicate email")
	}
	s.nextID++
	user.ID = s.nextID
	clone := *user
	s.users[user.Email] = &clone
	return nil
}

func (s *memUserStore) GetByEmail(email string) (*model.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (s *memUserStore) GetByID(id uint) (*model.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

type memFileStore struct {
	nextID uint
	files  []model.UploadedFile
}

func (s *memFileStore) Create(file *model.UploadedFile) error {
	s.nextID++
	file.ID = s.nextID
	s.files = append(s.files, *file)
	return nil
}

func (s *memFileStore) ListByOwner(ownerID uint) ([]model.UploadedFile, error) {
	var out []model.UploadedFile
	for _, f := range s.files {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (s *memFileStore) MostRecentByOwner(ownerID uint) (*model.UploadedFile, error) {
	files, _ := s.ListByOwner(ownerID)
	if len(files) == 0 {
		return nil, nil
	}
	clone := files[0]
	return &clone, nil
}

func (s *memFileStore) GetByIDAndOwner(id, ownerID uint) (*model.UploadedFile, error) {
	for _, f := range s.files {
		if f.ID == id && f.OwnerID == ownerID {
			clone := f
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *memFileStore) DeleteByIDAndOwner(id, ownerID uint) error {
	kept := s.files[:0]
	for _, f := range s.files {
		if !(f.ID == id && f.OwnerID == ownerID) {
			kept = append(kept, f)
		}
	}
	s.files = kept
	return nil
}

type memBlobStore struct {
	nextID   int
	blobs    map[string][]byte
	maxBytes int64
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{
		blobs:    make(map[string][]byte),
		maxBytes: 10 * 1024 * 1024,
	}
}

func (s *memBlobStore) Save(data []byte, ext string) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", storage.ErrTooLarge
	}
	s.nextID++
	name := "blob-" + string(rune('a'+s.nextID)) + ext
	s.blobs[name] = append([]byte(nil), data...)
	return name, nil
}

func (s *memBlobStore) Read(storedName string) ([]byte, error) {
	data, ok := s.blobs[storedName]
	if !ok {
		return nil, storage.ErrBlobNotFound
	}
	return data, nil
}

func (s *memBlobStore) Delete(storedName string) error {
	delete(s.blobs, storedName)
	return nil
}

func (s *memBlobStore) MaxBytes() int64 {
	return s.maxBytes
}

type fakeCompleter struct {
	answer       string
	err          error
	lastMessages []ai.ChatMessage
	calls        int
}

func (f *fakeCompleter) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	f.calls++
	f.lastMessages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type memTranscriptStore struct {
	messages []model.ChatMessage
}

func (s *memTranscriptStore) ListByUserID(userID uint, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var out []model.ChatMessage
	for _, m := range s.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingPublisher struct {
	published []model.ChatMessage
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, msg model.ChatMessage) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}
