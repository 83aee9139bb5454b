package fakeapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

type userRecord struct {
	models.UserMe
	passwordHash []byte
}

type repositoryRecord struct {
	models.RepositoryDetail
	ownerID int64
}

type requestRecord struct {
	models.RequestDetail
	ownerID int64
}

type uploadRecord struct {
	models.UploadDetail
	ownerID int64
}

// store keeps every resource in memory behind one lock. Accessors return
// copies so handlers never share records with the store.
type store struct {
	mu           sync.RWMutex
	now          func() time.Time
	seq          int64
	users        map[int64]*userRecord
	usersByNRP   map[string]int64
	galleries    map[int64]models.GalleryDetail
	repositories map[int64]*repositoryRecord
	requests     map[int64]*requestRecord
	uploads      map[int64]*uploadRecord
}

func newStore(now func() time.Time) *store {
	return &store{
		now:          now,
		users:        make(map[int64]*userRecord),
		usersByNRP:   make(map[string]int64),
		galleries:    make(map[int64]models.GalleryDetail),
		repositories: make(map[int64]*repositoryRecord),
		requests:     make(map[int64]*requestRecord),
		uploads:      make(map[int64]*uploadRecord),
	}
}

func (s *store) nextIDLocked() int64 {
	s.seq++
	return s.seq
}

func (s *store) seedAdmin(nrp, password string) error {
	_, err := s.createUser(models.RegisterRequest{
		Name:     "admin",
		FullName: "Portal Administrator",
		NRP:      nrp,
		Email:    "admin@hmtc.local",
		Password: password,
	}, models.RoleSuperAdmin)
	return err
}

func (s *store) createUser(req models.RegisterRequest, role models.UserRole) (models.UserMe, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.UserMe{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByNRP[req.NRP]; exists {
		return models.UserMe{}, appErrors.Clone(appErrors.ErrConflict, "NRP is already registered")
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			return models.UserMe{}, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
		}
	}
	u := &userRecord{
		UserMe: models.UserMe{
			ID:       s.nextIDLocked(),
			FullName: req.FullName,
			Name:     req.Name,
			NRP:      req.NRP,
			Email:    req.Email,
			Angkatan: req.Angkatan,
			Role:     role,
		},
		passwordHash: hash,
	}
	s.users[u.ID] = u
	s.usersByNRP[u.NRP] = u.ID
	return u.UserMe, nil
}

func (s *store) authenticate(nrp, password string) (models.UserMe, error) {
	s.mu.RLock()
	id, ok := s.usersByNRP[nrp]
	var u userRecord
	if ok {
		u = *s.users[id]
	}
	s.mu.RUnlock()

	invalid := appErrors.Clone(appErrors.ErrUnauthorized, "invalid NRP or password")
	if !ok {
		return models.UserMe{}, invalid
	}
	if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) != nil {
		return models.UserMe{}, invalid
	}
	return u.UserMe, nil
}

func (s *store) user(id int64) (models.UserMe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.UserMe{}, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return u.UserMe, nil
}

func (s *store) changePassword(id int64, oldPassword, newPassword string) error {
	s.mu.RLock()
	u, ok := s.users[id]
	var hash []byte
	if ok {
		hash = u.passwordHash
	}
	s.mu.RUnlock()
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(oldPassword)) != nil {
		return appErrors.Clone(appErrors.ErrValidation, "current password is incorrect")
	}
	next, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	s.mu.Lock()
	s.users[id].passwordHash = next
	s.mu.Unlock()
	return nil
}

func (s *store) updateUser(id int64, fn func(*models.UserMe)) (models.UserMe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.UserMe{}, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	fn(&u.UserMe)
	return u.UserMe, nil
}

func (s *store) emailRegistered(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *store) createGallery(g models.GalleryDetail) models.GalleryDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	g.ID = s.nextIDLocked()
	g.UploadedAt = &now
	s.galleries[g.ID] = g
	return g
}

func (s *store) gallery(id int64, countView bool) (models.GalleryDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.galleries[id]
	if !ok {
		return models.GalleryDetail{}, appErrors.Clone(appErrors.ErrNotFound, "gallery not found")
	}
	if countView {
		g.ViewCount++
		s.galleries[id] = g
	}
	return g, nil
}

func (s *store) replaceGallery(id int64, fn func(*models.GalleryDetail)) (models.GalleryDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.galleries[id]
	if !ok {
		return models.GalleryDetail{}, appErrors.Clone(appErrors.ErrNotFound, "gallery not found")
	}
	fn(&g)
	g.ID = id
	s.galleries[id] = g
	return g, nil
}

func (s *store) deleteGallery(id int64) (models.GalleryDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.galleries[id]
	if !ok {
		return models.GalleryDetail{}, appErrors.Clone(appErrors.ErrNotFound, "gallery not found")
	}
	delete(s.galleries, id)
	return g, nil
}

// listGalleries filters and orders newest first, breaking ties by id so the
// order is stable between calls.
func (s *store) listGalleries(f models.GalleryFilter) []models.GalleryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.GalleryItem, 0, len(s.galleries))
	for _, g := range s.galleries {
		if search != "" && !strings.Contains(strings.ToLower(g.Title), search) {
			continue
		}
		if f.Tag != "" && !containsFold(g.Tags, f.Tag) {
			continue
		}
		if f.Year > 0 && !strings.HasPrefix(g.Date, fmt.Sprintf("%04d-", f.Year)) {
			continue
		}
		out = append(out, g.GalleryItem)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *store) createRepository(ownerID int64, p models.RepositoryPayload) models.RepositoryDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	rec := &repositoryRecord{ownerID: ownerID}
	rec.ID = s.nextIDLocked()
	rec.Status = models.RepositoryDraft
	rec.CreatedAt = now
	rec.UpdatedAt = now
	applyRepositoryPayload(&rec.RepositoryDetail, p)
	s.repositories[rec.ID] = rec
	return rec.RepositoryDetail
}

func applyRepositoryPayload(d *models.RepositoryDetail, p models.RepositoryPayload) {
	d.Title = p.Title
	d.Description = p.Description
	d.Category = p.Category
	d.Link = p.Link
	d.Authors = p.Authors
	d.Tags = p.Tags
}

func (s *store) repository(id int64) (repositoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.repositories[id]
	if !ok {
		return repositoryRecord{}, appErrors.Clone(appErrors.ErrNotFound, "repository not found")
	}
	return *rec, nil
}

func (s *store) mutateRepository(id int64, fn func(*repositoryRecord) error) (models.RepositoryDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.repositories[id]
	if !ok {
		return models.RepositoryDetail{}, appErrors.Clone(appErrors.ErrNotFound, "repository not found")
	}
	next := *rec
	if err := fn(&next); err != nil {
		return models.RepositoryDetail{}, err
	}
	next.UpdatedAt = s.now().UTC()
	s.repositories[id] = &next
	return next.RepositoryDetail, nil
}

func (s *store) deleteRepository(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.repositories[id]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "repository not found")
	}
	delete(s.repositories, id)
	return nil
}

func (s *store) listRepositories(f models.RepositoryFilter, visible func(repositoryRecord) bool) []models.RepositoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.RepositoryItem, 0, len(s.repositories))
	for _, rec := range s.repositories {
		if !visible(*rec) {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.Category != "" && !strings.EqualFold(rec.Category, f.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.Title), search) {
			continue
		}
		out = append(out, rec.RepositoryItem)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *store) createRequest(owner models.UserMe, p models.CreateRequestPayload) models.RequestDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &requestRecord{ownerID: owner.ID}
	rec.ID = s.nextIDLocked()
	rec.Title = p.Title
	rec.Type = p.Type
	rec.Description = p.Description
	rec.Requester = owner.Name
	rec.Status = models.ReviewInReview
	rec.CreatedAt = s.now().UTC()
	s.requests[rec.ID] = rec
	return rec.RequestDetail
}

func (s *store) request(id int64) (requestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.requests[id]
	if !ok {
		return requestRecord{}, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	return *rec, nil
}

func (s *store) reviewRequest(id int64, reviewer string, d models.ReviewDecision) (models.RequestDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.requests[id]
	if !ok {
		return models.RequestDetail{}, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	if !rec.Status.CanTransition(d.Status) {
		return models.RequestDetail{}, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("request is already %s", rec.Status))
	}
	now := s.now().UTC()
	rec.Status = d.Status
	rec.ReviewNote = d.Note
	rec.ReviewedBy = reviewer
	rec.ReviewedAt = &now
	return rec.RequestDetail, nil
}

func (s *store) listRequests(f models.ReviewFilter, visible func(requestRecord) bool) []models.RequestItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.RequestItem, 0, len(s.requests))
	for _, rec := range s.requests {
		if !visible(*rec) || (f.Status != "" && rec.Status != f.Status) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.Title), search) {
			continue
		}
		out = append(out, rec.RequestItem)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *store) createUpload(owner models.UserMe, d models.UploadDetail) models.UploadDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &uploadRecord{UploadDetail: d, ownerID: owner.ID}
	rec.ID = s.nextIDLocked()
	rec.Uploader = owner.Name
	rec.Status = models.ReviewInReview
	rec.CreatedAt = s.now().UTC()
	s.uploads[rec.ID] = rec
	return rec.UploadDetail
}

func (s *store) upload(id int64) (uploadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.uploads[id]
	if !ok {
		return uploadRecord{}, appErrors.Clone(appErrors.ErrNotFound, "upload not found")
	}
	return *rec, nil
}

func (s *store) reviewUpload(id int64, reviewer string, d models.ReviewDecision) (models.UploadDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.uploads[id]
	if !ok {
		return models.UploadDetail{}, appErrors.Clone(appErrors.ErrNotFound, "upload not found")
	}
	if !rec.Status.CanTransition(d.Status) {
		return models.UploadDetail{}, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("upload is already %s", rec.Status))
	}
	now := s.now().UTC()
	rec.Status = d.Status
	rec.ReviewNote = d.Note
	rec.ReviewedBy = reviewer
	rec.ReviewedAt = &now
	return rec.UploadDetail, nil
}

func (s *store) listUploads(f models.ReviewFilter, visible func(uploadRecord) bool) []models.UploadItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.UploadItem, 0, len(s.uploads))
	for _, rec := range s.uploads {
		if !visible(*rec) || (f.Status != "" && rec.Status != f.Status) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.Title), search) {
			continue
		}
		out = append(out, rec.UploadItem)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
