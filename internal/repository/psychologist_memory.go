package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"mindconnect/internal/domain"
)

type PsychologistMemoryRepo struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]*domain.Psychologist
}

func NewPsychologistMemoryRepository() *PsychologistMemoryRepo {
	return &PsychologistMemoryRepo{
		nextID:  1,
		records: make(map[int64]*domain.Psychologist),
	}
}

func (r *PsychologistMemoryRepo) Create(ctx context.Context, slug string, dto domain.CreatePsychologistDTO) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.records {
		if p.Slug == slug {
			return 0, domain.ErrSlugTaken
		}
	}

	status := dto.Status
	if status == "" {
		status = domain.ProfileStatusDraft
	}

	now := time.Now().UTC()
	id := r.nextID
	r.nextID++
	r.records[id] = &domain.Psychologist{
		ID:                  id,
		Slug:                slug,
		Name:                dto.Name,
		Credentials:         dto.Credentials,
		About:               dto.About,
		HeadshotURL:         dto.HeadshotURL,
		CoverImageURL:       dto.CoverImageURL,
		Specializations:     slices.Clone(dto.Specializations),
		Languages:           slices.Clone(dto.Languages),
		Location:            dto.Location,
		TimeZone:            dto.TimeZone,
		YearsOfExperience:   dto.YearsOfExperience,
		ServicesOffered:     slices.Clone(dto.ServicesOffered),
		Rate:                dto.Rate,
		AvailabilityNote:    dto.AvailabilityNote,
		ContactEmail:        dto.ContactEmail,
		Website:             dto.Website,
		AcceptingNewClients: dto.AcceptingNewClients,
		Featured:            dto.Featured,
		Status:              status,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	return id, nil
}

func (r *PsychologistMemoryRepo) GetByID(ctx context.Context, id int64) (*domain.Psychologist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := clonePsychologist(*p)
	return &out, nil
}

func (r *PsychologistMemoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Psychologist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.records {
		if p.Slug == slug {
			out := clonePsychologist(*p)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *PsychologistMemoryRepo) Update(ctx context.Context, id int64, dto domain.UpdatePsychologistDTO) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if dto.Slug != nil && *dto.Slug != p.Slug {
		for otherID, other := range r.records {
			if otherID != id && other.Slug == *dto.Slug {
				return domain.ErrSlugTaken
			}
		}
	}

	applyPsychologistUpdate(p, dto)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *PsychologistMemoryRepo) UpdateStatus(ctx context.Context, id int64, status domain.ProfileStatus) error {
	return r.mutate(id, func(p *domain.Psychologist) { p.Status = status })
}

func (r *PsychologistMemoryRepo) SetFeatured(ctx context.Context, id int64, featured bool) error {
	return r.mutate(id, func(p *domain.Psychologist) { p.Featured = featured })
}

func (r *PsychologistMemoryRepo) SetAccepting(ctx context.Context, id int64, accepting bool, availabilityNote string) error {
	return r.mutate(id, func(p *domain.Psychologist) {
		p.AcceptingNewClients = accepting
		p.AvailabilityNote = availabilityNote
	})
}

func (r *PsychologistMemoryRepo) UpdateHeadshot(ctx context.Context, id int64, url string) error {
	return r.mutate(id, func(p *domain.Psychologist) { p.HeadshotURL = url })
}

func (r *PsychologistMemoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *PsychologistMemoryRepo) List(ctx context.Context, filter domain.AdminPsychologistFilter) ([]domain.Psychologist, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var search string
	if filter.Search != nil {
		search = strings.ToLower(strings.TrimSpace(*filter.Search))
	}

	matched := make([]domain.Psychologist, 0, len(r.records))
	for _, p := range r.sortedLocked() {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.ContactEmail), search) {
			continue
		}
		matched = append(matched, clonePsychologist(*p))
	}

	return window(matched, filter.Limit, filter.Offset), len(matched), nil
}

func (r *PsychologistMemoryRepo) ListPublished(ctx context.Context) ([]domain.Psychologist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Psychologist, 0, len(r.records))
	for _, p := range r.sortedLocked() {
		if p.IsPublished() {
			out = append(out, clonePsychologist(*p))
		}
	}
	return out, nil
}

func (r *PsychologistMemoryRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, p := range r.records {
		if id != excludeID && p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *PsychologistMemoryRepo) IncrementViews(ctx context.Context, id int64) error {
	return r.counter(id, func(p *domain.Psychologist) { p.Views30Days++ })
}

func (r *PsychologistMemoryRepo) IncrementBookings(ctx context.Context, id int64) error {
	return r.counter(id, func(p *domain.Psychologist) { p.Bookings30Days++ })
}

func (r *PsychologistMemoryRepo) mutate(id int64, fn func(*domain.Psychologist)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(p)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// counter changes statistics without touching last_updated.
func (r *PsychologistMemoryRepo) counter(id int64, fn func(*domain.Psychologist)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(p)
	return nil
}

func (r *PsychologistMemoryRepo) sortedLocked() []*domain.Psychologist {
	out := make([]*domain.Psychologist, 0, len(r.records))
	for _, p := range r.records {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *domain.Psychologist) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

func applyPsychologistUpdate(p *domain.Psychologist, dto domain.UpdatePsychologistDTO) {
	if dto.Slug != nil {
		p.Slug = *dto.Slug
	}
	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Credentials != nil {
		p.Credentials = *dto.Credentials
	}
	if dto.About != nil {
		p.About = *dto.About
	}
	if dto.HeadshotURL != nil {
		p.HeadshotURL = *dto.HeadshotURL
	}
	if dto.CoverImageURL != nil {
		p.CoverImageURL = *dto.CoverImageURL
	}
	if dto.Specializations != nil {
		p.Specializations = slices.Clone(*dto.Specializations)
	}
	if dto.Languages != nil {
		p.Languages = slices.Clone(*dto.Languages)
	}
	if dto.Location != nil {
		p.Location = *dto.Location
	}
	if dto.TimeZone != nil {
		p.TimeZone = *dto.TimeZone
	}
	if dto.YearsOfExperience != nil {
		p.YearsOfExperience = *dto.YearsOfExperience
	}
	if dto.ServicesOffered != nil {
		p.ServicesOffered = slices.Clone(*dto.ServicesOffered)
	}
	if dto.Rate != nil {
		p.Rate = *dto.Rate
	}
	if dto.AvailabilityNote != nil {
		p.AvailabilityNote = *dto.AvailabilityNote
	}
	if dto.ContactEmail != nil {
		p.ContactEmail = *dto.ContactEmail
	}
	if dto.Website != nil {
		p.Website = *dto.Website
	}
	if dto.AcceptingNewClients != nil {
		p.AcceptingNewClients = *dto.AcceptingNewClients
	}
}

func clonePsychologist(p domain.Psychologist) domain.Psychologist {
	p.Specializations = slices.Clone(p.Specializations)
	p.Languages = slices.Clone(p.Languages)
	p.ServicesOffered = slices.Clone(p.ServicesOffered)
	return p
}

// window applies limit/offset to an already filtered slice. A non-positive
// limit returns everything from offset on.
func window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
