// Package testutil holds in-memory implementations of the domain ports for use case tests.
package testutil

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/certificate"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/internal/domain/health"
	"github.com/khoahotran/pawpal/internal/domain/insight"
	"github.com/khoahotran/pawpal/internal/domain/lifestyle"
	"github.com/khoahotran/pawpal/internal/domain/marketplace"
	"github.com/khoahotran/pawpal/internal/domain/nutrition"
	"github.com/khoahotran/pawpal/internal/domain/training"
	"github.com/khoahotran/pawpal/internal/domain/user"
	"github.com/khoahotran/pawpal/pkg/apperror"
)

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

type UserRepo struct {
	mu    sync.Mutex
	Users map[uuid.UUID]*user.User
}

func NewUserRepo() *UserRepo { return &UserRepo{Users: map[uuid.UUID]*user.User{}} }

func (r *UserRepo) Save(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Users {
		if existing.Email == u.Email {
			return apperror.NewConflict("user", "email", u.Email)
		}
	}
	cp := *u
	r.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *UserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.NewNotFound("user", id.String())
}

type DogRepo struct {
	mu   sync.Mutex
	Dogs map[uuid.UUID]*dog.Dog
}

func NewDogRepo() *DogRepo { return &DogRepo{Dogs: map[uuid.UUID]*dog.Dog{}} }

// Add stores d directly, bypassing validation.
func (r *DogRepo) Add(d *dog.Dog) *dog.Dog {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.Dogs[d.ID] = &cp
	return d
}

func (r *DogRepo) Save(_ context.Context, d *dog.Dog) error {
	r.Add(d)
	return nil
}

func (r *DogRepo) Update(_ context.Context, d *dog.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Dogs[d.ID]; !ok || cur.OwnerID != d.OwnerID {
		return apperror.NewNotFound("dog", d.ID.String())
	}
	cp := *d
	r.Dogs[d.ID] = &cp
	return nil
}

func (r *DogRepo) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Dogs[id]; !ok || cur.OwnerID != ownerID {
		return apperror.NewNotFound("dog", id.String())
	}
	delete(r.Dogs, id)
	return nil
}

func (r *DogRepo) FindByID(_ context.Context, id, ownerID uuid.UUID) (*dog.Dog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.Dogs[id]; ok && d.OwnerID == ownerID {
		cp := *d
		return &cp, nil
	}
	return nil, apperror.NewNotFound("dog", id.String())
}

func (r *DogRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]*dog.Dog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*dog.Dog, 0)
	for _, d := range r.Dogs {
		if d.OwnerID == ownerID {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

type PreferenceStore struct {
	mu       sync.Mutex
	Selected map[uuid.UUID]uuid.UUID
}

func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{Selected: map[uuid.UUID]uuid.UUID{}}
}

func (s *PreferenceStore) GetSelectedDog(_ context.Context, ownerID uuid.UUID) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.Selected[ownerID]
	return id, ok, nil
}

func (s *PreferenceStore) SetSelectedDog(_ context.Context, ownerID, dogID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Selected[ownerID] = dogID
	return nil
}

func (s *PreferenceStore) ClearSelectedDog(_ context.Context, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Selected, ownerID)
	return nil
}

type HealthRepo struct {
	mu      sync.Mutex
	Records map[uuid.UUID]*health.Record
}

func NewHealthRepo() *HealthRepo { return &HealthRepo{Records: map[uuid.UUID]*health.Record{}} }

func (r *HealthRepo) Save(_ context.Context, rec *health.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.Records[rec.ID] = &cp
	return nil
}

func (r *HealthRepo) Update(_ context.Context, rec *health.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Records[rec.ID]; !ok || cur.OwnerID != rec.OwnerID {
		return apperror.NewNotFound("health record", rec.ID.String())
	}
	cp := *rec
	r.Records[rec.ID] = &cp
	return nil
}

func (r *HealthRepo) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Records[id]; !ok || cur.OwnerID != ownerID {
		return apperror.NewNotFound("health record", id.String())
	}
	delete(r.Records, id)
	return nil
}

func (r *HealthRepo) FindByID(_ context.Context, id, ownerID uuid.UUID) (*health.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.Records[id]; ok && rec.OwnerID == ownerID {
		cp := *rec
		return &cp, nil
	}
	return nil, apperror.NewNotFound("health record", id.String())
}

func (r *HealthRepo) ListByDog(_ context.Context, dogID, ownerID uuid.UUID, recordType string, limit, offset int) ([]*health.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*health.Record, 0)
	for _, rec := range r.Records {
		if rec.DogID != dogID || rec.OwnerID != ownerID {
			continue
		}
		if recordType != "" && string(rec.RecordType) != recordType {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return page(out, limit, offset), nil
}

func (r *HealthRepo) ListDueBetween(_ context.Context, dogID, ownerID uuid.UUID, from, to time.Time) ([]*health.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*health.Record, 0)
	for _, rec := range r.Records {
		if rec.DogID != dogID || rec.OwnerID != ownerID || rec.NextDueAt == nil {
			continue
		}
		if rec.NextDueAt.Before(from) || rec.NextDueAt.After(to) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextDueAt.Before(*out[j].NextDueAt) })
	return out, nil
}

type MealRepo struct {
	mu    sync.Mutex
	Meals map[uuid.UUID]*nutrition.MealRecord
}

func NewMealRepo() *MealRepo { return &MealRepo{Meals: map[uuid.UUID]*nutrition.MealRecord{}} }

func (r *MealRepo) Save(_ context.Context, m *nutrition.MealRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.Meals[m.ID] = &cp
	return nil
}

func (r *MealRepo) Update(_ context.Context, m *nutrition.MealRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Meals[m.ID]; !ok || cur.OwnerID != m.OwnerID {
		return apperror.NewNotFound("meal record", m.ID.String())
	}
	cp := *m
	r.Meals[m.ID] = &cp
	return nil
}

func (r *MealRepo) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Meals[id]; !ok || cur.OwnerID != ownerID {
		return apperror.NewNotFound("meal record", id.String())
	}
	delete(r.Meals, id)
	return nil
}

func (r *MealRepo) FindByID(_ context.Context, id, ownerID uuid.UUID) (*nutrition.MealRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.Meals[id]; ok && m.OwnerID == ownerID {
		cp := *m
		return &cp, nil
	}
	return nil, apperror.NewNotFound("meal record", id.String())
}

func (r *MealRepo) ListByDog(_ context.Context, dogID, ownerID uuid.UUID, limit, offset int) ([]*nutrition.MealRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*nutrition.MealRecord, 0)
	for _, m := range r.Meals {
		if m.DogID == dogID && m.OwnerID == ownerID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FedAt.After(out[j].FedAt) })
	return page(out, limit, offset), nil
}

func (r *MealRepo) ListBetween(_ context.Context, dogID, ownerID uuid.UUID, from, to time.Time) ([]*nutrition.MealRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*nutrition.MealRecord, 0)
	for _, m := range r.Meals {
		if m.DogID != dogID || m.OwnerID != ownerID {
			continue
		}
		if m.FedAt.Before(from) || !m.FedAt.Before(to) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FedAt.Before(out[j].FedAt) })
	return out, nil
}

type SkillRepo struct {
	mu           sync.Mutex
	Skills       []*training.Skill
	Requirements []training.Requirement
	// RequirementReads counts ListAllRequirements calls.
	RequirementReads int
}

func NewSkillRepo() *SkillRepo { return &SkillRepo{} }

func (r *SkillRepo) AddSkill(s *training.Skill, reqs ...training.Requirement) *training.Skill {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skills = append(r.Skills, s)
	r.Requirements = append(r.Requirements, reqs...)
	return s
}

func (r *SkillRepo) ListSkills(_ context.Context) ([]*training.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*training.Skill{}, r.Skills...), nil
}

func (r *SkillRepo) FindSkillByID(_ context.Context, id uuid.UUID) (*training.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Skills {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperror.NewNotFound("skill", id.String())
}

func (r *SkillRepo) ListRequirements(_ context.Context, skillID uuid.UUID) ([]training.Requirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]training.Requirement, 0)
	for _, req := range r.Requirements {
		if req.SkillID == skillID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *SkillRepo) ListAllRequirements(_ context.Context) ([]training.Requirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RequirementReads++
	return append([]training.Requirement{}, r.Requirements...), nil
}

type TrainingRepo struct {
	mu        sync.Mutex
	DogSkills map[uuid.UUID]*training.DogSkill
	Sessions  map[uuid.UUID][]training.Session
}

func NewTrainingRepo() *TrainingRepo {
	return &TrainingRepo{
		DogSkills: map[uuid.UUID]*training.DogSkill{},
		Sessions:  map[uuid.UUID][]training.Session{},
	}
}

func cloneDogSkill(ds *training.DogSkill) *training.DogSkill {
	cp := *ds
	cp.ContextsSeen = append([]training.PracticeContext{}, ds.ContextsSeen...)
	return &cp
}

func (r *TrainingRepo) CreateDogSkill(_ context.Context, ds *training.DogSkill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.DogSkills {
		if cur.DogID == ds.DogID && cur.SkillID == ds.SkillID {
			return apperror.NewConflict("dog skill", "skill_id", ds.SkillID.String())
		}
	}
	r.DogSkills[ds.ID] = cloneDogSkill(ds)
	return nil
}

func (r *TrainingRepo) FindDogSkill(_ context.Context, dogID, skillID uuid.UUID) (*training.DogSkill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ds := range r.DogSkills {
		if ds.DogID == dogID && ds.SkillID == skillID {
			return cloneDogSkill(ds), nil
		}
	}
	return nil, apperror.NewNotFound("dog skill", skillID.String())
}

func (r *TrainingRepo) ListDogSkills(_ context.Context, dogID uuid.UUID) ([]*training.DogSkill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*training.DogSkill, 0)
	for _, ds := range r.DogSkills {
		if ds.DogID == dogID {
			out = append(out, cloneDogSkill(ds))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TrainingRepo) UpdateLevel(_ context.Context, ds *training.DogSkill, from training.ProficiencyLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.DogSkills[ds.ID]
	if !ok || cur.Level != from {
		return apperror.NewConflictState("Skill level changed, please retry", training.ErrStaleLevel.Error())
	}
	cur.Level = ds.Level
	cur.UpdatedAt = ds.UpdatedAt
	return nil
}

func (r *TrainingRepo) AppendSession(_ context.Context, ds *training.DogSkill, s *training.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.DogSkills[ds.ID]
	if !ok {
		return apperror.NewNotFound("dog skill", ds.ID.String())
	}
	r.Sessions[ds.ID] = append(r.Sessions[ds.ID], *s)
	cur.RecordPractice(*s)
	cur.UpdatedAt = ds.UpdatedAt
	*ds = *cloneDogSkill(cur)
	return nil
}

func (r *TrainingRepo) ListSessions(_ context.Context, dogSkillID uuid.UUID, limit, offset int) ([]*training.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.Sessions[dogSkillID]
	out := make([]*training.Session, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		s := all[i]
		out = append(out, &s)
	}
	return page(out, limit, offset), nil
}

func (r *TrainingRepo) AllSessions(_ context.Context, dogSkillID uuid.UUID) ([]training.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]training.Session{}, r.Sessions[dogSkillID]...), nil
}

type RequirementCache struct {
	mu     sync.Mutex
	reqs   []training.Requirement
	loaded bool
	Sets   int
}

func NewRequirementCache() *RequirementCache { return &RequirementCache{} }

func (c *RequirementCache) GetRequirements(_ context.Context) ([]training.Requirement, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return nil, false, nil
	}
	return append([]training.Requirement{}, c.reqs...), true, nil
}

func (c *RequirementCache) SetRequirements(_ context.Context, reqs []training.Requirement, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqs = append([]training.Requirement{}, reqs...)
	c.loaded = true
	c.Sets++
	return nil
}

type LifestyleRepo struct {
	mu       sync.Mutex
	Profiles map[uuid.UUID]*lifestyle.Profile
}

func NewLifestyleRepo() *LifestyleRepo {
	return &LifestyleRepo{Profiles: map[uuid.UUID]*lifestyle.Profile{}}
}

func (r *LifestyleRepo) GetByOwnerID(_ context.Context, ownerID uuid.UUID) (*lifestyle.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.Profiles[ownerID]; ok {
		cp := *p
		return &cp, nil
	}
	return lifestyle.Empty(ownerID), nil
}

func (r *LifestyleRepo) Upsert(_ context.Context, p *lifestyle.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.Profiles[p.OwnerID] = &cp
	return nil
}

type CertificateRepo struct {
	mu    sync.Mutex
	Certs map[uuid.UUID]*certificate.Certificate
}

func NewCertificateRepo() *CertificateRepo {
	return &CertificateRepo{Certs: map[uuid.UUID]*certificate.Certificate{}}
}

func (r *CertificateRepo) Save(_ context.Context, c *certificate.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.Certs[c.ID] = &cp
	return nil
}

func (r *CertificateRepo) Update(_ context.Context, c *certificate.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Certs[c.ID]; !ok || cur.OwnerID != c.OwnerID {
		return apperror.NewNotFound("certificate", c.ID.String())
	}
	cp := *c
	r.Certs[c.ID] = &cp
	return nil
}

func (r *CertificateRepo) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Certs[id]; !ok || cur.OwnerID != ownerID {
		return apperror.NewNotFound("certificate", id.String())
	}
	delete(r.Certs, id)
	return nil
}

func (r *CertificateRepo) FindByID(_ context.Context, id, ownerID uuid.UUID) (*certificate.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.Certs[id]; ok && c.OwnerID == ownerID {
		cp := *c
		return &cp, nil
	}
	return nil, apperror.NewNotFound("certificate", id.String())
}

func (r *CertificateRepo) ListByDog(_ context.Context, dogID, ownerID uuid.UUID) ([]*certificate.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*certificate.Certificate, 0)
	for _, c := range r.Certs {
		if c.DogID == dogID && c.OwnerID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type ListingRepo struct {
	mu       sync.Mutex
	Listings map[uuid.UUID]*marketplace.Listing
}

func NewListingRepo() *ListingRepo {
	return &ListingRepo{Listings: map[uuid.UUID]*marketplace.Listing{}}
}

func (r *ListingRepo) Save(_ context.Context, l *marketplace.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.Listings[l.ID] = &cp
	return nil
}

func (r *ListingRepo) Update(_ context.Context, l *marketplace.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Listings[l.ID]; !ok || cur.SellerID != l.SellerID {
		return apperror.NewNotFound("listing", l.ID.String())
	}
	cp := *l
	r.Listings[l.ID] = &cp
	return nil
}

func (r *ListingRepo) Delete(_ context.Context, id, sellerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Listings[id]; !ok || cur.SellerID != sellerID {
		return apperror.NewNotFound("listing", id.String())
	}
	delete(r.Listings, id)
	return nil
}

func (r *ListingRepo) FindByID(_ context.Context, id, sellerID uuid.UUID) (*marketplace.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.Listings[id]; ok && l.SellerID == sellerID {
		cp := *l
		return &cp, nil
	}
	return nil, apperror.NewNotFound("listing", id.String())
}

func (r *ListingRepo) filter(keep func(*marketplace.Listing) bool) []*marketplace.Listing {
	out := make([]*marketplace.Listing, 0)
	for _, l := range r.Listings {
		if keep(l) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *ListingRepo) ListBySeller(_ context.Context, sellerID uuid.UUID, limit, offset int) ([]*marketplace.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.filter(func(l *marketplace.Listing) bool { return l.SellerID == sellerID }), limit, offset), nil
}

func (r *ListingRepo) ListPublicByCategory(_ context.Context, category string, limit, offset int) ([]*marketplace.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.filter(func(l *marketplace.Listing) bool {
		return l.IsPublic && l.Status == marketplace.StatusActive && (category == "" || l.Category == category)
	}), limit, offset), nil
}

// SearchPublic matches the query as a case-insensitive substring of title or description.
func (r *ListingRepo) SearchPublic(_ context.Context, query string, limit int) ([]marketplace.SearchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	matches := r.filter(func(l *marketplace.Listing) bool {
		return l.IsPublic && l.Status == marketplace.StatusActive &&
			(strings.Contains(strings.ToLower(l.Title), q) || strings.Contains(strings.ToLower(l.Description), q))
	})
	out := make([]marketplace.SearchResult, 0, len(matches))
	for _, l := range page(matches, limit, 0) {
		out = append(out, marketplace.SearchResult{Listing: l, Snippet: l.Description, Rank: 1})
	}
	return out, nil
}

type InsightCache struct {
	mu      sync.Mutex
	Items   map[string]*insight.Insight
	Evicted []uuid.UUID
}

func NewInsightCache() *InsightCache { return &InsightCache{Items: map[string]*insight.Insight{}} }

func insightKey(subjectID uuid.UUID, kind insight.Kind) string {
	return subjectID.String() + ":" + string(kind)
}

func (c *InsightCache) Get(_ context.Context, subjectID uuid.UUID, kind insight.Kind) (*insight.Insight, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	in, ok := c.Items[insightKey(subjectID, kind)]
	if !ok {
		return nil, false, nil
	}
	cp := *in
	return &cp, true, nil
}

func (c *InsightCache) Set(_ context.Context, in *insight.Insight, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *in
	c.Items[insightKey(in.SubjectID, in.Kind)] = &cp
	return nil
}

func (c *InsightCache) Evict(_ context.Context, subjectID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.Items {
		if strings.HasPrefix(k, subjectID.String()+":") {
			delete(c.Items, k)
		}
	}
	c.Evicted = append(c.Evicted, subjectID)
	return nil
}

type EventPublisher struct {
	mu                sync.Mutex
	CertificateEvents []service.CertificateEventPayload
	DogEvents         []service.DogEventPayload
	Err               error
}

func NewEventPublisher() *EventPublisher { return &EventPublisher{} }

func (p *EventPublisher) PublishCertificateEvent(_ context.Context, e service.CertificateEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.CertificateEvents = append(p.CertificateEvents, e)
	return nil
}

func (p *EventPublisher) PublishDogEvent(_ context.Context, e service.DogEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.DogEvents = append(p.DogEvents, e)
	return nil
}

// LLM records every prompt and answers with Reply or Err.
type LLM struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Prompts [][]service.Message
}

func (l *LLM) Complete(_ context.Context, messages []service.Message) (*service.Completion, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Prompts = append(l.Prompts, append([]service.Message{}, messages...))
	if l.Err != nil {
		return nil, l.Err
	}
	return &service.Completion{Content: l.Reply, Model: "fake-model"}, nil
}

func (l *LLM) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Prompts)
}

type Uploader struct {
	mu       sync.Mutex
	Uploaded map[string][]byte
	Deleted  []string
	Err      error
	ThumbErr error
}

func NewUploader() *Uploader { return &Uploader{Uploaded: map[string][]byte{}} }

func (u *Uploader) Upload(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	if u.Err != nil {
		return "", u.Err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	key := publicID
	if folder != "" {
		key = folder + "/" + publicID
	}
	u.mu.Lock()
	u.Uploaded[key] = data
	u.mu.Unlock()
	return "https://cdn.test/" + key, nil
}

func (u *Uploader) Delete(_ context.Context, publicID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Deleted = append(u.Deleted, publicID)
	return nil
}

func (u *Uploader) ThumbnailURL(publicID string) (string, error) {
	if u.ThumbErr != nil {
		return "", u.ThumbErr
	}
	return "https://cdn.test/thumb/" + publicID, nil
}

type Geocoder struct {
	Result *service.GeoResult
	Err    error
}

func (g *Geocoder) Geocode(_ context.Context, _ string) (*service.GeoResult, error) {
	return g.Result, g.Err
}
