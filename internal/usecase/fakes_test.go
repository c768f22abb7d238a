package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/domain/repository"
	"github.com/annotation-microservice/internal/pkg/errors"
)

// In-memory fakes for the repository interfaces. They hold fixtures in
// maps and record calls where a test needs to assert on them.

type fakePropertyRepo struct {
	terms  map[string]int64
	vocabs map[string]*domain.CustomVocab

	mu       sync.Mutex
	resolved []string
}

func (f *fakePropertyRepo) ResolvePropertyID(ctx context.Context, term string) (int64, error) {
	f.mu.Lock()
	f.resolved = append(f.resolved, term)
	f.mu.Unlock()
	return f.terms[term], nil
}

func (f *fakePropertyRepo) GetCustomVocab(ctx context.Context, ref string) (*domain.CustomVocab, error) {
	v, ok := f.vocabs[ref]
	if !ok {
		return nil, errors.ErrVocabularyNotFound
	}
	return v, nil
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, key)
	return nil
}

type fakeTemplateRepo struct {
	templates map[int64]*domain.Template
}

func (f *fakeTemplateRepo) GetTemplate(ctx context.Context, id int64) (*domain.Template, error) {
	tpl, ok := f.templates[id]
	if !ok {
		return nil, errors.ErrTemplateNotFound
	}
	return tpl, nil
}

func (f *fakeTemplateRepo) ListTemplates(ctx context.Context, ids []int64) ([]*domain.Template, error) {
	out := make([]*domain.Template, 0, len(ids))
	for _, id := range ids {
		if tpl, ok := f.templates[id]; ok {
			out = append(out, tpl)
		}
	}
	return out, nil
}

type fakeResourceRepo struct {
	resources map[int64]*domain.Resource
	media     map[int64]*domain.Media
}

func (f *fakeResourceRepo) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	r, ok := f.resources[id]
	if !ok {
		return nil, errors.ErrResourceNotFound
	}
	return r, nil
}

func (f *fakeResourceRepo) GetMedia(ctx context.Context, id int64) (*domain.Media, error) {
	m, ok := f.media[id]
	if !ok {
		return nil, errors.ErrMediaNotFound
	}
	return m, nil
}

type fakeAnnotationRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*domain.Annotation

	lastSearch domain.SpatialQuery
}

func newFakeAnnotationRepo() *fakeAnnotationRepo {
	return &fakeAnnotationRepo{nextID: 1, items: make(map[int64]*domain.Annotation)}
}

func (f *fakeAnnotationRepo) GetByID(ctx context.Context, id int64) (*domain.Annotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ann, ok := f.items[id]
	if !ok {
		return nil, errors.ErrAnnotationNotFound
	}
	return ann, nil
}

func (f *fakeAnnotationRepo) ListByResource(ctx context.Context, resourceID int64) ([]*domain.Annotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Annotation
	for _, ann := range f.items {
		if ann.Target.ResourceID == resourceID {
			out = append(out, ann)
		}
	}
	return out, nil
}

func (f *fakeAnnotationRepo) Search(ctx context.Context, query domain.SpatialQuery) ([]*domain.Annotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSearch = query
	out := make([]*domain.Annotation, 0, len(f.items))
	for _, ann := range f.items {
		out = append(out, ann)
	}
	return out, nil
}

func (f *fakeAnnotationRepo) Create(ctx context.Context, ann *domain.Annotation) (*domain.Annotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := *ann
	saved.ID = f.nextID
	f.nextID++
	saved.Created = time.Now()
	saved.Modified = saved.Created
	f.items[saved.ID] = &saved
	return &saved, nil
}

func (f *fakeAnnotationRepo) Update(ctx context.Context, ann *domain.Annotation) (*domain.Annotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[ann.ID]; !ok {
		return nil, errors.ErrAnnotationNotFound
	}
	saved := *ann
	saved.Modified = time.Now()
	f.items[saved.ID] = &saved
	return &saved, nil
}

func (f *fakeAnnotationRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return errors.ErrAnnotationNotFound
	}
	delete(f.items, id)
	return nil
}

var _ repository.PropertyRepository = (*fakePropertyRepo)(nil)
var _ repository.CacheRepository = (*fakeCache)(nil)
var _ repository.TemplateRepository = (*fakeTemplateRepo)(nil)
var _ repository.ResourceRepository = (*fakeResourceRepo)(nil)
var _ repository.AnnotationRepository = (*fakeAnnotationRepo)(nil)
