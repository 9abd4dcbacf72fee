package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"mindconnect/config"
	"mindconnect/internal/domain"
	"mindconnect/internal/mailer"
	"mindconnect/internal/repository"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg mailer.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, msg)
	return fmt.Sprintf("msg-%d", len(m.sent)), nil
}

func (m *fakeMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.AnalyticsEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.AnalyticsEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(t domain.EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, e := range p.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type fakeStorage struct {
	mu       sync.Mutex
	uploads  int
	deleted  []string
	uploadFn func(data []byte) error
}

func (s *fakeStorage) UploadImage(ctx context.Context, data []byte, filename, folder string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploadFn != nil {
		if err := s.uploadFn(data); err != nil {
			return "", err
		}
	}
	s.uploads++
	return fmt.Sprintf("https://cdn.test/%s/%d-%s", folder, s.uploads, filename), nil
}

func (s *fakeStorage) DeleteImage(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	return nil
}

type testEnv struct {
	repos     *repository.Repositories
	services  *Services
	mailer    *fakeMailer
	publisher *recordingPublisher
	storage   *fakeStorage
}

func testConfig() *config.Config {
	return &config.Config{
		Directory: config.DirectoryConfig{
			PageSize:      12,
			FeaturedLimit: 8,
		},
		JWT: config.JWTConfig{
			SigningKey:     "test-signing-key",
			AccessTokenTTL: time.Hour,
		},
		Mail: config.MailConfig{
			From:  "no-reply@test.local",
			Inbox: "hello@test.local",
		},
	}
}

// newTestEnv wires every service over seeded in-memory repositories.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repos := repository.NewMemoryRepositories()
	if err := repository.Seed(context.Background(), repos, zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	env := &testEnv{
		repos:     repos,
		mailer:    &fakeMailer{},
		publisher: &recordingPublisher{},
		storage:   &fakeStorage{},
	}
	env.services = NewServices(Deps{
		Repos:     repos,
		Publisher: env.publisher,
		Mailer:    env.mailer,
		Storage:   env.storage,
		Logger:    zap.NewNop(),
		Config:    testConfig(),
	})
	return env
}

// storedEvents lists recorded events of the given types.
func (e *testEnv) storedEvents(t *testing.T, types ...domain.EventType) []domain.AnalyticsEvent {
	t.Helper()

	events, err := e.repos.Analytics.List(context.Background(), domain.EventFilter{Types: types})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	return events
}

func ptr[T any](v T) *T {
	return &v
}
