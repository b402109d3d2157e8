package event_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/amala-code/new-admin-backend/internal"
	contentdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/content"
	"github.com/amala-code/new-admin-backend/internal/event"
)

func TestEvent(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Event Suite")
}

type mockEventRepo struct {
	events []contentdm.Event
}

func (m *mockEventRepo) Insert(ctx context.Context, e *contentdm.Event) error {
	e.ID = int64(len(m.events) + 1)
	m.events = append(m.events, *e)
	return nil
}

func (m *mockEventRepo) List(ctx context.Context) ([]contentdm.Event, error) {
	return m.events, nil
}

func (m *mockEventRepo) FindByPublicID(ctx context.Context, publicID string) (*contentdm.Event, error) {
	for i := range m.events {
		if m.events[i].PublicID == publicID {
			return &m.events[i], nil
		}
	}
	return nil, event.ErrEventNotFound
}

func (m *mockEventRepo) DeleteByPublicID(ctx context.Context, publicID string) error {
	for i := range m.events {
		if m.events[i].PublicID == publicID {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return event.ErrEventNotFound
}

var _ = Describe("EventService", func() {
	var (
		svc      *event.Service
		repo     *mockEventRepo
		imageDir string
		ctx      context.Context
	)

	BeforeEach(func() {
		repo = &mockEventRepo{}
		imageDir = GinkgoT().TempDir()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = event.NewService(repo, imageDir, logger)
		ctx = context.Background()
	})

	It("creates an event with a generated public id", func() {
		e, err := svc.CreateEvent(ctx, event.CreateEventInput{
			Title:    "Annual Meet",
			DateTime: "2026-09-01 10:00",
			Location: "Community Hall",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(e.PublicID).NotTo(BeEmpty())
		Expect(repo.events).To(HaveLen(1))
	})

	It("defaults the category when omitted", func() {
		e, err := svc.CreateEvent(ctx, event.CreateEventInput{Title: "Annual Meet"})
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Category).To(Equal(event.DefaultCategory))
	})

	It("keeps an explicit category", func() {
		e, err := svc.CreateEvent(ctx, event.CreateEventInput{Title: "Cleanup Drive", Category: "Service"})
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Category).To(Equal("Service"))
	})

	It("rejects an event without a title", func() {
		_, err := svc.CreateEvent(ctx, event.CreateEventInput{Location: "Hall"})
		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))
	})

	It("writes the attached image into the image directory", func() {
		e, err := svc.CreateEvent(ctx, event.CreateEventInput{
			Title: "Annual Meet",
			Image: &event.ImageUpload{
				Filename: "poster.png",
				Content:  strings.NewReader("png bytes"),
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Image).To(HaveSuffix(".png"))

		data, err := os.ReadFile(filepath.FromSlash(e.Image))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("png bytes"))
	})

	It("deletes an event by public id", func() {
		e, err := svc.CreateEvent(ctx, event.CreateEventInput{Title: "Annual Meet"})
		Expect(err).NotTo(HaveOccurred())

		Expect(svc.DeleteEvent(ctx, e.PublicID)).To(Succeed())
		Expect(repo.events).To(BeEmpty())
	})

	It("reports a missing event as not found", func() {
		err := svc.DeleteEvent(ctx, "nope")
		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(404))
	})
})
