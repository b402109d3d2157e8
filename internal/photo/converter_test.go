package photo_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	contentdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/content"
	"github.com/amala-code/new-admin-backend/internal/photo"
)

func TestPhoto(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Photo Suite")
}

func pngBytes() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

type mockPhotoRepo struct {
	photos    []contentdm.Photo
	insertErr error
}

func (m *mockPhotoRepo) Insert(ctx context.Context, p *contentdm.Photo) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	p.ID = int64(len(m.photos) + 1)
	m.photos = append(m.photos, *p)
	return nil
}

func (m *mockPhotoRepo) ListLatest(ctx context.Context, limit int) ([]contentdm.Photo, error) {
	out := make([]contentdm.Photo, 0, limit)
	for i := len(m.photos) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.photos[i])
	}
	return out, nil
}

var _ = Describe("Converter", func() {
	var (
		converter *photo.Converter
		outputDir string
		logger    *slog.Logger
	)

	BeforeEach(func() {
		outputDir = GinkgoT().TempDir()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		converter = photo.NewConverter(photo.ConverterConfig{
			OutputDir:  outputDir,
			MaxWorkers: 2,
		}, logger)
	})

	AfterEach(func() {
		converter.Shutdown()
	})

	It("re-encodes a PNG upload as JPEG", func() {
		resultCh, err := converter.Enqueue("photo.png", pngBytes())
		Expect(err).NotTo(HaveOccurred())

		res := <-resultCh
		Expect(res.Err).NotTo(HaveOccurred())
		Expect(res.OutputName).To(HaveSuffix(".jpg"))

		f, err := os.Open(filepath.Join(outputDir, res.OutputName))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		decoded, err := jpeg.Decode(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Bounds().Dx()).To(Equal(8))
	})

	It("reports a decode failure for non-image data", func() {
		resultCh, err := converter.Enqueue("garbage.bin", []byte("not an image"))
		Expect(err).NotTo(HaveOccurred())

		res := <-resultCh
		Expect(res.Err).To(HaveOccurred())
		Expect(res.OutputName).To(BeEmpty())
	})

	It("waits for the dispatcher when shut down right after start", func() {
		fresh := photo.NewConverter(photo.ConverterConfig{
			OutputDir:  GinkgoT().TempDir(),
			MaxWorkers: 2,
		}, logger)

		done := make(chan struct{})
		go func() {
			fresh.Shutdown()
			close(done)
		}()
		Eventually(done).Should(BeClosed())
	})

	It("converts a batch concurrently", func() {
		data := pngBytes()
		channels := make([]chan photo.ConvertResult, 0, 10)
		for i := 0; i < 10; i++ {
			ch, err := converter.Enqueue("batch.png", data)
			Expect(err).NotTo(HaveOccurred())
			channels = append(channels, ch)
		}

		for _, ch := range channels {
			res := <-ch
			Expect(res.Err).NotTo(HaveOccurred())
		}

		entries, err := os.ReadDir(outputDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(10))
	})
})

var _ = Describe("PhotoService", func() {
	var (
		svc       *photo.Service
		repo      *mockPhotoRepo
		converter *photo.Converter
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = &mockPhotoRepo{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		converter = photo.NewConverter(photo.ConverterConfig{
			OutputDir:  GinkgoT().TempDir(),
			MaxWorkers: 2,
		}, logger)
		svc = photo.NewService(repo, converter, "/public/images", logger)
		ctx = context.Background()
	})

	AfterEach(func() {
		converter.Shutdown()
	})

	It("stores a gallery row per converted upload", func() {
		results := svc.UploadImages(ctx, []photo.Upload{
			{Filename: "a.png", ContentType: "image/png", Data: pngBytes()},
			{Filename: "b.png", ContentType: "image/png", Data: pngBytes()},
		})

		Expect(results).To(HaveLen(2))
		for _, res := range results {
			Expect(res.Status).To(Equal("uploaded"))
			Expect(res.URL).To(HavePrefix("/public/images/"))
		}
		Expect(repo.photos).To(HaveLen(2))
	})

	It("rejects non-image content types without failing the batch", func() {
		results := svc.UploadImages(ctx, []photo.Upload{
			{Filename: "a.png", ContentType: "image/png", Data: pngBytes()},
			{Filename: "doc.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
		})

		Expect(results).To(HaveLen(2))
		byName := map[string]photo.UploadResult{}
		for _, res := range results {
			byName[res.Filename] = res
		}
		Expect(byName["a.png"].Status).To(Equal("uploaded"))
		Expect(byName["doc.pdf"].Status).To(Equal("failed"))
		Expect(repo.photos).To(HaveLen(1))
	})

	It("reports a corrupt image as failed while the rest succeed", func() {
		results := svc.UploadImages(ctx, []photo.Upload{
			{Filename: "ok.png", ContentType: "image/png", Data: pngBytes()},
			{Filename: "broken.png", ContentType: "image/png", Data: []byte("broken")},
		})

		byName := map[string]photo.UploadResult{}
		for _, res := range results {
			byName[res.Filename] = res
		}
		Expect(byName["ok.png"].Status).To(Equal("uploaded"))
		Expect(byName["broken.png"].Status).To(Equal("failed"))
	})

	It("lists latest photos first with the default limit", func() {
		for i := 0; i < 3; i++ {
			svc.UploadImages(ctx, []photo.Upload{
				{Filename: "p.png", ContentType: "image/png", Data: pngBytes()},
			})
		}

		photos, err := svc.ListPhotos(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(photos).To(HaveLen(3))
		Expect(photos[0].ID).To(Equal(int64(3)))
	})
})
