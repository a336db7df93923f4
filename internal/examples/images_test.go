package examples_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
	"github.com/fjglira/GoRef-SiteGen/internal/examples"
)

var _ = Describe("ImageDiscovery", func() {
	var (
		d         examples.ImageDiscovery
		imagesDir string
	)

	BeforeEach(func() {
		out := GinkgoT().TempDir()
		imagesDir = filepath.Join(out, "images")
		Expect(os.MkdirAll(imagesDir, 0755)).To(Succeed())
		log, _ := test.NewNullLogger()
		d = examples.ImageDiscovery{OutputDir: out, ImagesDir: "images", ImageExt: ".png", Log: log}
	})

	writeImage := func(name string) string {
		p := filepath.Join(imagesDir, name+".png")
		Expect(os.WriteFile(p, []byte("png"), 0644)).To(Succeed())
		return p
	}

	It("should link an image that is wanted and present", func() {
		writeImage("fill_0")
		ex := &domain.Example{Index: 0, WantImage: true, Run: true}
		report, err := d.Discover([]*domain.ReferenceItem{{Identifier: "fill", Examples: []*domain.Example{ex}}})
		Expect(err).ToNot(HaveOccurred())
		Expect(ex.ImagePath).To(Equal("images/fill_0.png"))
		Expect(ex.Broken).To(BeFalse())
		Expect(report.Found).To(Equal([]string{"fill_0"}))
	})

	It("should mark a wanted but missing image as broken", func() {
		ex := &domain.Example{Index: 0, WantImage: true, Run: true}
		report, err := d.Discover([]*domain.ReferenceItem{{Identifier: "fill", Examples: []*domain.Example{ex}}})
		Expect(err).ToNot(HaveOccurred())
		Expect(ex.Broken).To(BeTrue())
		Expect(ex.ImagePath).To(BeEmpty())
		Expect(report.Broken).To(Equal([]string{"fill_0"}))
	})

	It("should delete a stray image", func() {
		stray := writeImage("fill_1")
		ex := &domain.Example{Index: 1, WantImage: false, Run: true}
		report, err := d.Discover([]*domain.ReferenceItem{{Identifier: "fill", Examples: []*domain.Example{ex}}})
		Expect(err).ToNot(HaveOccurred())
		Expect(stray).ToNot(BeAnExistingFile())
		Expect(report.Removed).To(Equal([]string{"fill_1"}))
	})

	It("should delete a stray image of an example that never runs", func() {
		stray := writeImage("ellipse_1")
		ex := &domain.Example{Index: 1, WantImage: false, Run: false}
		report, err := d.Discover([]*domain.ReferenceItem{{Identifier: "ellipse", Examples: []*domain.Example{ex}}})
		Expect(err).ToNot(HaveOccurred())
		Expect(stray).ToNot(BeAnExistingFile())
		Expect(report.Removed).To(ConsistOf("ellipse_1"))
	})

	It("should reset annotations from a previous pass", func() {
		ex := &domain.Example{Index: 0, WantImage: true, Run: true, ImagePath: "images/old.png"}
		_, err := d.Discover([]*domain.ReferenceItem{{Identifier: "fill", Examples: []*domain.Example{ex}}})
		Expect(err).ToNot(HaveOccurred())
		Expect(ex.ImagePath).To(BeEmpty())
	})
})
