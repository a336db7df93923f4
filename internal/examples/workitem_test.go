package examples_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
	"github.com/fjglira/GoRef-SiteGen/internal/examples"
)

var _ = Describe("Planner", func() {
	var (
		planner examples.Planner
		items   []*domain.ReferenceItem
	)

	BeforeEach(func() {
		dir := GinkgoT().TempDir()
		planner = examples.Planner{
			ScratchDir: filepath.Join(dir, "scratch"),
			ImagesDir:  filepath.Join(dir, "images"),
			ScriptExt:  ".py",
			ImageExt:   ".png",
		}
		items = []*domain.ReferenceItem{
			{Identifier: "ellipse", Examples: []*domain.Example{
				{Index: 0, Code: "\nellipse(1, 2, 3, 4)", Run: true, WantImage: true},
				{Index: 1, Code: "\nsize(400, 400)", Run: false},
			}},
			{Identifier: "fill", Examples: []*domain.Example{
				{Index: 0, Code: "\nfill(153)", Run: true},
			}},
		}
	})

	It("should write a script per runnable example", func() {
		work, err := planner.Plan(items)
		Expect(err).ToNot(HaveOccurred())
		Expect(work).To(HaveLen(2))

		Expect(work[0].Name).To(Equal("ellipse_0"))
		Expect(work[0].ScriptPath).To(Equal(filepath.Join(planner.ScratchDir, "ellipse_0.py")))
		Expect(work[0].ImagePath).To(Equal(filepath.Join(planner.ImagesDir, "ellipse_0.png")))
		Expect(work[1].Name).To(Equal("fill_0"))

		content, err := os.ReadFile(work[0].ScriptPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal("\nellipse(1, 2, 3, 4)\n"))
		Expect(planner.ImagesDir).To(BeADirectory())
	})

	It("should not write scripts for examples that never run", func() {
		_, err := planner.Plan(items)
		Expect(err).ToNot(HaveOccurred())
		Expect(filepath.Join(planner.ScratchDir, "ellipse_1.py")).ToNot(BeAnExistingFile())
	})
})

var _ = Describe("Partition", func() {
	It("should assign work round-robin", func() {
		parts := examples.Partition(workItems("a", "b", "c", "d", "e"), 2)
		Expect(parts).To(HaveLen(2))
		Expect(parts[0]).To(Equal(workItems("a", "c", "e")))
		Expect(parts[1]).To(Equal(workItems("b", "d")))
	})

	It("should drop empty partitions", func() {
		parts := examples.Partition(workItems("a", "b"), 4)
		Expect(parts).To(HaveLen(2))
	})

	It("should treat a non-positive count as one worker", func() {
		Expect(examples.Partition(workItems("a", "b"), 0)).To(HaveLen(1))
	})
})

var _ = Describe("Triple", func() {
	It("should join name, script and image", func() {
		w := domain.WorkItem{Name: "fill_0", ScriptPath: "/tmp/fill_0.py", ImagePath: "out/images/fill_0.png"}
		Expect(examples.Triple(w)).To(Equal("fill_0:/tmp/fill_0.py:out/images/fill_0.png"))
	})
})
