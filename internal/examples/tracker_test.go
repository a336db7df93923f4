package examples_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
	"github.com/fjglira/GoRef-SiteGen/internal/examples"
)

func workItems(names ...string) []domain.WorkItem {
	out := make([]domain.WorkItem, 0, len(names))
	for _, n := range names {
		out = append(out, domain.WorkItem{Name: n})
	}
	return out
}

var _ = Describe("Tracker", func() {
	var t *examples.Tracker

	BeforeEach(func() {
		log, _ := test.NewNullLogger()
		t = examples.NewTracker(0, workItems("A", "B", "C"), log)
	})

	feed := func(lines ...string) {
		for _, l := range lines {
			t.Handle(examples.ParseLine(l))
		}
	}

	It("should attribute results to the running item", func() {
		feed(":RUNNING:A", ":SUCCESS:", ":RUNNING:B", ":FAILURE:")
		Expect(t.State("A")).To(Equal(examples.StateSucceeded))
		Expect(t.State("B")).To(Equal(examples.StateFailed))
		Expect(t.State("C")).To(Equal(examples.StatePending))
	})

	It("should not treat log lines as results", func() {
		feed(":RUNNING:A", "drawing...", "done")
		Expect(t.State("A")).To(Equal(examples.StateRunning))
	})

	It("should fail the running and pending items when the worker exits", func() {
		feed(":RUNNING:A", ":SUCCESS:", ":RUNNING:B")
		t.Finish(errors.New("exit status 1"))
		Expect(t.Succeeded()).To(Equal([]string{"A"}))
		Expect(t.Failed()).To(Equal([]string{"B", "C"}))
	})

	It("should add a synthetic failure for a clean exit with no results", func() {
		t.Finish(nil)
		Expect(t.Succeeded()).To(BeEmpty())
		Expect(t.Failed()).To(ContainElement("worker-0"))
		Expect(t.Failed()).To(HaveLen(4))
	})

	It("should not add a synthetic failure when results were reported", func() {
		feed(":RUNNING:A", ":SUCCESS:", ":RUNNING:B", ":SUCCESS:", ":RUNNING:C", ":SUCCESS:")
		t.Finish(nil)
		Expect(t.Succeeded()).To(Equal([]string{"A", "B", "C"}))
		Expect(t.Failed()).To(BeEmpty())
	})

	It("should fail an item that never reported before the next started", func() {
		feed(":RUNNING:A", ":RUNNING:B", ":SUCCESS:")
		Expect(t.State("A")).To(Equal(examples.StateFailed))
		Expect(t.State("B")).To(Equal(examples.StateSucceeded))
	})

	It("should ignore unknown and repeated names", func() {
		feed(":RUNNING:Z", ":SUCCESS:", ":RUNNING:A", ":SUCCESS:", ":RUNNING:A", ":FAILURE:")
		Expect(t.State("A")).To(Equal(examples.StateSucceeded))
	})

	It("should ignore a result with nothing running", func() {
		feed(":SUCCESS:")
		Expect(t.Succeeded()).To(BeEmpty())
	})
})
