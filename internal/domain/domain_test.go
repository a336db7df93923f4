package domain_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

var _ = Describe("SiteGenError", func() {
	It("should format phase, file, line and cause", func() {
		err := domain.NewError("parse", "fill.xml", 12, "unexpected element", errors.New("boom"))
		Expect(err.Error()).To(Equal("[parse] fill.xml:12: unexpected element: boom"))
	})

	It("should include the suggestion", func() {
		err := domain.NewErrorWithSuggestion("config", "", 0, "bad value", "use a number", nil)
		Expect(err.Error()).To(Equal("[config]: bad value (hint: use a number)"))
	})

	It("should unwrap to its cause", func() {
		cause := &domain.LookupError{Identifier: "rect"}
		err := fmt.Errorf("rendering: %w", domain.NewError("render", "x.xml", 0, "lookup failed", cause))
		Expect(domain.IsLookupError(err)).To(BeTrue())
		Expect(domain.IsLookupError(errors.New("other"))).To(BeFalse())
	})
})

var _ = Describe("ReferenceItem", func() {
	It("should prefer the name for display", func() {
		Expect((&domain.ReferenceItem{Identifier: "fill", Name: "fill()"}).DisplayName()).To(Equal("fill()"))
		Expect((&domain.ReferenceItem{Identifier: "fill"}).DisplayName()).To(Equal("fill"))
	})
})

var _ = Describe("RefTarget", func() {
	parseRef := func(s string) *xmlquery.Node {
		doc, err := xmlquery.Parse(strings.NewReader(s))
		Expect(err).ToNot(HaveOccurred())
		return xmlquery.FindOne(doc, "//ref")
	}

	It("should use the text of the ref", func() {
		Expect(domain.RefTarget(parseRef("<ref> fill </ref>"))).To(Equal("fill"))
	})

	It("should prefer the target attribute", func() {
		Expect(domain.RefTarget(parseRef(`<ref target="PVector">vector class</ref>`))).To(Equal("PVector"))
	})
})
