package parser_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
	"github.com/fjglira/GoRef-SiteGen/internal/parser"
)

func parseFixture(p *parser.ReferenceParser, id string) (*domain.ReferenceItem, error) {
	path := filepath.Join("..", "..", "testdata", "reference", id+".xml")
	content, err := os.ReadFile(path)
	Expect(err).ToNot(HaveOccurred())
	return p.Parse(id, path, content)
}

var _ = Describe("ReferenceParser", func() {
	var (
		p    *parser.ReferenceParser
		hook *test.Hook
	)

	BeforeEach(func() {
		var log *logrus.Logger
		log, hook = test.NewNullLogger()
		p = parser.NewReferenceParser(log)
	})

	It("should read the textual fields", func() {
		item, err := parseFixture(p, "ellipse")
		Expect(err).ToNot(HaveOccurred())
		Expect(item.Identifier).To(Equal("ellipse"))
		Expect(item.Name).To(Equal("ellipse()"))
		Expect(item.Category).To(Equal("Shape"))
		Expect(item.Subcategory).To(Equal("2D Primitives"))
		Expect(item.Type).To(Equal("Function"))
		Expect(item.Usage).To(Equal("Web & Application"))
		Expect(item.Description).ToNot(BeNil())
		Expect(item.Syntax).ToNot(BeNil())
	})

	It("should read examples with their image and run flags", func() {
		item, err := parseFixture(p, "ellipse")
		Expect(err).ToNot(HaveOccurred())
		Expect(item.Examples).To(HaveLen(2))

		Expect(item.Examples[0].Index).To(Equal(0))
		Expect(item.Examples[0].Code).To(Equal("\nellipse(56, 46, 55, 55);"))
		Expect(item.Examples[0].WantImage).To(BeTrue())
		Expect(item.Examples[0].Run).To(BeTrue())

		Expect(item.Examples[1].Index).To(Equal(1))
		Expect(item.Examples[1].WantImage).To(BeFalse())
		Expect(item.Examples[1].Run).To(BeFalse())
	})

	It("should read parameters", func() {
		item, err := parseFixture(p, "ellipse")
		Expect(err).ToNot(HaveOccurred())
		Expect(item.Parameters).To(HaveLen(2))
		Expect(item.Parameters[0].Label).To(Equal("a"))
		Expect(item.Parameters[1].Label).To(Equal("b"))
		Expect(item.Parameters[1].Description.InnerText()).To(Equal("y-coordinate of the ellipse"))
	})

	It("should read repeated related elements", func() {
		item, err := parseFixture(p, "ellipse")
		Expect(err).ToNot(HaveOccurred())
		Expect(item.Related).To(Equal([]string{"fill", "PVector"}))
	})

	It("should read related elements holding refs", func() {
		item, err := parseFixture(p, "fill")
		Expect(err).ToNot(HaveOccurred())
		Expect(item.Related).To(Equal([]string{"ellipse"}))
	})

	It("should read methods and constructors", func() {
		item, err := parseFixture(p, "PVector")
		Expect(err).ToNot(HaveOccurred())
		Expect(item.Methods).To(HaveLen(1))
		Expect(item.Methods[0].Label).To(Equal("add()"))
		Expect(item.Methods[0].Target).To(Equal("PVector_add"))
		Expect(item.Constructors).To(Equal([]string{"PVector()", "PVector(x, y)"}))
	})

	It("should read an empty element as an empty string and warn", func() {
		item, err := parseFixture(p, "PVector")
		Expect(err).ToNot(HaveOccurred())
		Expect(item.Subcategory).To(BeEmpty())

		var warned bool
		for _, e := range hook.AllEntries() {
			if e.Level == logrus.WarnLevel && e.Data["document"] != nil {
				warned = true
			}
		}
		Expect(warned).To(BeTrue())
	})

	It("should leave absent elements unset", func() {
		item, err := p.Parse("bare", "bare.xml", []byte("<root><name>bare</name></root>"))
		Expect(err).ToNot(HaveOccurred())
		Expect(item.Description).To(BeNil())
		Expect(item.Syntax).To(BeNil())
		Expect(item.Examples).To(BeEmpty())
		Expect(item.Related).To(BeEmpty())
		Expect(item.Category).To(BeEmpty())
	})

	It("should reject malformed XML with a parse error", func() {
		path := filepath.Join("..", "..", "testdata", "malformed", "corrupt.xml")
		content, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())

		_, err = p.Parse("corrupt", path, content)
		Expect(err).To(HaveOccurred())

		var sgErr *domain.SiteGenError
		Expect(err).To(BeAssignableToTypeOf(sgErr))
		sgErr = err.(*domain.SiteGenError)
		Expect(sgErr.Phase).To(Equal("parse"))
		Expect(sgErr.File).To(Equal(path))
	})
})
