package generator

import (
	"sort"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
	"github.com/fjglira/GoRef-SiteGen/internal/registry"
	tmpl "github.com/fjglira/GoRef-SiteGen/internal/template"
)

// groupByCategory builds the index layout for the given identifiers:
// categories and subcategories sorted by name, items by display name.
func groupByCategory(reg *registry.Registry, ids []string) []tmpl.Category {
	byCategory := make(map[string]map[string][]*domain.ReferenceItem)
	for _, id := range ids {
		item, err := reg.Lookup(id)
		if err != nil {
			continue
		}
		subs, ok := byCategory[item.Category]
		if !ok {
			subs = make(map[string][]*domain.ReferenceItem)
			byCategory[item.Category] = subs
		}
		subs[item.Subcategory] = append(subs[item.Subcategory], item)
	}

	categories := make([]tmpl.Category, 0, len(byCategory))
	for _, name := range sortedKeys(byCategory) {
		cat := tmpl.Category{Name: name}
		subs := byCategory[name]
		for _, subName := range sortedKeys(subs) {
			items := subs[subName]
			sort.SliceStable(items, func(i, j int) bool {
				return items[i].DisplayName() < items[j].DisplayName()
			})
			cat.Subcategories = append(cat.Subcategories, tmpl.Subcategory{Name: subName, Items: items})
		}
		categories = append(categories, cat)
	}
	return categories
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
