package layout

import "keepsake-backend/internal/models"

type Kind string

const (
	KindCover    Kind = "cover"
	KindFeatured Kind = "featured"
	KindContent  Kind = "content"
	KindBack     Kind = "back"
)

// PageDescriptor is one physical output page. It is derived on every view
// and never stored.
type PageDescriptor struct {
	Number        int
	Kind          Kind
	Contributions []models.Contribution
	Weight        float64
}

// Describe expands a pagination result into the ordered page sequence:
// cover, featured, content pages, back.
func Describe(result Result) []PageDescriptor {
	pages := make([]PageDescriptor, 0, len(result.Pages)+3)
	pages = append(pages, PageDescriptor{Kind: KindCover})

	if result.Featured != nil {
		pages = append(pages, PageDescriptor{
			Kind:          KindFeatured,
			Contributions: []models.Contribution{*result.Featured},
		})
	}
	for _, p := range result.Pages {
		pages = append(pages, PageDescriptor{
			Kind:          KindContent,
			Contributions: p.Contributions,
			Weight:        p.Weight,
		})
	}
	pages = append(pages, PageDescriptor{Kind: KindBack})

	for i := range pages {
		pages[i].Number = i + 1
	}
	return pages
}

// Empty reports whether the layout holds no contributions at all, in which
// case callers render an empty state between cover and back.
func (r Result) Empty() bool {
	return r.Featured == nil
}
