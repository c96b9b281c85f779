package domain

// ProductChange is one admin edit to a product. The set of implementations is
// closed: only the types in this file can be passed to a product update.
type ProductChange interface {
	apply(p *Product) string
}

type SetName struct{ Name string }

type SetImage struct{ URL string }

type SetPrice struct{ Price int64 }

type SetSalePrice struct{ SalePrice int64 }

type SetStock struct{ Stock int64 }

type SetTags struct{ Tags []string }

type SetCategories struct{ CategoryIDs []uint64 }

func (c SetName) apply(p *Product) string       { p.Name = c.Name; return "name" }
func (c SetImage) apply(p *Product) string      { p.Image = c.URL; return "image" }
func (c SetPrice) apply(p *Product) string      { p.Price = c.Price; return "price" }
func (c SetSalePrice) apply(p *Product) string  { p.SalePrice = c.SalePrice; return "sale_price" }
func (c SetStock) apply(p *Product) string      { p.Stock = c.Stock; return "stock" }
func (c SetTags) apply(p *Product) string       { p.Tags = c.Tags; return "tags" }
func (c SetCategories) apply(p *Product) string { p.CategoryIDs = c.CategoryIDs; return "category_ids" }

// ApplyChanges applies changes in order to a copy of p and returns it together
// with the distinct columns that were touched.
func ApplyChanges(p Product, changes ...ProductChange) (Product, []string) {
	seen := make(map[string]struct{}, len(changes))
	columns := make([]string, 0, len(changes))
	for _, c := range changes {
		col := c.apply(&p)
		if _, ok := seen[col]; ok {
			continue
		}
		seen[col] = struct{}{}
		columns = append(columns, col)
	}
	return p, columns
}
