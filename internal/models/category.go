package models

// Category is one of the five fixed feedback subjects.
type Category string

const (
	CategoryRestaurant  Category = "Restaurant"
	CategoryHotel       Category = "Hotel"
	CategoryProduct     Category = "Product"
	CategoryMall        Category = "Mall"
	CategoryInstitution Category = "Institution"
)

// Categories lists every category in declaration order. Reports keep this order.
var Categories = []Category{
	CategoryRestaurant,
	CategoryHotel,
	CategoryProduct,
	CategoryMall,
	CategoryInstitution,
}

// Index returns the position of c in Categories, or -1 when c is not recognized.
func (c Category) Index() int {
	for i, known := range Categories {
		if c == known {
			return i
		}
	}
	return -1
}

func (c Category) Valid() bool {
	return c.Index() >= 0
}

func (c Category) String() string {
	return string(c)
}
