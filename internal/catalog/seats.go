package catalog

import "github.com/shopspring/decimal"

func opt(id, name, price string) Option {
	return Option{ID: id, Name: name, Price: decimal.RequireFromString(price)}
}

// Static seating catalogs. Colors are fetched from the backend; the rest
// ship with the storefront.
var (
	SeatTypes = MustNew(CategorySeatType, MultiSelect,
		opt("standard", "Standard", "0"),
		opt("bucket", "Bucket", "50"),
		opt("bench", "Bench", "35"),
		opt("captain", "Captain", "120"),
		opt("racing", "Racing", "180"),
	)

	ArmTypes = MustNew(CategoryArmType, SingleSelect,
		opt("fixed", "Fixed Arms", "25"),
		opt("flip-up", "Flip-Up Arms", "45"),
		opt("padded", "Padded Arms", "60"),
	)

	Materials = MustNew(CategoryMaterial, SingleSelect,
		opt("cloth", "Cloth", "0"),
		opt("vinyl", "Marine Vinyl", "40"),
		opt("leatherette", "Leatherette", "85"),
		opt("leather", "Genuine Leather", "220"),
		opt("alcantara", "Alcantara", "260"),
	)

	Stitching = MustNew(CategoryStitching, SingleSelect,
		opt("straight", "Straight", "0"),
		opt("double", "Double", "30"),
		opt("diamond", "Diamond", "75"),
		opt("honeycomb", "Honeycomb", "90"),
	)

	Recline = MustNew(CategoryRecline, SingleSelect,
		opt("fixed-back", "Fixed Back", "0"),
		opt("manual", "Manual Recline", "65"),
		opt("power", "Power Recline", "240"),
	)

	Headrests = MustNew(CategoryHeadrest, SingleSelect,
		opt("integrated", "Integrated", "0"),
		opt("adjustable", "Adjustable", "55"),
	)

	Heating = MustNew(CategoryHeating, SingleSelect,
		opt("heated", "Heated", "110"),
		opt("heated-cooled", "Heated & Cooled", "210"),
	)

	Lumbar = MustNew(CategoryLumbar, SingleSelect,
		opt("manual-lumbar", "Manual Lumbar", "45"),
		opt("power-lumbar", "Power Lumbar", "95"),
	)

	// DefaultColors is used until the backend color list resolves.
	DefaultColors = []Option{
		opt("black", "Black", "0"),
		opt("red", "Red", "0"),
		opt("tan", "Tan", "0"),
	}
)

// RegisterStatic registers every static seating catalog.
func RegisterStatic(r *Registry) {
	for _, c := range []*Catalog{SeatTypes, ArmTypes, Materials, Stitching, Recline, Headrests, Heating, Lumbar} {
		r.Register(c)
	}
}

// Order in which categories are described in variation names.
var DescribeOrder = []Category{
	CategorySeatType,
	CategoryArmType,
	CategoryMaterial,
	CategoryColor,
	CategoryStitching,
	CategoryRecline,
	CategoryHeadrest,
	CategoryHeating,
	CategoryLumbar,
}
