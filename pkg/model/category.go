package model

// Category is one of the six spending classes. Values are the single
// characters the extractor is asked to emit.
type Category string

const (
	Food          Category = "食"
	Clothing      Category = "衣"
	Housing       Category = "住"
	Transport     Category = "行"
	Education     Category = "育"
	Entertainment Category = "樂"

	// Other is never produced on purpose; it names the fallback bucket used
	// when rendering a category outside the closed set.
	Other Category = "其他"
)

// Categories lists the closed set in display order.
var Categories = []Category{Food, Clothing, Housing, Transport, Education, Entertainment}

var categoryNames = map[Category]string{
	Food:          "food",
	Clothing:      "clothing",
	Housing:       "housing",
	Transport:     "transport",
	Education:     "education",
	Entertainment: "entertainment",
}

// Valid reports whether c belongs to the closed set.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// English returns a descriptive name, or "other" for unknown values.
func (c Category) English() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "other"
}

func (c Category) String() string {
	return string(c)
}
