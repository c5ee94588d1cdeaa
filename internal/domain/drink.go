package domain

// DrinkType is a catalog entry: a drink name and its default hydration factor.
type DrinkType struct {
	Name   string  `json:"name" yaml:"name"`
	Factor float64 `json:"factor" yaml:"factor"`
}

var defaultCatalog = []DrinkType{
	{Name: "Wasser", Factor: 1.0},
	{Name: "Sprudel", Factor: 1.0},
	{Name: "Tee", Factor: 1.0},
	{Name: "Kaffee", Factor: 0.85},
	{Name: "Saft", Factor: 0.7},
	{Name: "Softdrink", Factor: 0.6},
	{Name: "Milch", Factor: 0.8},
	{Name: "Bier/Alkohol", Factor: 0.4},
}

// DefaultCatalog returns a copy of the built-in drink catalog.
func DefaultCatalog() []DrinkType {
	out := make([]DrinkType, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

// FactorFor returns the default factor of name in catalog.
func FactorFor(catalog []DrinkType, name string) (float64, bool) {
	for _, t := range catalog {
		if t.Name == name {
			return t.Factor, true
		}
	}
	return 0, false
}
