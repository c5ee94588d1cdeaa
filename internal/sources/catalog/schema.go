package catalog

// File is the top-level structure of a drinks.yaml catalog file.
//
//	drinks:
//	  - name: Wasser
//	    factor: 1.0
type File struct {
	Drinks []DrinkProps `yaml:"drinks"`
}

// DrinkProps describes one catalog entry.
type DrinkProps struct {
	Name   string   `yaml:"name"`
	Factor *float64 `yaml:"factor"`
}
