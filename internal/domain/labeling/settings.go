package labeling

// Settings controls which metadata lines the label composer draws. It is
// resolved from the workspace configuration and passed in explicitly so the
// composer stays free of global state.
type Settings struct {
	SellerName   string
	ShowEAN      bool
	ShowGS1      bool
	ShowTitle    bool
	ShowColor    bool
	ShowSize     bool
	ShowMaterial bool
	ShowCountry  bool
	ShowSeller   bool
	ShowArticle  bool
}

// DefaultSettings enables every label element
func DefaultSettings() Settings {
	return Settings{
		ShowEAN:      true,
		ShowGS1:      true,
		ShowTitle:    true,
		ShowColor:    true,
		ShowSize:     true,
		ShowMaterial: true,
		ShowCountry:  true,
		ShowSeller:   true,
		ShowArticle:  true,
	}
}

// Metadata carries the product attributes printed on a label. Empty fields
// are skipped regardless of settings.
type Metadata struct {
	Title    string
	Color    string
	Size     string
	Material string
	Country  string
	Article  string
	Barcode  string
}
