package models

// Catalog is the static reference data the simulation draws from:
// the fixed ward list and the per-ward diagnosis code sets.
// Passed explicitly into the simulation service so tests can shrink it.
type Catalog struct {
	Wards          []string
	DiagnosisCodes map[string][]string
}

// DefaultCatalog returns the built-in nine-ward catalog with five
// ICD-10 codes per ward.
func DefaultCatalog() Catalog {
	return Catalog{
		Wards: []string{
			"General Surgery",
			"Internal Medicine",
			"Cardiology",
			"Orthopedics and Traumatology",
			"Neurology",
			"Pediatrics",
			"Obstetrics and Gynecology",
			"Intensive Care",
			"Emergency Department",
		},
		DiagnosisCodes: map[string][]string{
			"General Surgery":              {"K35", "K80", "K40", "S06", "T14"},
			"Internal Medicine":            {"I10", "J18", "E11", "I50", "K29"},
			"Cardiology":                   {"I20", "I21", "I48", "I50", "I10"},
			"Orthopedics and Traumatology": {"S72", "S52", "M16", "M17", "S82"},
			"Neurology":                    {"I63", "G40", "G20", "G35", "R51"},
			"Pediatrics":                   {"J06", "J18", "A09", "R50", "J45"},
			"Obstetrics and Gynecology":    {"O80", "O20", "N80", "D25", "N92"},
			"Intensive Care":               {"R57", "J96", "I46", "A41", "T07"},
			"Emergency Department":         {"R07", "R10", "S00", "T14", "R55"},
		},
	}
}

// Codes returns the diagnosis code set for a ward name
func (c Catalog) Codes(ward string) []string {
	return c.DiagnosisCodes[ward]
}
