package normalize

// canonicalProvinces is the fixed set of 24 administrative provinces
// in their canonical upper-case accent-free form.
var canonicalProvinces = map[string]struct{}{
	"BUENOS AIRES":        {},
	"CATAMARCA":           {},
	"CHACO":               {},
	"CHUBUT":              {},
	"CORDOBA":             {},
	"CORRIENTES":          {},
	"ENTRE RIOS":          {},
	"FORMOSA":             {},
	"JUJUY":               {},
	"LA PAMPA":            {},
	"LA RIOJA":            {},
	"MENDOZA":             {},
	"MISIONES":            {},
	"NEUQUEN":             {},
	"RIO NEGRO":           {},
	"SALTA":               {},
	"SAN JUAN":            {},
	"SAN LUIS":            {},
	"SANTA CRUZ":          {},
	"SANTA FE":            {},
	"SANTIAGO DEL ESTERO": {},
	"TUCUMAN":             {},
	"TIERRA DEL FUEGO":    {},
	"CAPITAL FEDERAL":     {},
}

// KnownProvince reports whether name is one of the 24 canonical
// province names. Used for operator warnings only; unrecognized
// provinces are not rejected anywhere in the pipeline.
func KnownProvince(name string) bool {
	_, ok := canonicalProvinces[name]
	return ok
}
