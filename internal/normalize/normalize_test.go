package normalize

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Colombo y Colombo SA":        "colombo-y-colombo-sa",
		"Ivan L. O'Farrell":           "ivan-l-o-farrell",
		"Cooperativa Guillermo Lehmann": "cooperativa-guillermo-lehmann",
		"  Cabaña  Río Negro  ":       "cabana-rio-negro",
		"GANADERÍA & CÍA":             "ganaderia-cia",
		"---":                         "",
	}

	slugShape := regexp.MustCompile(`^[a-z0-9-]*$`)
	for input, want := range cases {
		got := Slugify(input)
		assert.Equal(t, want, got, "input %q", input)
		assert.Regexp(t, slugShape, got)
		assert.Equal(t, got, Slugify(got), "slugify must be idempotent for %q", input)
	}
}

func TestSlugifyNoEdgeHyphens(t *testing.T) {
	got := Slugify("¡Remate Especial!")
	require.NotEmpty(t, got)
	assert.NotEqual(t, byte('-'), got[0])
	assert.NotEqual(t, byte('-'), got[len(got)-1])
}

func TestProvince(t *testing.T) {
	assert.Equal(t, "CORDOBA", Province("Córdoba"))
	assert.Equal(t, "ENTRE RIOS", Province("Entre Ríos"))
	assert.Equal(t, "NEUQUEN", Province("neuquén"))
	// No membership validation: unknown values flow through.
	assert.Equal(t, "RIO CUARTO", Province("Río Cuarto"))
}

func TestKnownProvince(t *testing.T) {
	assert.True(t, KnownProvince("SANTA FE"))
	assert.True(t, KnownProvince("CAPITAL FEDERAL"))
	assert.False(t, KnownProvince("RIO CUARTO"))
	assert.False(t, KnownProvince("Santa Fe"))
}

func TestIsValidDate(t *testing.T) {
	cases := []struct {
		date string
		want bool
	}{
		{"2026-02-26", true},
		{"2024-01-01", true},
		{"2030-12-31", true},
		// Day bound is 31, not calendar-aware.
		{"2026-02-30", true},
		{"2026-13-01", false},
		{"2026-00-10", false},
		{"2026-01-32", false},
		{"2026-01-00", false},
		{"2023-12-31", false},
		{"2031-01-01", false},
		{"26-02-2026", false},
		{"2026/02/26", false},
		{"2026-2-26", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsValidDate(tc.date), "date %q", tc.date)
	}
}

func TestAuctionTypePriority(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Remate de Invernada", TypeInvernada},
		{"Gran remate de cría", TypeCria},
		{"Remate CRIA general", TypeCria},
		{"Venta de Reproductores", TypeReproductores},
		{"Remate de toros", TypeReproductores},
		{"Cabaña La Esperanza", TypeReproductores},
		{"Remate Especial Aniversario", TypeEspecial},
		{"Expo Rural", TypeEspecial},
		{"Remate mensual", TypeGeneral},
		{"", TypeGeneral},
		// invernada outranks especial when both keywords appear.
		{"Remate especial de invernada", TypeInvernada},
		// cria outranks reproductores.
		{"Cría y toros", TypeCria},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, AuctionType(tc.title), "title %q", tc.title)
	}
}

func TestMainCategoryPriority(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Remate de terneros", CategoryTerneros},
		{"Novillos de campo", CategoryNovillos},
		{"Venta de vaca gorda", CategoryVacaGorda},
		{"Lote gordo", CategoryVacaGorda},
		{"Vaquillonas preñadas", CategoryVaquillonas},
		{"Toros puros", CategoryToros},
		{"Reproductores seleccionados", CategoryToros},
		{"Remate mensual", CategoryMixto},
		// terneros outranks novillos when both appear.
		{"Terneros y novillos", CategoryTerneros},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MainCategory(tc.title), "title %q", tc.title)
	}
}
