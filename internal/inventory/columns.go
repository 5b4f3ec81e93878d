package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical field names a source column can map to.
const (
	FieldLotNumber        = "lot_number"
	FieldLandArea         = "land_area_m2"
	FieldConstructionArea = "construction_area_m2"
	FieldStatus           = "status"
	FieldBuyer            = "buyer"
	// FieldTierPrice is a pattern; {n} stands for the tier number.
	FieldTierPrice = "price_tier_{n}"
)

const tierPlaceholder = "{n}"

var defaultAliases = map[string][]string{
	FieldLotNumber:        {"lot_number", "lot", "lote", "no_lote", "numero_lote", "num_lote", "number"},
	FieldLandArea:         {"land_area_m2", "land_area", "m2", "m2_terreno", "superficie", "terreno"},
	FieldConstructionArea: {"construction_area_m2", "construction_area", "m2_construccion", "construccion"},
	FieldStatus:           {"status", "estado", "estatus"},
	FieldBuyer:            {"buyer", "cliente", "comprador"},
	FieldTierPrice:        {"price_tier_{n}", "tier_{n}", "lista_{n}", "precio_lista_{n}", "precio_{n}"},
}

// Aliases that only ever name the tier-1 price.
var tierOneAliases = []string{"price", "precio", "precio_lista", "list_price"}

// ColumnMapping resolves source column names to canonical fields. It is
// built once per load and never mutated.
type ColumnMapping struct {
	aliases map[string][]string
}

// NewColumnMapping merges alias overrides, keyed by canonical field, in front
// of the default aliases.
func NewColumnMapping(overrides map[string][]string) ColumnMapping {
	aliases := make(map[string][]string, len(defaultAliases))
	for field, names := range defaultAliases {
		aliases[field] = append([]string(nil), names...)
	}
	for field, names := range overrides {
		field = NormalizeColumn(field)
		if field == NormalizeColumn(FieldTierPrice) {
			field = FieldTierPrice
		}
		normalized := make([]string, 0, len(names))
		for _, name := range names {
			normalized = append(normalized, normalizeAlias(name))
		}
		aliases[field] = append(normalized, aliases[field]...)
	}
	return ColumnMapping{aliases: aliases}
}

// columnIndex locates every canonical field in a header row.
type columnIndex struct {
	lotNumber        int
	landArea         int
	constructionArea int
	status           int
	buyer            int
	tiers            map[int]int
}

// resolve maps a header row onto canonical fields. The lot number, land area
// and tier-1 price columns are required.
func (m ColumnMapping) resolve(header []string) (columnIndex, error) {
	if m.aliases == nil {
		m = NewColumnMapping(nil)
	}
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := NormalizeColumn(name)
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	find := func(field string) int {
		for _, alias := range m.aliases[field] {
			if i, ok := positions[alias]; ok {
				return i
			}
		}
		return -1
	}

	idx := columnIndex{
		lotNumber:        find(FieldLotNumber),
		landArea:         find(FieldLandArea),
		constructionArea: find(FieldConstructionArea),
		status:           find(FieldStatus),
		buyer:            find(FieldBuyer),
		tiers:            make(map[int]int),
	}

	for tier := 1; tier <= maxTierColumns; tier++ {
		for _, pattern := range m.aliases[FieldTierPrice] {
			name := strings.ReplaceAll(pattern, tierPlaceholder, strconv.Itoa(tier))
			if i, ok := positions[name]; ok {
				idx.tiers[tier] = i
				break
			}
		}
	}
	if _, ok := idx.tiers[1]; !ok {
		for _, alias := range tierOneAliases {
			if i, ok := positions[alias]; ok {
				idx.tiers[1] = i
				break
			}
		}
	}

	var missing []string
	if idx.lotNumber < 0 {
		missing = append(missing, FieldLotNumber)
	}
	if idx.landArea < 0 {
		missing = append(missing, FieldLandArea)
	}
	if _, ok := idx.tiers[1]; !ok {
		missing = append(missing, strings.ReplaceAll(FieldTierPrice, tierPlaceholder, "1"))
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

const maxTierColumns = 10

// NormalizeColumn folds a column name to snake case without accents, so that
// "Número Lote", "numero-lote" and "numeroLote" all become "numero_lote" and
// "M²" becomes "m2".
func NormalizeColumn(name string) string {
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, strings.TrimSpace(name))
	if err != nil {
		folded = strings.TrimSpace(name)
	}

	var b strings.Builder
	var prev rune
	pendingSep := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				pendingSep = true
			}
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
		prev = r
	}
	return b.String()
}

func normalizeAlias(name string) string {
	if !strings.Contains(name, tierPlaceholder) {
		return NormalizeColumn(name)
	}
	parts := strings.Split(name, tierPlaceholder)
	for i, part := range parts {
		parts[i] = NormalizeColumn(part)
	}
	joined := strings.Join(parts, "_"+tierPlaceholder+"_")
	return strings.Trim(strings.ReplaceAll(joined, "__", "_"), "_")
}
