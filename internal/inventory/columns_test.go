package inventory

import (
	"strings"
	"testing"
)

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Número Lote", "numero_lote"},
		{"numero-lote", "numero_lote"},
		{"numeroLote", "numero_lote"},
		{"  M² ", "m2"},
		{"Precio Lista 10", "precio_lista_10"},
		{"land_area_m2", "land_area_m2"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeColumn(tt.input); got != tt.expected {
				t.Errorf("NormalizeColumn(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolveDefaultAliases(t *testing.T) {
	idx, err := NewColumnMapping(nil).resolve([]string{"Lote", "Superficie", "Precio", "Tier 3", "Estado"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.lotNumber != 0 || idx.landArea != 1 || idx.status != 4 {
		t.Errorf("unexpected index %+v", idx)
	}
	if idx.tiers[1] != 2 || idx.tiers[3] != 3 {
		t.Errorf("unexpected tier columns %v", idx.tiers)
	}
	if idx.constructionArea != -1 || idx.buyer != -1 {
		t.Errorf("expected optional columns to be absent, got %+v", idx)
	}
}

func TestResolveOverrides(t *testing.T) {
	mapping := NewColumnMapping(map[string][]string{
		FieldLotNumber: {"Unidad"},
		FieldTierPrice: {"Costo Nivel {n}"},
	})
	idx, err := mapping.resolve([]string{"Unidad", "m2", "Costo Nivel 1", "Costo Nivel 2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.lotNumber != 0 || idx.tiers[1] != 2 || idx.tiers[2] != 3 {
		t.Errorf("unexpected index %+v", idx)
	}
}

func TestResolveMissingColumns(t *testing.T) {
	_, err := NewColumnMapping(nil).resolve([]string{"Lote", "Cliente"})
	if err == nil {
		t.Fatal("expected an error for missing required columns")
	}
	for _, want := range []string{FieldLandArea, "price_tier_1"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q to be reported, got %q", want, err.Error())
		}
	}
	if strings.Contains(err.Error(), FieldLotNumber) {
		t.Errorf("lot number column was present, got %q", err.Error())
	}
}
