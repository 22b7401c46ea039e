package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvaldez/garage/internal/importer"
)

func TestParse_SpanishProfile(t *testing.T) {
	csv := strings.Join([]string{
		"nombre;descripcion;marca;categoria;precio_venta;precio_compra;stock;stock_minimo;codigo_barras;modelo_vehiculo;anio_vehiculo",
		"Filtro de aceite;Filtro estandar;Bosch;Filtros;12,50;8,00;25;5;7791234567890;Corolla;2018",
		"Aceite 10W40;;Shell;Lubricantes;35,90;28,00;40;10;;;",
		"",
	}, "\n")

	params, err := importer.New().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	part := params[0]
	assert.Equal(t, "Filtro de aceite", part.Name)
	assert.Equal(t, "Bosch", part.Brand)
	assert.Equal(t, int64(1250), part.SalePrice)
	assert.Equal(t, int64(800), part.PurchasePrice)
	assert.Equal(t, int64(25), part.Stock)
	assert.Equal(t, int64(5), part.StockMin)
	assert.Equal(t, "7791234567890", part.Barcode)
	require.NotNil(t, part.AutoPart)
	assert.Equal(t, "Corolla", part.AutoPart.VehicleModel)
	assert.Equal(t, 2018, part.AutoPart.VehicleYear)

	oil := params[1]
	assert.Equal(t, "Aceite 10W40", oil.Name)
	assert.Equal(t, int64(3590), oil.SalePrice)
	assert.Nil(t, oil.AutoPart)
}

func TestParse_EnglishProfileCommaDelimited(t *testing.T) {
	csv := strings.Join([]string{
		"name,category,sale_price,stock",
		"Brake pads,Brakes,45.00,12",
		`"Spark plug, iridium",Ignition,9.99,60`,
	}, "\n")

	params, err := importer.New().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "Brake pads", params[0].Name)
	assert.Equal(t, int64(4500), params[0].SalePrice)
	assert.Equal(t, "Spark plug, iridium", params[1].Name)
	assert.Equal(t, int64(999), params[1].SalePrice)
	assert.Equal(t, int64(60), params[1].Stock)
}

func TestParse_SkipsPreamble(t *testing.T) {
	csv := strings.Join([]string{
		"Catalogo exportado 2025-06-01",
		"",
		"name,sale_price,stock",
		"Coolant,18.00,9",
	}, "\n")

	params, err := importer.New().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Coolant", params[0].Name)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]struct {
		csv     string
		wantErr string
	}{
		"no recognizable header": {
			csv:     "foo,bar\n1,2\n",
			wantErr: "no matching catalog format",
		},
		"missing name": {
			csv:     "name,sale_price,stock\n,10.00,5\n",
			wantErr: "row 2: missing product name",
		},
		"bad price": {
			csv:     "name,sale_price,stock\nCoolant,abc,5\n",
			wantErr: "row 2: sale price",
		},
		"negative stock": {
			csv:     "name,sale_price,stock\nCoolant,10.00,-2\n",
			wantErr: "row 2: stock",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := importer.New().Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
