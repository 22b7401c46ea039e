package importer

// Profile describes the column layout of a catalog CSV export. Header names
// are matched lowercase. Adding a new layout is just adding a new Profile to
// the profiles slice.
type Profile struct {
	Name             string
	NameCol          string
	DescCol          string
	BrandCol         string
	CategoryCol      string
	SalePriceCol     string
	PurchasePriceCol string
	StockCol         string
	StockMinCol      string
	BarcodeCol       string
	VehicleModelCol  string
	VehicleYearCol   string
}

// requiredCols returns the column names that must be present for this
// profile to match. Everything else is optional.
func (p Profile) requiredCols() []string {
	return []string{p.NameCol, p.SalePriceCol, p.StockCol}
}

// profiles is the ordered list of catalog export formats to try during
// auto-detection.
var profiles = []Profile{
	{
		Name:             "spanish",
		NameCol:          "nombre",
		DescCol:          "descripcion",
		BrandCol:         "marca",
		CategoryCol:      "categoria",
		SalePriceCol:     "precio_venta",
		PurchasePriceCol: "precio_compra",
		StockCol:         "stock",
		StockMinCol:      "stock_minimo",
		BarcodeCol:       "codigo_barras",
		VehicleModelCol:  "modelo_vehiculo",
		VehicleYearCol:   "anio_vehiculo",
	},
	{
		Name:             "english",
		NameCol:          "name",
		DescCol:          "description",
		BrandCol:         "brand",
		CategoryCol:      "category",
		SalePriceCol:     "sale_price",
		PurchasePriceCol: "purchase_price",
		StockCol:         "stock",
		StockMinCol:      "stock_min",
		BarcodeCol:       "barcode",
		VehicleModelCol:  "vehicle_model",
		VehicleYearCol:   "vehicle_year",
	},
}
