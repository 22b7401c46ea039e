package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/hvaldez/garage/internal/config"
	"github.com/hvaldez/garage/internal/database"
	"github.com/hvaldez/garage/internal/employee"
	employeeStore "github.com/hvaldez/garage/internal/employee/store"
	"github.com/hvaldez/garage/internal/offering"
	offeringStore "github.com/hvaldez/garage/internal/offering/store"
	"github.com/hvaldez/garage/internal/product"
	productStore "github.com/hvaldez/garage/internal/product/store"
)

// seed loads a small demo catalog so a fresh install has something to show.
// Products already present by name are skipped, so re-running is harmless.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	productSvc := product.NewService(productStore.New(db), nil)
	offeringSvc := offering.NewService(offeringStore.New(db))
	employeeSvc := employee.NewService(employeeStore.New(db))

	result, err := productSvc.ImportBatch(ctx, demoProducts())
	if err != nil {
		slog.Error("failed to seed products", "error", err)
		os.Exit(1)
	}

	slog.Info("seeded products", "imported", len(result.Imported), "skipped", len(result.Skipped))

	var offeringsCreated int

	for _, params := range demoOfferings() {
		if _, err := offeringSvc.Create(ctx, params); err != nil {
			if errors.Is(err, offering.ErrDuplicateName) {
				continue
			}

			slog.Error("failed to seed offering", "name", params.Name, "error", err)
			os.Exit(1)
		}

		offeringsCreated++
	}

	slog.Info("seeded offerings", "created", offeringsCreated)

	existing, err := employeeSvc.List(ctx)
	if err != nil {
		slog.Error("failed to list employees", "error", err)
		os.Exit(1)
	}

	if len(existing) > 0 {
		slog.Info("employees already present, skipping")
		return
	}

	for _, params := range demoEmployees() {
		if _, err := employeeSvc.Create(ctx, params); err != nil {
			slog.Error("failed to seed employee", "name", params.FirstName, "error", err)
			os.Exit(1)
		}
	}

	slog.Info("seeded employees", "created", len(demoEmployees()))
}

func demoProducts() []product.CreateParams {
	return []product.CreateParams{
		{
			Name:          "Aceite 10W40 semisintetico",
			Description:   "Bidon de 4 litros",
			SalePrice:     3590,
			PurchasePrice: 2800,
			Brand:         "Shell",
			Category:      "Lubricantes",
			Stock:         40,
			StockMin:      10,
			Barcode:       "7791234500017",
		},
		{
			Name:          "Filtro de aceite",
			SalePrice:     1250,
			PurchasePrice: 800,
			Brand:         "Bosch",
			Category:      "Filtros",
			Stock:         25,
			StockMin:      5,
			Barcode:       "7791234500024",
			AutoPart:      &product.AutoPart{VehicleModel: "Corolla", VehicleYear: 2018},
		},
		{
			Name:          "Pastillas de freno delanteras",
			SalePrice:     4500,
			PurchasePrice: 3200,
			Brand:         "Ferodo",
			Category:      "Frenos",
			Stock:         12,
			StockMin:      4,
			AutoPart:      &product.AutoPart{VehicleModel: "Gol Trend", VehicleYear: 2016},
		},
		{
			Name:          "Liquido refrigerante",
			Description:   "Organico, 1 litro",
			SalePrice:     1800,
			PurchasePrice: 1200,
			Brand:         "Total",
			Category:      "Fluidos",
			Stock:         30,
			StockMin:      8,
		},
		{
			Name:      "Bujia de iridio",
			SalePrice: 999,
			Brand:     "NGK",
			Category:  "Encendido",
			Stock:     60,
			StockMin:  20,
			Barcode:   "7791234500055",
		},
	}
}

func demoOfferings() []offering.CreateParams {
	return []offering.CreateParams{
		{Name: "Cambio de aceite y filtro", Description: "Incluye mano de obra", Price: 8000},
		{Name: "Alineacion y balanceo", Price: 12000},
		{Name: "Cambio de pastillas de freno", Price: 9500},
		{Name: "Diagnostico por scanner", Price: 5000},
	}
}

func demoEmployees() []employee.CreateParams {
	return []employee.CreateParams{
		{FirstName: "Marta", LastName: "Gimenez", Specialty: "Electricidad"},
		{FirstName: "Hugo", LastName: "Pereyra", Specialty: "Tren delantero"},
		{FirstName: "Luciano", LastName: "Sosa", Specialty: "Mecanica general"},
	}
}
