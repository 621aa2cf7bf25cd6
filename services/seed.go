package services

import (
	"github.com/dairymanager/dairy-api/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// defaultCatalogue is the starting price list of a new dairy tenant
var defaultCatalogue = []struct {
	code  string
	name  string
	price float64
	unit  string
}{
	{"p1", "FCM 1L", 70, "Pkt"}, {"p2", "FCM 500ml", 35, "Pkt"}, {"p3", "STD 1L", 65, "Pkt"},
	{"p4", "STD 500ml", 33, "Pkt"}, {"p5", "TM 1L", 60, "Pkt"}, {"p6", "TM 500ml", 30, "Pkt"},
	{"p7", "T-SPL 500ml", 32, "Pkt"}, {"p8", "GOLD Small", 10, "Pkt"}, {"p9", "TM 130", 15, "Pkt"},
	{"p10", "Curd 500gm", 25, "Pkt"}, {"p11", "Curd Loose", 50, "Kg"}, {"p12", "DTM 90", 20, "Pkt"},
	{"p13", "Skim 10kg", 300, "Bag"}, {"p14", "TM 10kg", 400, "Bag"}, {"p15", "Bkt 5kg", 150, "Bkt"},
	{"p16", "Bkt 1kg", 40, "Bkt"}, {"p17", "Paneer 1kg", 350, "Kg"}, {"p18", "Paneer 500g", 180, "Pkt"},
	{"p19", "Paneer 200g", 80, "Pkt"}, {"p20", "Can 20kg", 1200, "Can"}, {"p21", "Cowa 500g", 150, "Pkt"},
	{"p22", "Cowa 1kg", 300, "Kg"}, {"p23", "Milk Badam", 20, "Bottle"}, {"p24", "Butter", 500, "Kg"},
	{"p25", "Ghee", 600, "Kg"},
}

// seedProducts loads the default catalogue for a tenant that has no products yet
func seedProducts(tx *gorm.DB, tenantID uint) error {
	var count int64
	if err := tx.Model(&models.Product{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := make([]models.Product, 0, len(defaultCatalogue))
	for _, p := range defaultCatalogue {
		products = append(products, models.Product{
			ID:       uuid.NewString(),
			TenantID: tenantID,
			Code:     p.code,
			Name:     p.name,
			Price:    p.price,
			Unit:     p.unit,
			Active:   true,
		})
	}
	return tx.Create(&products).Error
}
