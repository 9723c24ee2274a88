package Models

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	DB = connection

	// 1. Reference data first
	DB.AutoMigrate(
		&Sector{},
		&Employee{},
	)

	// 2. Then models referencing sectors
	DB.AutoMigrate(
		&Task{},
		&ChecklistRecord{},
	)

	SeedCatalog(DB)
}

// SeedCatalog inserts the default venue catalog when the tables are empty
func SeedCatalog(db *gorm.DB) {
	var sectorCount int64
	db.Model(&Sector{}).Count(&sectorCount)
	if sectorCount > 0 {
		return
	}

	sectors := []Sector{
		{Name: "Kitchen", Icon: "🍳"},
		{Name: "Bar", Icon: "🍹"},
		{Name: "Floor", Icon: "🍽️"},
		{Name: "Stock", Icon: "📦"},
	}
	if err := db.Create(&sectors).Error; err != nil {
		log.Printf("Error seeding sectors: %v", err)
		return
	}

	kitchen, bar, floor := sectors[0].ID, sectors[1].ID, sectors[2].ID

	tasks := []Task{
		// Kitchen opening
		{SectorID: kitchen, Type: ShiftOpening, Description: "Check fridge temperatures"},
		{SectorID: kitchen, Type: ShiftOpening, Description: "Clean prep counters"},
		{SectorID: kitchen, Type: ShiftOpening, Description: "Organize mise-en-place"},
		{SectorID: kitchen, Type: ShiftOpening, Description: "Check ingredient expiry dates"},
		// Kitchen closing
		{SectorID: kitchen, Type: ShiftClosing, Description: "Sanitize stove and hoods"},
		{SectorID: kitchen, Type: ShiftClosing, Description: "Take out trash and wash bins"},
		{SectorID: kitchen, Type: ShiftClosing, Description: "Turn off non-essential equipment"},
		// Bar opening
		{SectorID: bar, Type: ShiftOpening, Description: "Prepare fruit garnishes"},
		{SectorID: bar, Type: ShiftOpening, Description: "Restock ice and beverages"},
	}
	if err := db.Create(&tasks).Error; err != nil {
		log.Printf("Error seeding tasks: %v", err)
	}

	employees := []Employee{
		{Name: "João Silva", SectorID: kitchen},
		{Name: "Maria Santos", SectorID: kitchen},
		{Name: "Carlos Oliveira", SectorID: bar},
		{Name: "Ana Costa", SectorID: floor},
	}
	if err := db.Create(&employees).Error; err != nil {
		log.Printf("Error seeding employees: %v", err)
	}
}
