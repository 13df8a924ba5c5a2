package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the migrate drivers for both supported databases
	// plus the file source.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tpworkshop/garage-quotes/internal/config"
	"github.com/tpworkshop/garage-quotes/internal/models"
)

// ConnectAndMigrate opens the store and brings the schema up to date.
// The embedded sqlite file is the default; a postgres DSN switches drivers.
// MIGRATIONS=1 runs the SQL migrations in ./migrations via golang-migrate,
// otherwise gorm AutoMigrate keeps dev setups working without tooling.
func ConnectAndMigrate(cfg config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	if cfg.DatabaseDSN != "" {
		dsn := NormalizeDSN(cfg.DatabaseDSN)
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(dsn), gormCfg)
			if err == nil {
				break
			}
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect database after retries: %w", err)
		}
	} else {
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("create data dir: %w", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if config.ParseBool("MIGRATIONS", false) {
		if err := runSQLMigrations(cfg); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range []interface{}{&models.Quote{}, &models.Product{}} {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	for _, table := range []string{"quotes", "products"} {
		if !db.Migrator().HasTable(table) {
			return nil, fmt.Errorf("missing table after migration: %s", table)
		}
	}
	if config.ParseBool("DB_SEED", false) {
		seed(db)
	}
	return db, nil
}

// seed inserts one demo quote with a couple of products, once.
func seed(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Quote{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	oil := models.Product{ID: uuid.NewString(), Name: "Lọc dầu", UnitPrice: 250000, Quantity: 1, Unit: "cái", VAT: 8, Category: models.CategoryParts}
	labor := models.Product{ID: uuid.NewString(), Name: "Công thay lọc dầu", UnitPrice: 100000, Quantity: 1, Unit: "lần", VAT: 0, Category: models.CategoryFittingLabor}
	q := models.Quote{
		ID:           uuid.NewString(),
		No:           "BG-0001",
		CustomerName: "Nguyễn Văn A",
		PhoneNumber:  "0938284079",
		CarModel:     "Toyota Vios",
		Date:         time.Now(),
		ProductIDs:   []string{oil.ID, labor.ID},
	}
	db.Create(&oil)
	db.Create(&labor)
	db.Create(&q)
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(cfg config.Config) error {
	dsn := cfg.DatabaseDSN
	if dsn == "" {
		dsn = "sqlite3://" + cfg.SQLitePath
	}
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
