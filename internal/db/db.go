package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/suPer8Hu/helpdesk/internal/models"
)

// Connect opens the primary store. driver is "mysql" or "sqlite";
// sqlite is the zero-config default and the test database.
func Connect(driver, dsn string) *gorm.DB {
	var (
		gdb *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
		gdb, err = gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	case "mysql":
		gdb, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		err = fmt.Errorf("unsupported DB_DRIVER=%q", driver)
	}
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	return gdb
}

func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.User{}, &models.Complaint{}, &models.Comment{})
}
