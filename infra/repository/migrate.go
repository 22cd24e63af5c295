package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for all persisted models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Account{},
		&Transaction{},
		&RecurringTransaction{},
		&TransactionLog{},
	)
}
