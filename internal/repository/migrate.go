package repository

import "gorm.io/gorm"

// AutoMigrate creates the schema from the entities. Production databases are
// migrated with the SQL files under migrations/; this is for sqlite and local runs.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&PackageEntity{},
		&AgentEntity{},
		&CustomerEntity{},
		&PaymentEntity{},
		&ReminderEntity{},
	)
}
