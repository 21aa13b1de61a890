package migrations

import (
	"gradebook/models"

	"github.com/ottomillrath/goose/v2"
	"gorm.io/gorm"
)

func init() {
	goose.AddMigration(service, upCreateSchema, downCreateSchema)
}

// models.All is ordered parents first, so foreign keys always find their target.
func upCreateSchema(tx *gorm.DB) error {
	for _, model := range models.All() {
		err := tx.Migrator().CreateTable(model)
		if err != nil {
			return err
		}
	}
	return nil
}

func downCreateSchema(tx *gorm.DB) error {
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		err := tx.Migrator().DropTable(all[i])
		if err != nil {
			return err
		}
	}
	return nil
}
