package repositories

import (
	"errors"

	"github.com/anonto42/nano-blog/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicatedKey = errors.New("duplicated key")
)

// translate maps driver-level errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), mongo.IsDuplicateKeyError(err):
		return ErrDuplicatedKey
	}
	return err
}

// AutoMigrate creates the SQL schema. Posts are only migrated when they are not kept in MongoDB.
func AutoMigrate(db *gorm.DB, withPosts bool) error {
	tables := []interface{}{
		&models.User{},
		&models.Comment{},
		&models.Like{},
	}
	if withPosts {
		tables = append(tables, &models.Post{})
	}
	return db.AutoMigrate(tables...)
}
