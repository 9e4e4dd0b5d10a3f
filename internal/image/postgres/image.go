package postgres

import (
	"gorm.io/gorm"

	"hsaledger/internal/image"
)

// ImageRepository implements image.Repository using GORM.
type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) image.Repository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(img *image.Image) error {
	return r.db.Create(img).Error
}

func (r *ImageRepository) GetByID(id string) (*image.Image, error) {
	var img image.Image
	if err := r.db.Where("id = ?", id).First(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *ImageRepository) ListForExpense(expenseID string) ([]*image.Image, error) {
	var images []*image.Image
	err := r.db.Where("expense_id = ?", expenseID).
		Order("created_at DESC, id DESC").
		Find(&images).Error
	return images, err
}

func (r *ImageRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&image.Image{}).Error
}
