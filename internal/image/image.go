package image

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Image is a receipt attachment record. The blob itself lives in storage
// under StorageKey; clients only ever see the URL.
type Image struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	ExpenseID  string    `json:"expense_id" gorm:"column:expense_id;not null"`
	ImageURL   string    `json:"image_url" gorm:"column:image_url;not null"`
	StorageKey string    `json:"-" gorm:"column:storage_key;not null"`
	MimeType   string    `json:"mime_type" gorm:"column:mime_type;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Image) TableName() string {
	return "receipt_images"
}

// extensions maps common MIME types to the extension used in storage
// keys. Sniffed image types outside the map keep their subtype.
var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/bmp":       ".bmp",
	"application/pdf": ".pdf",
}

// AcceptedMime reports whether a sniffed content type may be attached to
// an expense: any image, plus PDF for scanned receipts.
func AcceptedMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || mimeType == "application/pdf"
}

func extensionFor(mimeType string) string {
	if ext, ok := extensions[mimeType]; ok {
		return ext
	}
	return "." + strings.TrimPrefix(mimeType, "image/")
}

func NewImage(expenseID, mimeType string) *Image {
	id := uuid.NewString()
	return &Image{
		ID:         id,
		ExpenseID:  expenseID,
		StorageKey: expenseID + "/" + id + extensionFor(mimeType),
		MimeType:   mimeType,
		CreatedAt:  time.Now(),
	}
}
