package model

import (
	"time"
)

// Book is one catalog entry shown in the library UI.
type Book struct {
	Id         int      `json:"id" gorm:"primaryKey"`
	Title      string   `json:"title" gorm:"index;size:255"`
	Author     string   `json:"author" gorm:"size:255"`
	PdfUrl     string   `json:"pdf_url" gorm:"type:text"`
	Category   []string `json:"category" gorm:"serializer:json;type:text"`
	CoverImage string   `json:"cover_image" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

func (b *Book) Insert() error {
	return DB.Create(b).Error
}

// GetAllBooks returns one page of the catalog, newest first.
func GetAllBooks(startIdx int, num int) ([]*Book, error) {
	var books []*Book
	err := DB.Order("id desc").Limit(num).Offset(startIdx).Find(&books).Error
	return books, err
}

// SearchBooks matches the keyword against title and author.
func SearchBooks(keyword string) ([]*Book, error) {
	var books []*Book
	likeKeyword := "%" + keyword + "%"
	err := DB.Where("title LIKE ? OR author LIKE ?", likeKeyword, likeKeyword).
		Order("id desc").Find(&books).Error
	return books, err
}
