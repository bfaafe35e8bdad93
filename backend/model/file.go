package model

// File records an object stored through the generic upload proxy.
type File struct {
	Id        int    `json:"id" gorm:"primaryKey"`
	UserId    string `json:"user_id" gorm:"index;size:64"`
	Filename  string `json:"filename" gorm:"index;size:255"`
	Key       string `json:"key" gorm:"uniqueIndex;size:255"`
	Url       string `json:"url" gorm:"type:text"`
	CreatedAt int64  `json:"created_at" gorm:"bigint"`
}

func (File) TableName() string {
	return "files"
}

func (f *File) Insert() error {
	return DB.Create(f).Error
}

// FindFilesForUser lists a user's stored objects, newest first.
func FindFilesForUser(userId string, startIdx int, num int) ([]*File, error) {
	var files []*File
	err := DB.Where("user_id = ?", userId).
		Order("id desc").Limit(num).Offset(startIdx).Find(&files).Error
	return files, err
}
