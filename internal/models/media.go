package models

// MediaModel is one stored file in the media library.
type MediaModel struct {
	Base
	FileName    string      `json:"file_name"  gorm:"type:text;not null"`
	FilePath    string      `json:"file_path"  gorm:"size:191;uniqueIndex;not null"`
	FileSize    int64       `json:"file_size"`
	MimeType    string      `json:"mime_type"  gorm:"size:100"`
	Description string      `json:"description" gorm:"type:text"`
	Tags        StringSlice `json:"tags"       gorm:"type:json;serializer:json"`
	UploaderID  string      `json:"uploader_id" gorm:"type:char(36);index;not null"`
	Uploader    *UserModel  `json:"-"          gorm:"foreignKey:UploaderID;constraint:OnDelete:RESTRICT"`
}

func (MediaModel) TableName() string { return "media_library" }

// ContentMediaModel attaches a media file to a content item in display order.
type ContentMediaModel struct {
	ContentID    string `json:"content_id" gorm:"type:char(36);primaryKey"`
	MediaID      string `json:"media_id"   gorm:"type:char(36);primaryKey"`
	DisplayOrder int    `json:"display_order" gorm:"default:0"`
}

func (ContentMediaModel) TableName() string { return "content_media" }
