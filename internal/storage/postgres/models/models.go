package models

import "streamcatalog/proj/internal/storage/postgres"

type Models struct {
	Genre         *GenreModel
	Content       *ContentModel
	StreamingType *StreamingTypeModel
	User          *UserModel
	History       *HistoryModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Genre:         &GenreModel{db.Conn},
		Content:       &ContentModel{db.Conn},
		StreamingType: &StreamingTypeModel{db.Conn},
		User:          &UserModel{db.Conn},
		History:       &HistoryModel{db.Conn},
	}
}
