package gormrepo

import (
	"context"
	"errors"
	"time"

	"growvest-backend/internal/domain/record"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Table: records
type recordRow struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	RecordType string    `gorm:"column:record_type;size:32;not null;uniqueIndex:ux_records_type_key,priority:1"`
	RecordKey  string    `gorm:"column:record_key;size:64;not null;uniqueIndex:ux_records_type_key,priority:2"`
	Payload    []byte    `gorm:"column:payload;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (recordRow) TableName() string { return "records" }

func Migrate(db *gorm.DB) error { return db.AutoMigrate(&recordRow{}) }

type RecordStore struct{ db *gorm.DB }

var _ record.Store = (*RecordStore)(nil)

func NewRecordStore(db *gorm.DB) *RecordStore { return &RecordStore{db: db} }

func (s *RecordStore) Get(ctx context.Context, t record.Type, key string) (*record.Record, error) {
	var row recordRow
	err := s.db.WithContext(ctx).
		Where("record_type = ? AND record_key = ?", string(t), key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record.Record{Type: t, Key: row.RecordKey, Payload: row.Payload}, nil
}

// Set upserts on (record_type, record_key); the row id, and so the list
// position, survives overwrites.
func (s *RecordStore) Set(ctx context.Context, rec record.Record) error {
	row := recordRow{RecordType: string(rec.Type), RecordKey: rec.Key, Payload: rec.Payload}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_type"}, {Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *RecordStore) List(ctx context.Context, t record.Type) ([]record.Record, error) {
	var rows []recordRow
	err := s.db.WithContext(ctx).
		Where("record_type = ?", string(t)).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]record.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, record.Record{Type: t, Key: r.RecordKey, Payload: r.Payload})
	}
	return out, nil
}

func (s *RecordStore) Delete(ctx context.Context, t record.Type, key string) error {
	return s.db.WithContext(ctx).
		Where("record_type = ? AND record_key = ?", string(t), key).
		Delete(&recordRow{}).Error
}
