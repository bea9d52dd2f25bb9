package repository

import (
	"github.com/lshigami/Quokkas/internal/model"
	"gorm.io/gorm"
)

type XPRepository interface {
	// Append inserts one ledger entry. Entries are never updated.
	Append(entry *model.XPEntry) error
	// TotalFor sums a student's lifetime XP.
	TotalFor(studentID uint) (int, error)
	// SumByStudents returns total XP keyed by student ID for the given
	// set; students with no entries are absent from the map.
	SumByStudents(studentIDs []uint) (map[uint]int, error)
}

type xpRepository struct {
	db *gorm.DB
}

func NewXPRepository(db *gorm.DB) XPRepository {
	return &xpRepository{db: db}
}

func (r *xpRepository) Append(entry *model.XPEntry) error {
	return r.db.Create(entry).Error
}

func (r *xpRepository) TotalFor(studentID uint) (int, error) {
	var total int64
	err := r.db.Model(&model.XPEntry{}).
		Where("student_id = ?", studentID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *xpRepository) SumByStudents(studentIDs []uint) (map[uint]int, error) {
	if len(studentIDs) == 0 {
		return map[uint]int{}, nil
	}
	var rows []struct {
		StudentID uint
		Total     int
	}
	err := r.db.Model(&model.XPEntry{}).
		Select("student_id, SUM(amount) as total").
		Where("student_id IN ?", studentIDs).
		Group("student_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[uint]int, len(rows))
	for _, row := range rows {
		sums[row.StudentID] = row.Total
	}
	return sums, nil
}
