package repository

import (
	"time"

	"github.com/lshigami/Quokkas/internal/model"
	"gorm.io/gorm"
)

type StudentRepository interface {
	// Create persists the student together with their seeded factor rows
	// in one transaction.
	Create(student *model.Student, factors []model.FactorScore) error
	FindByID(id uint) (*model.Student, error)
	FindByStudentID(studentID string) (*model.Student, error)
	// UpdateLevelAndRange rewrites the lexile level and both cached range
	// bounds in a single UPDATE so the bounds can never drift.
	UpdateLevelAndRange(id uint, level, floor, ceiling int) error
	UpdateStreak(id uint, streak int, lastActivity time.Time) error
	UpdateXPBalance(id uint, balance int) error
	// FindByLevelRange returns students whose current level falls in
	// [floor, ceiling).
	FindByLevelRange(floor, ceiling int) ([]model.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(student *model.Student, factors []model.FactorScore) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(student).Error; err != nil {
			return err
		}
		for i := range factors {
			factors[i].StudentID = student.ID
		}
		if len(factors) > 0 {
			if err := tx.Create(&factors).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *studentRepository) FindByID(id uint) (*model.Student, error) {
	var student model.Student
	if err := r.db.First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) FindByStudentID(studentID string) (*model.Student, error) {
	var student model.Student
	if err := r.db.Where("student_id = ?", studentID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) UpdateLevelAndRange(id uint, level, floor, ceiling int) error {
	return r.db.Model(&model.Student{}).Where("id = ?", id).Updates(map[string]interface{}{
		"lexile_level":  level,
		"range_floor":   floor,
		"range_ceiling": ceiling,
	}).Error
}

func (r *studentRepository) UpdateStreak(id uint, streak int, lastActivity time.Time) error {
	return r.db.Model(&model.Student{}).Where("id = ?", id).Updates(map[string]interface{}{
		"streak":             streak,
		"last_activity_date": lastActivity,
	}).Error
}

func (r *studentRepository) UpdateXPBalance(id uint, balance int) error {
	return r.db.Model(&model.Student{}).Where("id = ?", id).
		Update("xp_balance", balance).Error
}

func (r *studentRepository) FindByLevelRange(floor, ceiling int) ([]model.Student, error) {
	var students []model.Student
	err := r.db.Where("lexile_level >= ? AND lexile_level < ?", floor, ceiling).
		Order("id ASC").Find(&students).Error
	return students, err
}
