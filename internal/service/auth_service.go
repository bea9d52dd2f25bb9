package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lshigami/Quokkas/config"
	"github.com/lshigami/Quokkas/internal/lexile"
	"github.com/lshigami/Quokkas/internal/model"
	"github.com/lshigami/Quokkas/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	StudentID       string
	Password        string
	ConfirmPassword string
	Name            string
	Age             int
}

type AuthService interface {
	Register(input RegisterInput) (*model.Student, error)
	// Login verifies credentials and returns a signed bearer token.
	Login(studentID, password string) (token string, student *model.Student, err error)
	// ParseToken validates a bearer token and returns the student PK.
	ParseToken(token string) (uint, error)
}

type authService struct {
	students repository.StudentRepository
	cfg      *config.Config
}

func NewAuthService(students repository.StudentRepository, cfg *config.Config) AuthService {
	return &authService{students: students, cfg: cfg}
}

func (s *authService) Register(input RegisterInput) (*model.Student, error) {
	if input.StudentID == "" || input.Password == "" || input.Name == "" {
		return nil, fmt.Errorf("student ID, password and name are required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}

	// Age must map to a lexile band; defaulting here would put the student
	// in a leaderboard bucket their level never earned.
	level, err := lexile.InitialLevel(input.Age)
	if err != nil {
		return nil, err
	}

	if _, err := s.students.FindByStudentID(input.StudentID); err == nil {
		return nil, ErrStudentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking student ID: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	floor, ceiling := lexile.RangeOf(level)
	student := &model.Student{
		PublicID:     uuid.NewString(),
		StudentID:    input.StudentID,
		PasswordHash: string(hash),
		Name:         input.Name,
		Age:          input.Age,
		LexileLevel:  level,
		RangeFloor:   floor,
		RangeCeiling: ceiling,
	}

	factors := make([]model.FactorScore, 0, len(lexile.Factors))
	for _, f := range lexile.Factors {
		factors = append(factors, model.FactorScore{Factor: f, Score: 0})
	}

	if err := s.students.Create(student, factors); err != nil {
		log.Error().Err(err).Str("studentID", input.StudentID).Msg("Register: failed to create student")
		return nil, fmt.Errorf("creating student: %w", err)
	}

	log.Info().Str("studentID", student.StudentID).Int("initialLevel", level).Msg("Student registered")
	return student, nil
}

func (s *authService) Login(studentID, password string) (string, *model.Student, error) {
	student, err := s.students.FindByStudentID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("looking up student: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub": student.ID,
		"pid": student.PublicID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return "", nil, fmt.Errorf("signing token: %w", err)
	}
	return token, student, nil
}

func (s *authService) ParseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidCredentials
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, ErrInvalidCredentials
	}
	return uint(sub), nil
}
