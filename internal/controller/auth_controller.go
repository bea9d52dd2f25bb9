package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Quokkas/internal/dto"
	"github.com/lshigami/Quokkas/internal/lexile"
	"github.com/lshigami/Quokkas/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new student
// @Description Creates a student account, seeds the ten evaluation-factor scores at 0 and assigns an initial lexile level from the student's age band.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body dto.RegisterRequest true "Registration form"
// @Success 201 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failure, mismatched passwords or unsupported age"
// @Failure 409 {object} dto.ErrorResponse "Student ID already taken"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	student, err := c.authService.Register(service.RegisterInput{
		StudentID:       req.StudentID,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Name:            req.Name,
		Age:             req.Age,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentExists):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Student ID already exists. Please choose a different one."})
		case errors.Is(err, lexile.ErrNoBandMatch):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Age is outside the supported range."})
		default:
			log.Error().Err(err).Msg("Register: service error")
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		}
		return
	}

	var resp dto.StudentResponse
	if err := copier.Copy(&resp, student); err != nil {
		log.Error().Err(err).Msg("Register: failed to copy student to response")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Error preparing response"})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials and returns a bearer token for the API.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 401 {object} dto.ErrorResponse "Invalid student ID or password"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Please enter both student ID and password.", Details: []string{err.Error()}})
		return
	}

	token, student, err := c.authService.Login(req.StudentID, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid student ID or password. Please try again."})
			return
		}
		log.Error().Err(err).Msg("Login: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Login failed. Please try again."})
		return
	}

	var studentResp dto.StudentResponse
	if err := copier.Copy(&studentResp, student); err != nil {
		log.Error().Err(err).Msg("Login: failed to copy student to response")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Error preparing response"})
		return
	}
	ctx.JSON(http.StatusOK, dto.LoginResponse{Token: token, Student: studentResp})
}
