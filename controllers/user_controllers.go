package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errInvalidCredentials = errors.New("Invalid credentials")

type UserController struct {
	DB     *gorm.DB
	Tokens *utils.TokenIssuer
}

func NewUserController(db *gorm.DB, tokens *utils.TokenIssuer) *UserController {
	return &UserController{DB: db, Tokens: tokens}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a staff account. The first account is the manager,
// every later one a host.
func (uc *UserController) Register(c *gin.Context) {
	var req utils.DataRequest[registerRequest]
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Data.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.ErrorLogger.Errorf("hash password: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Internal server error"))
		return
	}

	user := models.User{
		Name:     req.Data.Name,
		Email:    strings.ToLower(req.Data.Email),
		Password: string(hashed),
		Role:     models.RoleHost,
	}

	errTaken := errors.New("Email is already registered")
	err = uc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var total, taken int64
		if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return errTaken
		}
		if total == 0 {
			user.Role = models.RoleManager
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, errTaken) {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		utils.ErrorLogger.Errorf("create user: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Internal server error"))
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, user)
}

// Login -> {"data":{"token":...,"role":...}}
func (uc *UserController) Login(c *gin.Context) {
	var req utils.DataRequest[loginRequest]
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	err := uc.DB.WithContext(c.Request.Context()).Where("email = ?", strings.ToLower(req.Data.Email)).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Errorf("find user: %v", err)
		}
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Data.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	token, err := uc.Tokens.Generate(user.ID, user.Role)
	if err != nil {
		utils.ErrorLogger.Errorf("generate token: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Internal server error"))
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, gin.H{
		"token": token,
		"role":  user.Role,
	})
}
