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
	"gorm.io/gorm/clause"
)

var errAdminRequired = errors.New("admin access required")

type StaffController struct {
	DB *gorm.DB
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db}
}

// Register creates a staff account. The very first account is created as admin without
// authentication; every later one needs an admin token.
func (sc *StaffController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"omitempty,oneof=admin host"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	staff := models.Staff{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Role:     req.Role,
	}
	if staff.Role == "" {
		staff.Role = models.RoleHost
	}

	// The count and the insert share a transaction so only one request can see an empty table.
	err = sc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Staff{}).Clauses(clause.Locking{Strength: "UPDATE"}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			staff.Role = models.RoleAdmin
		} else if !callerIsAdmin(c) {
			return errAdminRequired
		}
		return tx.Create(&staff).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errAdminRequired):
			utils.RespondStatus(c, http.StatusForbidden, "admin access required")
		case errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate"):
			utils.RespondStatus(c, http.StatusBadRequest, "email is already registered")
		default:
			utils.RespondError(c, err)
		}
		return
	}

	utils.InfoLogger.WithField("role", staff.Role).Infof("staff registered: %s", staff.Email)
	utils.RespondJSON(c, http.StatusCreated, staff)
}

// Login -> returns a JWT
func (sc *StaffController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	var staff models.Staff
	if err := sc.DB.WithContext(c.Request.Context()).Where("email = ?", strings.ToLower(input.Email)).First(&staff).Error; err != nil {
		utils.RespondStatus(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(input.Password)); err != nil {
		utils.RespondStatus(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(staff.ID, staff.Role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.InfoLogger.WithField("role", staff.Role).Infof("staff logged in: %s", staff.Email)
	utils.RespondJSON(c, http.StatusOK, gin.H{
		"token": token,
		"role":  staff.Role,
	})
}

// GetProfile -> the authenticated staff account
func (sc *StaffController) GetProfile(c *gin.Context) {
	staffID, ok := c.Get("staffID")
	if !ok {
		utils.RespondStatus(c, http.StatusUnauthorized, "staff id not found in context")
		return
	}

	var staff models.Staff
	if err := sc.DB.WithContext(c.Request.Context()).First(&staff, staffID).Error; err != nil {
		utils.RespondStatus(c, http.StatusNotFound, "staff account no longer exists")
		return
	}
	utils.RespondJSON(c, http.StatusOK, staff)
}

func callerIsAdmin(c *gin.Context) bool {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		return false
	}
	claims, err := utils.ParseToken(token)
	return err == nil && claims.Role == models.RoleAdmin
}
