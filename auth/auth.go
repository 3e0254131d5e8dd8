package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"turfbook/db"
	"turfbook/globals"
	"turfbook/middleware"
	"turfbook/models"
	"turfbook/rdx"
	"turfbook/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// POST /api/auth/register
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid input", middleware.TraceID(r))
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Missing required fields", middleware.TraceID(r))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Err()
	if err == nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "User already exists", middleware.TraceID(r))
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("register: bcrypt error: %v", err)
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Failed to hash password", middleware.TraceID(r))
		return
	}

	user := models.User{
		ID:        "u" + utils.GenerateID(10),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  string(hashed),
		Role:      "user",
		CreatedAt: time.Now(),
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Failed to register user", middleware.TraceID(r))
		return
	}

	if err := rdx.RdxSet("users:"+user.ID, user.Email, 0); err != nil {
		log.Printf("register: redis cache failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Registration successful",
		"user": utils.M{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// POST /api/auth/login
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid input", middleware.TraceID(r))
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid credentials", middleware.TraceID(r))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid credentials", middleware.TraceID(r))
		return
	}

	claims := &middleware.Claims{
		Email:  user.Email,
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Failed to generate token", middleware.TraceID(r))
		return
	}

	if err := rdx.RdxHset("tokki", user.ID, tokenString); err != nil {
		log.Printf("login: redis token storage failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"token":   tokenString,
		"user": utils.M{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
			"role":  user.Role,
		},
	})
}

// POST /api/auth/logout
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		utils.RespondWithErrorTrace(w, http.StatusUnauthorized, "Missing token", middleware.TraceID(r))
		return
	}

	claims, err := middleware.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusUnauthorized, "Invalid token", middleware.TraceID(r))
		return
	}

	if err := rdx.RdxHdel("tokki", claims.UserID); err != nil {
		log.Printf("logout: redis token remove failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GET /api/auth/me
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"id": userID}).Decode(&user); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusNotFound, "User not found", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}
