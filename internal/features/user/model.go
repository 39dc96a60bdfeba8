package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mo-amir99/campaign-naming-server-go/pkg/pagination"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/types"
)

// MinPasswordLength applies to locally managed accounts.
const MinPasswordLength = 8

// User is a person allowed to generate campaign names.
type User struct {
	types.BaseModel

	Email         string             `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	FullName      string             `gorm:"type:varchar(120);not null;column:full_name" json:"fullName"`
	AvatarURL     *string            `gorm:"type:text;column:avatar_url" json:"avatarUrl,omitempty"`
	Role          types.UserRole     `gorm:"type:varchar(20);not null;default:'member';index" json:"role"`
	Provider      types.AuthProvider `gorm:"type:varchar(20);not null;default:'google'" json:"provider"`
	GoogleSubject *string            `gorm:"type:varchar(64);column:google_subject;uniqueIndex" json:"-"`
	Password      string             `gorm:"type:varchar(255)" json:"-"`
	RefreshToken  *string            `gorm:"type:text;column:refresh_token" json:"-"`
	Active        bool               `gorm:"type:boolean;not null;default:true;column:is_active;index" json:"isActive"`
	LastLoginAt   *time.Time         `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// ListFilters defines user query filters.
type ListFilters struct {
	Keyword string
	Role    types.UserRole
}

// PasswordInput carries data for creating a locally managed account.
type PasswordInput struct {
	FullName string
	Email    string
	Password string
	Role     types.UserRole
}

// GoogleProfile is the subset of the Google account used to upsert a user.
type GoogleProfile struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

// UpdateInput captures the fields an admin may change.
type UpdateInput struct {
	FullName *string
	Role     *types.UserRole
	Active   *bool
}

// List queries users with filters and pagination.
func List(db *gorm.DB, filters ListFilters, params pagination.Params) ([]User, int64, error) {
	query := db.Model(&User{})

	if keyword := strings.TrimSpace(filters.Keyword); keyword != "" {
		pattern := pagination.SearchPattern(keyword)
		query = query.Where(`LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	if filters.Role != "" {
		query = query.Where("role = ?", filters.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	if err := query.Order("created_at DESC").Offset(params.Skip).Limit(params.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Get retrieves a user by ID.
func Get(db *gorm.DB, id uuid.UUID) (User, error) {
	var usr User
	if err := db.First(&usr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// GetByEmail retrieves a user by email, ignoring case.
func GetByEmail(db *gorm.DB, email string) (User, error) {
	var usr User
	if err := db.First(&usr, "email = ?", NormalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// NewPasswordUser validates input and builds a locally managed account with a
// bcrypt-hashed password. Nothing is stored.
func NewPasswordUser(input PasswordInput) (User, error) {
	if len(input.Password) < MinPasswordLength {
		return User{}, ErrInvalidPassword
	}
	role := input.Role
	if role == "" {
		role = types.UserRoleMember
	}
	if !role.Valid() {
		return User{}, ErrInvalidRole
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}

	return User{
		FullName: strings.TrimSpace(input.FullName),
		Email:    NormalizeEmail(input.Email),
		Password: hashed,
		Role:     role,
		Provider: types.AuthProviderPassword,
		Active:   true,
	}, nil
}

// CreateWithPassword inserts a locally managed account with a hashed password.
func CreateWithPassword(db *gorm.DB, input PasswordInput) (User, error) {
	usr, err := NewPasswordUser(input)
	if err != nil {
		return User{}, err
	}
	if err := insert(db, &usr); err != nil {
		return usr, err
	}
	return usr, nil
}

func insert(db *gorm.DB, usr *User) error {
	if err := db.Create(usr).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// UpsertGoogle creates or refreshes the account behind a Google sign-in. The
// email is the conflict key so accounts created by an admin get linked.
func UpsertGoogle(db *gorm.DB, profile GoogleProfile, now time.Time) (User, error) {
	subject := profile.Subject
	usr := User{
		Email:         NormalizeEmail(profile.Email),
		FullName:      strings.TrimSpace(profile.Name),
		Role:          types.UserRoleMember,
		Provider:      types.AuthProviderGoogle,
		GoogleSubject: &subject,
		Active:        true,
		LastLoginAt:   &now,
	}
	if profile.AvatarURL != "" {
		avatar := profile.AvatarURL
		usr.AvatarURL = &avatar
	}
	if usr.FullName == "" {
		usr.FullName = usr.Email
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "avatar_url", "google_subject", "last_login_at", "updated_at"}),
	}).Create(&usr).Error
	if err != nil {
		return User{}, err
	}

	return GetByEmail(db, usr.Email)
}

// Changes converts input into column updates, rejecting invalid values.
func (input UpdateInput) Changes() (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if input.FullName != nil {
		trimmed := strings.TrimSpace(*input.FullName)
		if trimmed == "" {
			return nil, ErrEmptyName
		}
		updates["full_name"] = trimmed
	}

	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, ErrInvalidRole
		}
		updates["role"] = *input.Role
	}

	if input.Active != nil {
		updates["is_active"] = *input.Active
		if !*input.Active {
			updates["refresh_token"] = nil
		}
	}

	return updates, nil
}

// Update modifies an existing user.
func Update(db *gorm.DB, id uuid.UUID, input UpdateInput) (User, error) {
	if _, err := Get(db, id); err != nil {
		return User{}, err
	}

	updates, err := input.Changes()
	if err != nil {
		return User{}, err
	}

	if len(updates) > 0 {
		if err := db.Model(&User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return User{}, err
		}
	}

	return Get(db, id)
}

// RecordLogin stores the refresh token issued on sign-in.
func RecordLogin(db *gorm.DB, id uuid.UUID, refreshToken string, now time.Time) error {
	return db.Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"refresh_token": refreshToken,
		"last_login_at": now,
	}).Error
}

// ClearRefreshToken revokes the stored refresh token.
func ClearRefreshToken(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&User{}).Where("id = ?", id).Update("refresh_token", nil).Error
}

// ComparePassword checks a plain password against the stored hash.
func (u *User) ComparePassword(password string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// HashPassword hashes a plain password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Store is the persistence the user handler depends on.
type Store interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]User, int64, error)
	Get(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, usr *User) error
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (User, error)
}

// GormStore implements Store on top of the package functions.
type GormStore struct {
	db *gorm.DB
}

// NewStore wraps db as a Store.
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]User, int64, error) {
	return List(s.db.WithContext(ctx), filters, params)
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (User, error) {
	return Get(s.db.WithContext(ctx), id)
}

func (s *GormStore) Create(ctx context.Context, usr *User) error {
	return insert(s.db.WithContext(ctx), usr)
}

func (s *GormStore) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (User, error) {
	return Update(s.db.WithContext(ctx), id, input)
}
