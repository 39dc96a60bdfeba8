package campaign

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mo-amir99/campaign-naming-server-go/pkg/pagination"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/types"
)

// StatusAll disables the status filter on List.
const StatusAll = "all"

// Campaign is a generated name together with the integrations it triggered.
type Campaign struct {
	types.BaseModel

	Name               string               `gorm:"type:varchar(200);not null;uniqueIndex" json:"name"`
	DisplayName        string               `gorm:"type:varchar(120);not null;column:display_name" json:"displayName"`
	ListAcronym        string               `gorm:"type:varchar(20);not null;column:list_acronym;index" json:"listAcronym"`
	Scope              string               `gorm:"type:varchar(20);not null" json:"scope"`
	Topic              string               `gorm:"type:varchar(40);not null" json:"topic"`
	PetitionID         *string              `gorm:"type:varchar(20);column:petition_id" json:"petitionId"`
	CampaignTitle      string               `gorm:"type:varchar(60);not null;column:campaign_title" json:"campaignTitle"`
	GlobalCampaign     string               `gorm:"type:varchar(60);not null;column:global_campaign" json:"globalCampaign"`
	CampaignType       string               `gorm:"type:varchar(30);not null;column:campaign_type" json:"campaignType"`
	CreatedBy          uuid.UUID            `gorm:"type:uuid;not null;column:created_by;index" json:"createdBy"`
	Status             types.CampaignStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AsanaTaskID        *string              `gorm:"type:varchar(40);column:asana_task_id" json:"asanaTaskId"`
	IterableCampaignID *string              `gorm:"type:varchar(40);column:iterable_campaign_id" json:"iterableCampaignId"`
	IterableListIDs    pq.Int64Array        `gorm:"type:bigint[];column:iterable_list_ids" json:"iterableListIds"`
	ErrorMessage       *string              `gorm:"type:text;column:error_message" json:"errorMessage"`
}

// TableName overrides the default table name.
func (Campaign) TableName() string { return "campaigns" }

// ListFilters narrows a campaign listing.
type ListFilters struct {
	Owner  uuid.UUID
	Search string
	Status string
}

// Outcome is the result of running the integrations for a campaign.
type Outcome struct {
	Status             types.CampaignStatus
	AsanaTaskID        *string
	IterableCampaignID *string
	ErrorMessage       *string
}

// AnalyticsRow is the projection analytics are computed from.
type AnalyticsRow struct {
	Status       string
	ListAcronym  string
	Scope        string
	Topic        string
	CampaignType string
	CreatedAt    time.Time
}

// List returns the owner's campaigns, newest first.
func List(db *gorm.DB, filters ListFilters, params pagination.Params) ([]Campaign, int64, error) {
	query := db.Model(&Campaign{}).Where("created_by = ?", filters.Owner)

	if search := strings.TrimSpace(filters.Search); search != "" {
		keyword := pagination.SearchPattern(search)
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(display_name) LIKE ? ESCAPE '\' OR LOWER(list_acronym) LIKE ? ESCAPE '\'`,
			keyword, keyword, keyword,
		)
	}

	if filters.Status != "" && filters.Status != StatusAll {
		query = query.Where("status = ?", filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []Campaign
	if err := query.Order("created_at DESC").Offset(params.Skip).Limit(params.Limit).Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// Get retrieves one of the owner's campaigns.
func Get(db *gorm.DB, id, owner uuid.UUID) (Campaign, error) {
	var c Campaign
	if err := db.First(&c, "id = ? AND created_by = ?", id, owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c, ErrCampaignNotFound
		}
		return c, err
	}
	return c, nil
}

// ExistsByName reports whether any campaign already uses name.
func ExistsByName(db *gorm.DB, name string) (bool, error) {
	var count int64
	if err := db.Model(&Campaign{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a campaign. The unique name index reports races as ErrNameTaken.
func Create(db *gorm.DB, c *Campaign) error {
	if c.Status == "" {
		c.Status = types.CampaignStatusPending
	}
	if err := db.Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrNameTaken
		}
		return err
	}
	return nil
}

// SaveOutcome stores the integration results and returns the updated row.
func SaveOutcome(db *gorm.DB, id uuid.UUID, outcome Outcome) (Campaign, error) {
	err := db.Model(&Campaign{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":               outcome.Status,
		"asana_task_id":        outcome.AsanaTaskID,
		"iterable_campaign_id": outcome.IterableCampaignID,
		"error_message":        outcome.ErrorMessage,
	}).Error
	if err != nil {
		return Campaign{}, err
	}

	var c Campaign
	if err := db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c, ErrCampaignNotFound
		}
		return c, err
	}
	return c, nil
}

// ListForAnalytics loads the columns analytics need for every owner campaign.
func ListForAnalytics(db *gorm.DB, owner uuid.UUID) ([]AnalyticsRow, error) {
	var rows []AnalyticsRow
	err := db.Model(&Campaign{}).
		Select("status, list_acronym, scope, topic, campaign_type, created_at").
		Where("created_by = ?", owner).
		Order("created_at ASC").
		Scan(&rows).Error
	return rows, err
}

// MarkStalePending fails campaigns still pending since before cutoff.
func MarkStalePending(db *gorm.DB, cutoff time.Time, message string) (int64, error) {
	result := db.Model(&Campaign{}).
		Where("status = ? AND created_at < ?", types.CampaignStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":        types.CampaignStatusFailed,
			"error_message": message,
		})
	return result.RowsAffected, result.Error
}

// Store is the persistence used by the service and handlers.
type Store interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]Campaign, int64, error)
	Get(ctx context.Context, id, owner uuid.UUID) (Campaign, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, c *Campaign) error
	SaveOutcome(ctx context.Context, id uuid.UUID, outcome Outcome) (Campaign, error)
	ListForAnalytics(ctx context.Context, owner uuid.UUID) ([]AnalyticsRow, error)
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

// NewStore wraps db in a Store.
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]Campaign, int64, error) {
	return List(s.db.WithContext(ctx), filters, params)
}

func (s *GormStore) Get(ctx context.Context, id, owner uuid.UUID) (Campaign, error) {
	return Get(s.db.WithContext(ctx), id, owner)
}

func (s *GormStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	return ExistsByName(s.db.WithContext(ctx), name)
}

func (s *GormStore) Create(ctx context.Context, c *Campaign) error {
	return Create(s.db.WithContext(ctx), c)
}

func (s *GormStore) SaveOutcome(ctx context.Context, id uuid.UUID, outcome Outcome) (Campaign, error) {
	return SaveOutcome(s.db.WithContext(ctx), id, outcome)
}

func (s *GormStore) ListForAnalytics(ctx context.Context, owner uuid.UUID) ([]AnalyticsRow, error) {
	return ListForAnalytics(s.db.WithContext(ctx), owner)
}

// MarkStalePending lets the store act as the stale campaign sweeper.
func (s *GormStore) MarkStalePending(ctx context.Context, cutoff time.Time, message string) (int64, error) {
	return MarkStalePending(s.db.WithContext(ctx), cutoff, message)
}
