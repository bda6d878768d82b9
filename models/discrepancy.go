package models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"bitbucket.org/grupoavance/lending_backend/config"
	"bitbucket.org/grupoavance/lending_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StringList is a JSON-encoded string array column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot convert %T to StringList", value)
	}
}

// Discrepancy records an expected-vs-actual mismatch found by an operator
// while checking collections against an external source (paper/PDF totals).
// The engine captures and tracks it; it never reconciles automatically.
type Discrepancy struct {
	ID              int               `gorm:"primary_key" json:"id"`
	DiscrepancyType DiscrepancyType   `gorm:"index;size:20;not null" json:"discrepancy_type"`
	Date            time.Time         `gorm:"index;not null" json:"date"`
	WeekStartDate   *time.Time        `gorm:"index" json:"week_start_date"`
	ExpectedAmount  decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"expected_amount"`
	ActualAmount    decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"actual_amount"`
	Difference      decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"difference"`
	Description     string            `gorm:"type:text;not null" json:"description"`
	Category        string            `gorm:"size:100" json:"category"`
	Status          DiscrepancyStatus `gorm:"index;size:20;not null;default:'PENDING'" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes"`
	EvidenceUrls    StringList        `gorm:"type:text" json:"evidence_urls"`
	RouteId         int               `gorm:"index;not null" json:"route_id"`
	LeadId          int               `gorm:"index" json:"lead_id"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewDiscrepancy struct {
	DiscrepancyType DiscrepancyType `json:"discrepancy_type" binding:"required"`
	RouteId         int             `json:"route_id" binding:"required"`
	LeadId          int             `json:"lead_id"`
	Date            MyDateString    `json:"date" binding:"required"`
	WeekStartDate   *MyDateString   `json:"week_start_date"`
	ExpectedAmount  decimal.Decimal `json:"expected_amount"`
	ActualAmount    decimal.Decimal `json:"actual_amount"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	EvidenceImage   string          `json:"evidence_image"`
}

// discrepancyStore is the write surface for the discrepancy workflow. The
// exported operations wrap the gorm implementation; the workflow logic itself
// only sees this interface, same as the report engine and its SummaryStore.
type discrepancyStore interface {
	routeExists(ctx context.Context, id int) (bool, error)
	leadExists(ctx context.Context, id int) (bool, error)
	insert(ctx context.Context, d *Discrepancy) error
	fetch(ctx context.Context, id int) (*Discrepancy, error)
	update(ctx context.Context, d *Discrepancy, updates map[string]interface{}) error
	remove(ctx context.Context, d *Discrepancy) error
}

type gormDiscrepancyStore struct{}

func (gormDiscrepancyStore) routeExists(ctx context.Context, id int) (bool, error) {
	return RouteExists(ctx, id)
}

func (gormDiscrepancyStore) leadExists(ctx context.Context, id int) (bool, error) {
	return LeadExists(ctx, id)
}

func (gormDiscrepancyStore) insert(ctx context.Context, d *Discrepancy) error {
	return config.GetDB().WithContext(ctx).Create(d).Error
}

func (gormDiscrepancyStore) fetch(ctx context.Context, id int) (*Discrepancy, error) {
	var d Discrepancy
	if err := config.GetDB().WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (gormDiscrepancyStore) update(ctx context.Context, d *Discrepancy, updates map[string]interface{}) error {
	return config.GetDB().WithContext(ctx).Model(d).Updates(updates).Error
}

func (gormDiscrepancyStore) remove(ctx context.Context, d *Discrepancy) error {
	return config.GetDB().WithContext(ctx).Delete(d).Error
}

// validate input. The description is the only hard textual requirement: a
// discrepancy without an explanation is unusable to whoever resolves it.
func (input *NewDiscrepancy) validate(ctx context.Context, store discrepancyStore) error {
	if input.Description == "" {
		return errors.New("description is required")
	}
	ok, err := store.routeExists(ctx, input.RouteId)
	if err != nil {
		return err
	}
	if !ok {
		return utils.ErrorRecordNotFound
	}
	if input.LeadId > 0 {
		ok, err := store.leadExists(ctx, input.LeadId)
		if err != nil {
			return err
		}
		if !ok {
			return utils.ErrorRecordNotFound
		}
	}
	return nil
}

// CreateDiscrepancy stores a new PENDING discrepancy. Difference is computed
// server-side as actual - expected. An optional base64 evidence image is
// uploaded to object storage; when the upload fails the record is still
// created, just without the evidence URL.
func CreateDiscrepancy(ctx context.Context, input *NewDiscrepancy) (*Discrepancy, error) {
	return createDiscrepancy(ctx, gormDiscrepancyStore{}, input)
}

func createDiscrepancy(ctx context.Context, store discrepancyStore, input *NewDiscrepancy) (*Discrepancy, error) {
	if err := input.validate(ctx, store); err != nil {
		return nil, err
	}

	date := input.Date.StartOfDayUTC()
	var weekStart *time.Time
	if input.WeekStartDate != nil {
		ws := input.WeekStartDate.StartOfDayUTC()
		weekStart = &ws
	} else {
		ws := ISOWeekStart(date)
		weekStart = &ws
	}

	discrepancy := Discrepancy{
		DiscrepancyType: input.DiscrepancyType,
		Date:            date,
		WeekStartDate:   weekStart,
		ExpectedAmount:  input.ExpectedAmount,
		ActualAmount:    input.ActualAmount,
		Difference:      input.ActualAmount.Sub(input.ExpectedAmount),
		Description:     input.Description,
		Category:        input.Category,
		Status:          DiscrepancyStatusPending,
		RouteId:         input.RouteId,
		LeadId:          input.LeadId,
	}

	if input.EvidenceImage != "" {
		objectKey := "discrepancies/" + uuid.NewString() + ".jpg"
		if err := utils.SaveImageToGCS(ctx, objectKey, input.EvidenceImage); err != nil {
			// Evidence is an attachment, not the record of truth: keep the
			// discrepancy even when storage is down.
			config.LogError(config.GetLogger(), "discrepancy.go", "CreateDiscrepancy", "SaveImageToGCS", objectKey, err)
		} else {
			discrepancy.EvidenceUrls = append(discrepancy.EvidenceUrls, utils.BuildObjectAccessURL(objectKey))
		}
	}

	if err := store.insert(ctx, &discrepancy); err != nil {
		return nil, err
	}
	return &discrepancy, nil
}

// UpdateDiscrepancyStatus sets the status (and optional notes) of one record.
// Single-row write, last writer wins. Any of the three statuses is accepted
// as a target, including moving a COMPLETED record back to PENDING; operators
// asked for that escape hatch and the trusted-operator model tolerates it.
func UpdateDiscrepancyStatus(ctx context.Context, id int, status DiscrepancyStatus, notes *string) (*Discrepancy, error) {
	return updateDiscrepancyStatus(ctx, gormDiscrepancyStore{}, id, status, notes)
}

func updateDiscrepancyStatus(ctx context.Context, store discrepancyStore, id int, status DiscrepancyStatus, notes *string) (*Discrepancy, error) {
	if !status.Valid() {
		return nil, errors.New("invalid discrepancy status")
	}

	discrepancy, err := store.fetch(ctx, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	updates := map[string]interface{}{"Status": status}
	if notes != nil {
		updates["Notes"] = *notes
	}
	if err := store.update(ctx, discrepancy, updates); err != nil {
		return nil, err
	}
	discrepancy.Status = status
	if notes != nil {
		discrepancy.Notes = *notes
	}
	return discrepancy, nil
}

// DeleteDiscrepancy hard-deletes from any state. Evidence objects are removed
// best effort; a failed storage delete does not resurrect the record.
func DeleteDiscrepancy(ctx context.Context, id int) error {
	return deleteDiscrepancy(ctx, gormDiscrepancyStore{}, id)
}

func deleteDiscrepancy(ctx context.Context, store discrepancyStore, id int) error {
	discrepancy, err := store.fetch(ctx, id)
	if err != nil {
		return utils.ErrorRecordNotFound
	}

	if err := store.remove(ctx, discrepancy); err != nil {
		return err
	}

	for _, rawURL := range discrepancy.EvidenceUrls {
		objectKey := utils.ExtractObjectKeyFromURL(rawURL)
		if objectKey == "" {
			continue
		}
		if err := utils.DeleteImageFromGCS(ctx, objectKey); err != nil {
			config.LogError(config.GetLogger(), "discrepancy.go", "DeleteDiscrepancy", "DeleteImageFromGCS", objectKey, err)
		}
	}
	return nil
}

// ListDiscrepancies supports the unfiltered operator view and filtered
// exports. All filters are optional.
func ListDiscrepancies(ctx context.Context, routeId *int, fromDate *MyDateString, toDate *MyDateString, status *DiscrepancyStatus) ([]*Discrepancy, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)

	if routeId != nil && *routeId > 0 {
		dbCtx = dbCtx.Where("route_id = ?", *routeId)
	}
	if fromDate != nil {
		dbCtx = dbCtx.Where("date >= ?", fromDate.StartOfDayUTC())
	}
	if toDate != nil {
		dbCtx = dbCtx.Where("date <= ?", toDate.EndOfDayUTC())
	}
	if status != nil && *status != "" {
		if !status.Valid() {
			return nil, errors.New("invalid discrepancy status")
		}
		dbCtx = dbCtx.Where("status = ?", *status)
	}

	var results []*Discrepancy
	if err := dbCtx.Order("date, id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ISOWeekStart returns the Monday 00:00 UTC of t's ISO week.
func ISOWeekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the previous Monday
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

type WeeklyDiscrepancyTotal struct {
	WeekStartDate   time.Time       `json:"week_start_date"`
	Count           int             `json:"count"`
	TotalDifference decimal.Decimal `json:"total_difference"`
}

// WeeklyDiscrepancyTotals is a pure fold over the raw list: ISO weeks starting
// Monday, keyed by the stored week start when present, else by the date's week.
func WeeklyDiscrepancyTotals(discrepancies []*Discrepancy) []*WeeklyDiscrepancyTotal {
	byWeek := make(map[time.Time]*WeeklyDiscrepancyTotal)
	for _, d := range discrepancies {
		week := ISOWeekStart(d.Date)
		if d.WeekStartDate != nil {
			week = ISOWeekStart(*d.WeekStartDate)
		}
		total := byWeek[week]
		if total == nil {
			total = &WeeklyDiscrepancyTotal{WeekStartDate: week}
			byWeek[week] = total
		}
		total.Count++
		total.TotalDifference = total.TotalDifference.Add(d.Difference)
	}

	results := make([]*WeeklyDiscrepancyTotal, 0, len(byWeek))
	for _, total := range byWeek {
		results = append(results, total)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].WeekStartDate.Before(results[j].WeekStartDate)
	})
	return results
}
