package services

import (
	"context"
	"strings"

	"sheetstack/internal/models"
	"sheetstack/internal/sheetdb"
)

// ContentItem is a content record as served to a member. A nil value is a
// field withheld from that member.
type ContentItem map[string]*string

// FilterByMembership redacts premium items for members below premium. Premium
// items stay in the result with their sensitive fields set to null so clients
// can still list them.
func FilterByMembership(records []sheetdb.Record, tier models.Membership) []ContentItem {
	items := make([]ContentItem, 0, len(records))
	for _, rec := range records {
		item := make(ContentItem, len(rec))
		for column, value := range rec {
			v := value
			item[column] = &v
		}
		if isPremium(rec) && tier != models.MembershipPremium {
			for _, column := range models.SensitiveColumns {
				item[column] = nil
			}
		}
		items = append(items, item)
	}
	return items
}

func isPremium(rec sheetdb.Record) bool {
	return strings.EqualFold(strings.TrimSpace(rec[models.ColPremiumAccess]), "TRUE")
}

// ContentCatalog serves the read-only content sheets.
type ContentCatalog struct {
	DB     *sheetdb.DB
	Sheets map[models.ContentKind]string
}

func (c *ContentCatalog) List(ctx context.Context, kind models.ContentKind, tier models.Membership) ([]ContentItem, error) {
	sheet, ok := c.Sheets[kind]
	if !ok {
		return nil, ErrNotFound("Unknown content type")
	}
	_, records, err := c.DB.ReadAll(ctx, sheet)
	if err != nil {
		return nil, WrapError(err, "read "+string(kind))
	}
	return FilterByMembership(records, tier), nil
}
