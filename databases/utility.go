package databases

import "go.mongodb.org/mongo-driver/mongo/options"

// MongoPaginate holds limit and page for paged finds
type MongoPaginate struct {
	limit int64
	page  int64
}

// NewMongoPaginate builds pagination options; page is 1-based
func NewMongoPaginate(limit, page int) *MongoPaginate {
	if page < 1 {
		page = 1
	}
	return &MongoPaginate{
		limit: int64(limit),
		page:  int64(page),
	}
}

// GetPaginatedOpts returns find options for the page. A zero limit means no
// limit and no skip.
func (mp *MongoPaginate) GetPaginatedOpts() *options.FindOptions {
	if mp.limit <= 0 {
		return options.Find()
	}
	l := mp.limit
	skip := mp.page*mp.limit - mp.limit
	fOpt := options.FindOptions{Limit: &l, Skip: &skip}

	return &fOpt
}
