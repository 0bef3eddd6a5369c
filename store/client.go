// Package store is the client for the hosted wildlife report collection. It
// owns no state: every call is a single request against the database or a
// change stream registration.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/wildlife-watch-api/config"
	"github.com/linesmerrill/wildlife-watch-api/databases"
	"github.com/linesmerrill/wildlife-watch-api/models"
)

const reportSequence = "wildlife_reports"

// Client issues queries, inserts and change subscriptions for wildlife reports
type Client struct {
	reports  databases.ReportDatabase
	counters databases.CounterDatabase
	conn     databases.ClientHelper
	now      func() time.Time
}

// NewClient wraps an already connected database handle
func NewClient(db databases.DatabaseHelper) *Client {
	return &Client{
		reports:  databases.NewReportDatabase(db),
		counters: databases.NewCounterDatabase(db),
		now:      time.Now,
	}
}

// Dial connects to the store with the credentials in conf and prepares the
// reports collection.
func Dial(ctx context.Context, conf *config.Config) (*Client, error) {
	if conf.URL == "" {
		return nil, fmt.Errorf("%w: DB_URI is not set", ErrStoreUnavailable)
	}

	start := time.Now()
	conn, err := databases.NewClient(ctx, conf)
	if err != nil {
		return nil, classify(err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Disconnect(context.Background())
		return nil, classify(err)
	}

	c := NewClient(databases.NewDatabase(conf, conn))
	c.conn = conn

	if err := c.reports.EnsureIndexes(ctx); err != nil {
		zap.S().Warnw("failed to ensure report indexes", "error", err)
	}
	zap.S().Infow("connected to report store",
		"database", conf.DatabaseName,
		"took", time.Since(start).Round(time.Millisecond))
	return c, nil
}

// Close disconnects a client created by Dial. It is a no-op otherwise.
func (c *Client) Close(ctx context.Context) error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Disconnect(ctx)
}

// FetchRecent returns up to limit reports, most recent reportTime first. On
// failure no partial result is returned.
func (c *Client) FetchRecent(ctx context.Context, limit int) ([]models.Report, error) {
	if limit <= 0 {
		return []models.Report{}, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "reportTime", Value: -1}}).
		SetLimit(int64(limit))
	reports, err := c.reports.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify(err)
	}
	return reports, nil
}

// FetchPage returns the raw collection in insertion order. A zero limit
// returns everything.
func (c *Client) FetchPage(ctx context.Context, page, limit int) ([]models.Report, error) {
	opts := databases.NewMongoPaginate(limit, page).GetPaginatedOpts().
		SetSort(bson.D{{Key: "_id", Value: 1}})
	reports, err := c.reports.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify(err)
	}
	return reports, nil
}

// Insert stores exactly one report. The store assigns the id and created_at.
func (c *Client) Insert(ctx context.Context, report models.WildlifeReport) (models.Report, error) {
	if err := report.Validate(); err != nil {
		return models.Report{}, fmt.Errorf("%w: %w", ErrValidationRejected, err)
	}

	id, err := c.counters.NextSequence(ctx, reportSequence)
	if err != nil {
		return models.Report{}, classify(err)
	}

	// mongo keeps millisecond precision; truncate so the returned row matches
	// what the change feed will deliver
	row := models.Report{
		ID:         id,
		AnimalType: report.AnimalType,
		Latitude:   report.Latitude,
		Longitude:  report.Longitude,
		ReportTime: report.ReportTime.UTC().Truncate(time.Millisecond),
		CreatedAt:  c.now().UTC().Truncate(time.Millisecond),
	}
	if err := c.reports.InsertOne(ctx, row); err != nil {
		return models.Report{}, classify(err)
	}
	return row, nil
}

// Update overwrites the sighting fields of an existing report. A zero
// ReportTime keeps the stored one.
func (c *Client) Update(ctx context.Context, id int64, report models.WildlifeReport) (models.Report, error) {
	set := bson.M{
		"animalType": report.AnimalType,
		"latitude":   report.Latitude,
		"longitude":  report.Longitude,
	}
	check := report
	if report.ReportTime.IsZero() {
		check.ReportTime = c.now()
	} else {
		set["reportTime"] = report.ReportTime.UTC().Truncate(time.Millisecond)
	}
	if err := check.Validate(); err != nil {
		return models.Report{}, fmt.Errorf("%w: %w", ErrValidationRejected, err)
	}

	matched, err := c.reports.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.Report{}, classify(err)
	}
	if matched == 0 {
		return models.Report{}, ErrNotFound
	}

	// the row may be deleted between the two calls; classify maps that to ErrNotFound
	updated, err := c.reports.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.Report{}, classify(err)
	}
	return *updated, nil
}

// Delete removes a report by id
func (c *Client) Delete(ctx context.Context, id int64) error {
	deleted, err := c.reports.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return classify(err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

type categoryCount struct {
	AnimalType models.Category `bson:"_id"`
	Count      int64           `bson:"count"`
}

// SummarizeSince counts reports per animal type with reportTime at or after since
func (c *Client) SummarizeSince(ctx context.Context, since time.Time) (map[models.Category]int64, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"reportTime": bson.M{"$gte": since.UTC()}}},
		bson.M{"$group": bson.M{"_id": "$animalType", "count": bson.M{"$sum": 1}}},
	}
	var rows []categoryCount
	if err := c.reports.Aggregate(ctx, pipeline, &rows); err != nil {
		return nil, classify(err)
	}

	counts := make(map[models.Category]int64, len(rows))
	for _, row := range rows {
		counts[row.AnimalType] = row.Count
	}
	return counts, nil
}
