package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/wildlife-watch-api/databases"
	"github.com/linesmerrill/wildlife-watch-api/models"
)

var errStreamEnded = errors.New("change stream ended")

// ChangeHandlers receive change feed notifications, one at a time and in the
// order the store committed them. Nil handlers are skipped.
type ChangeHandlers struct {
	OnInsert func(models.Report)
	OnUpdate func(models.Report)
	OnDelete func(id int64)
	// OnError is told once if the stream dies for any reason other than Close.
	OnError func(error)
}

// Subscription is a standing change feed. Close is idempotent and must not be
// called from inside a handler.
type Subscription interface {
	Close() error
}

type changeDocument struct {
	OperationType string         `bson:"operationType"`
	FullDocument  *models.Report `bson:"fullDocument"`
	DocumentKey   struct {
		ID int64 `bson:"_id"`
	} `bson:"documentKey"`
}

type changeSubscription struct {
	stream databases.ChangeStreamHelper
	cancel context.CancelFunc
	done   chan struct{}

	once sync.Once
	err  error
}

// SubscribeToChanges opens one change stream over the reports collection and
// delivers its events to h on a single goroutine until the subscription is
// closed or ctx ends.
func (c *Client) SubscribeToChanges(ctx context.Context, h ChangeHandlers) (Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := c.reports.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		cancel()
		return nil, classify(err)
	}

	s := &changeSubscription{
		stream: stream,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.deliver(ctx, h)
	return s, nil
}

func (s *changeSubscription) deliver(ctx context.Context, h ChangeHandlers) {
	defer close(s.done)

	for s.stream.Next(ctx) {
		var doc changeDocument
		if err := s.stream.Decode(&doc); err != nil {
			zap.S().Warnw("skipping undecodable change event", "error", err)
			continue
		}
		event, ok := toChangeEvent(doc)
		if !ok {
			continue
		}
		dispatch(event, h)
	}

	if ctx.Err() != nil {
		return
	}
	err := s.stream.Err()
	if err == nil {
		err = errStreamEnded
	}
	zap.S().Errorw("report change stream stopped", "error", err)
	if h.OnError != nil {
		h.OnError(fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
	}
}

func (s *changeSubscription) Close() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
		s.err = s.stream.Close(context.Background())
	})
	return s.err
}

func toChangeEvent(doc changeDocument) (models.ChangeEvent, bool) {
	switch doc.OperationType {
	case "insert":
		if doc.FullDocument == nil {
			return models.ChangeEvent{}, false
		}
		return models.ChangeEvent{Type: models.ChangeInsert, ID: doc.FullDocument.ID, Report: doc.FullDocument}, true
	case "update", "replace":
		// updateLookup yields no document when the row was deleted in between
		if doc.FullDocument == nil {
			return models.ChangeEvent{}, false
		}
		return models.ChangeEvent{Type: models.ChangeUpdate, ID: doc.FullDocument.ID, Report: doc.FullDocument}, true
	case "delete":
		return models.ChangeEvent{Type: models.ChangeDelete, ID: doc.DocumentKey.ID}, true
	}
	return models.ChangeEvent{}, false
}

func dispatch(event models.ChangeEvent, h ChangeHandlers) {
	switch event.Type {
	case models.ChangeInsert:
		if h.OnInsert != nil {
			h.OnInsert(*event.Report)
		}
	case models.ChangeUpdate:
		if h.OnUpdate != nil {
			h.OnUpdate(*event.Report)
		}
	case models.ChangeDelete:
		if h.OnDelete != nil {
			h.OnDelete(event.ID)
		}
	}
}
