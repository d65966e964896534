/*
Package mongo provides the production MongoDB-backed CalendarStore.

DOCUMENT SHAPE:
  calendars collection, one document per calendar:
    { _id, ownerId, name,
      payoutDetails: { paymentType, paymentDay?, paymentMethod, ... },
      payoutRecords: { "<periodKey>": { status, scheduledPaymentDate, ... } } }

WRITE STRATEGY:
  Record patches are read-merge-written as a dotted-path $set on the single
  period key ("payoutRecords.2025-W43"), so concurrent writers touching
  different periods don't clobber each other's keys. Migration swaps the
  whole payoutRecords map with one $set.
*/
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warp/payout-engine/payout"
)

// Config holds configuration for the MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Client wraps the MongoDB client and database handle.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	timeout  time.Duration
}

// NewClient connects and pings the database.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client:   client,
		database: client.Database(cfg.Database),
		timeout:  cfg.Timeout,
	}, nil
}

// Close disconnects from MongoDB.
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// =============================================================================
// CALENDAR STORE
// =============================================================================

// Store implements payout.CalendarStore on a calendars collection.
type Store struct {
	calendars *mongo.Collection
}

func NewStore(c *Client) *Store {
	return &Store{calendars: c.database.Collection("calendars")}
}

func (s *Store) GetCalendarByID(ctx context.Context, id string) (*payout.Calendar, error) {
	var cal payout.Calendar
	err := s.calendars.FindOne(ctx, bson.M{"_id": id}).Decode(&cal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}
	return &cal, nil
}

func (s *Store) ListCalendarsByOwner(ctx context.Context, ownerID string) ([]*payout.Calendar, error) {
	cursor, err := s.calendars.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*payout.Calendar
	for cursor.Next(ctx) {
		var cal payout.Calendar
		if err := cursor.Decode(&cal); err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}
		result = append(result, &cal)
	}
	return result, cursor.Err()
}

func (s *Store) CreateCalendar(ctx context.Context, cal *payout.Calendar) error {
	_, err := s.calendars.InsertOne(ctx, cal)
	if mongo.IsDuplicateKeyError(err) {
		return payout.ErrCalendarExists
	}
	if err != nil {
		return fmt.Errorf("failed to create calendar: %w", err)
	}
	return nil
}

func (s *Store) UpdatePayoutDetails(ctx context.Context, calendarID string, details payout.PayoutDetails) error {
	return s.setFields(ctx, calendarID, bson.M{"payoutDetails": details})
}

func (s *Store) UpdatePayoutDetailsAndRecord(ctx context.Context, calendarID, periodKey string, details *payout.PayoutDetails, patch payout.RecordPatch) error {
	merged, err := s.mergedRecord(ctx, calendarID, periodKey, patch)
	if err != nil {
		return err
	}
	fields := bson.M{"payoutRecords." + periodKey: merged}
	if details != nil {
		fields["payoutDetails"] = *details
	}
	return s.setFields(ctx, calendarID, fields)
}

func (s *Store) UpdatePayoutRecord(ctx context.Context, calendarID, periodKey string, patch payout.RecordPatch) error {
	merged, err := s.mergedRecord(ctx, calendarID, periodKey, patch)
	if err != nil {
		return err
	}
	return s.setFields(ctx, calendarID, bson.M{"payoutRecords." + periodKey: merged})
}

func (s *Store) ReplacePayoutRecords(ctx context.Context, calendarID string, records map[string]payout.PayoutRecord) error {
	if records == nil {
		records = map[string]payout.PayoutRecord{}
	}
	return s.setFields(ctx, calendarID, bson.M{"payoutRecords": records})
}

// mergedRecord applies the shallow-merge patch against the currently stored
// record so the dotted-path $set carries the full merged value.
func (s *Store) mergedRecord(ctx context.Context, calendarID, periodKey string, patch payout.RecordPatch) (payout.PayoutRecord, error) {
	cal, err := s.GetCalendarByID(ctx, calendarID)
	if err != nil {
		return payout.PayoutRecord{}, err
	}
	if cal == nil {
		return payout.PayoutRecord{}, payout.ErrNoSuchCalendar
	}
	return patch.Apply(cal.PayoutRecords[periodKey]), nil
}

func (s *Store) setFields(ctx context.Context, calendarID string, fields bson.M) error {
	res, err := s.calendars.UpdateOne(ctx, bson.M{"_id": calendarID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update calendar: %w", err)
	}
	if res.MatchedCount == 0 {
		return payout.ErrNoSuchCalendar
	}
	return nil
}
