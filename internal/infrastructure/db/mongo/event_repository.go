package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventify/eventify-api/internal/core/domain"
	"github.com/eventify/eventify-api/internal/core/ports"
)

const collectionEvents = "events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

type eventDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	Location      string             `bson:"location"`
	DateTime      time.Time          `bson:"date_time"`
	CreatorID     primitive.ObjectID `bson:"creator_id"`
	AttendeeCount int                `bson:"attendee_count"`
	Attendees     []string           `bson:"attendees"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *eventDoc) toDomain() *domain.Event {
	attendees := d.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return &domain.Event{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Description:   d.Description,
		Location:      d.Location,
		DateTime:      d.DateTime,
		CreatorID:     d.CreatorID.Hex(),
		AttendeeCount: d.AttendeeCount,
		Attendees:     attendees,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	creatorOID, err := primitive.ObjectIDFromHex(event.CreatorID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	doc := eventDoc{
		Title:         event.Title,
		Description:   event.Description,
		Location:      event.Location,
		DateTime:      event.DateTime,
		CreatorID:     creatorOID,
		AttendeeCount: 0,
		Attendees:     []string{},
		CreatedAt:     event.CreatedAt,
		UpdatedAt:     event.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	created := *event
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var doc eventDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]*domain.Event, error) {
	return r.find(ctx, bson.M{})
}

func (r *EventRepository) FindByCreator(ctx context.Context, creatorID string) ([]*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(creatorID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	return r.find(ctx, bson.M{"creator_id": oid})
}

func (r *EventRepository) find(ctx context.Context, filter bson.M) ([]*domain.Event, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	events := []*domain.Event{}
	for cur.Next(ctx) {
		var doc eventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Update sets the creator-editable fields and stamps updated_at, returning the
// document as it is after the update.
func (r *EventRepository) Update(ctx context.Context, id string, upd ports.EventUpdate) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	update := bson.M{"$set": bson.M{
		"title":       upd.Title,
		"description": upd.Description,
		"location":    upd.Location,
		"date_time":   upd.DateTime.UTC(),
		"updated_at":  time.Now().UTC(),
	}}

	var doc eventDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// AddAttendee performs the join as a single atomic mutation. The filter
// requires the user to be absent from the attendee set, and the update applies
// $addToSet and $inc together, so the counter can never drift from the set
// cardinality, even under concurrent joins from many server instances.
//
// When the filtered update matches nothing, either the event does not exist or
// the user is already a member; one follow-up lookup by id tells the two apart.
func (r *EventRepository) AddAttendee(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	filter := bson.M{
		"_id":       oid,
		"attendees": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$addToSet": bson.M{"attendees": userID},
		"$inc":      bson.M{"attendee_count": 1},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}

	var doc eventDoc
	err = r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("add attendee: %w", err)
	}

	// No match: distinguish a missing event from a duplicate join.
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("add attendee: %w", err)
	}
	return nil, domain.ErrAlreadyJoined
}

// EnsureIndexes creates the query indexes for the events collection.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "creator_id", Value: 1}}},
		{Keys: bson.D{{Key: "date_time", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
