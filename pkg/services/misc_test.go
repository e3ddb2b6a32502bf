package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kiteran/userd/pkg/models"
	"github.com/kiteran/userd/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var userColumns = []string{"id", "name", "email", "profile", "created_at", "updated_at", "deleted_at"}

func newServiceDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}

	return db, mock
}

func userRow(id int64, name, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userColumns).AddRow(id, name, email, []byte(`{}`), now, now, nil)
}

// fakeUserEvents scripts the mongo collection behind the event
// service, recording inserts and every filter it was handed.
type fakeUserEvents struct {
	inserted  []*models.UserEvent
	insertErr error

	findDocs    []interface{}
	findErr     error
	findFilters []bson.M

	oneResults []*mongo.SingleResult
	oneFilters []bson.M
}

func (f *fakeUserEvents) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	event, ok := document.(*models.UserEvent)
	if !ok {
		return nil, errors.New("unexpected document type")
	}
	f.inserted = append(f.inserted, event)
	return &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}, nil
}

func (f *fakeUserEvents) Find(_ context.Context, filter interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	f.findFilters = append(f.findFilters, filter.(bson.M))
	if f.findErr != nil {
		return nil, f.findErr
	}
	return mongo.NewCursorFromDocuments(f.findDocs, nil, nil)
}

func (f *fakeUserEvents) FindOne(_ context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	f.oneFilters = append(f.oneFilters, filter.(bson.M))
	if len(f.oneResults) == 0 {
		return mongo.NewSingleResultFromDocument(bson.D{}, errors.New("unexpected FindOne"), nil)
	}
	res := f.oneResults[0]
	f.oneResults = f.oneResults[1:]
	return res
}

func oid(n byte) primitive.ObjectID {
	var id primitive.ObjectID
	id[11] = n
	return id
}

func foundNeighbor() *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{{Key: "_id", Value: oid(1)}}, nil, nil)
}

func missingNeighbor() *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func newTestUserService(t *testing.T, db *gorm.DB, events *EventService) *UserService {
	t.Helper()

	codec, err := pagination.NewCodec("service-test-secret")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return NewUserService(db, codec, nil, events)
}
