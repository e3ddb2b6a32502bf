package pagination

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type pagedRow struct {
	ID   int64
	Name string
}

func (pagedRow) TableName() string {
	return "users"
}

func newGORMPostgresMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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

func newTestCodec(t *testing.T) *Codec {
	t.Helper()

	codec, err := NewCodec("keyset-test-secret")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

func encodeKey(t *testing.T, codec *Codec, id int64) string {
	t.Helper()

	token, err := codec.Encode(id)
	if err != nil {
		t.Fatalf("encode %d: %v", id, err)
	}
	return token
}

func decodeKey(t *testing.T, codec *Codec, token *string) int64 {
	t.Helper()

	if token == nil {
		t.Fatalf("expected a cursor, got none")
	}
	id, err := codec.Decode(*token)
	if err != nil {
		t.Fatalf("decode %q: %v", *token, err)
	}
	return id
}
