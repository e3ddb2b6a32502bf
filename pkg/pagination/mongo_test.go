/*
Copyright © 2026 kiteran <kiteran@proton.me>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package pagination

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type pagedEvent struct {
	ID  primitive.ObjectID `bson:"_id"`
	Seq int                `bson:"seq"`
}

// fakeEventSource scripts Find with a fixed document set and FindOne
// with queued results, recording every filter it was handed.
type fakeEventSource struct {
	findDocs    []interface{}
	findErr     error
	findFilters []bson.M
	findOpts    []*options.FindOptions

	oneResults []*mongo.SingleResult
	oneFilters []bson.M
}

func (f *fakeEventSource) Find(_ context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	f.findFilters = append(f.findFilters, filter.(bson.M))
	f.findOpts = append(f.findOpts, opts...)
	if f.findErr != nil {
		return nil, f.findErr
	}
	return mongo.NewCursorFromDocuments(f.findDocs, nil, nil)
}

func (f *fakeEventSource) FindOne(_ context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
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

func eventDocs(seqs ...byte) []interface{} {
	docs := make([]interface{}, 0, len(seqs))
	for _, n := range seqs {
		docs = append(docs, pagedEvent{ID: oid(n), Seq: int(n)})
	}
	return docs
}

func foundNeighbor() *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{{Key: "_id", Value: oid(1)}}, nil, nil)
}

func missingNeighbor() *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func newEventPager(source documentSource) *DocumentPager[pagedEvent] {
	return NewDocumentPager(source, bson.M{"user_id": int64(7)}, func(e pagedEvent) primitive.ObjectID { return e.ID })
}

func TestDocumentPagerFirstPage(t *testing.T) {
	source := &fakeEventSource{
		findDocs:   eventDocs(30, 29, 28),
		oneResults: []*mongo.SingleResult{missingNeighbor(), foundNeighbor()},
	}

	page, err := newEventPager(source).WithLimit(3).GetPage(context.Background(), DirectionForward)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}

	if len(page.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(page.Items))
	}
	for i, want := range []int{30, 29, 28} {
		if page.Items[i].Seq != want {
			t.Errorf("item %d has seq %d, want %d", i, page.Items[i].Seq, want)
		}
	}

	if page.PreviousCursor != nil {
		t.Errorf("unexpected previous cursor %q on the newest page", *page.PreviousCursor)
	}
	if page.NextCursor == nil || *page.NextCursor != oid(28).Hex() {
		t.Errorf("next cursor = %v, want %s", page.NextCursor, oid(28).Hex())
	}

	if len(source.findFilters) != 1 {
		t.Fatalf("got %d find calls, want 1", len(source.findFilters))
	}
	want := bson.M{"user_id": int64(7)}
	if !reflect.DeepEqual(source.findFilters[0], want) {
		t.Errorf("find filter = %v, want %v", source.findFilters[0], want)
	}

	if len(source.findOpts) != 1 {
		t.Fatalf("got %d find options, want 1", len(source.findOpts))
	}
	opts := source.findOpts[0]
	if opts.Limit == nil || *opts.Limit != 3 {
		t.Errorf("find limit = %v, want 3", opts.Limit)
	}
	if !reflect.DeepEqual(opts.Sort, bson.D{{Key: "_id", Value: -1}}) {
		t.Errorf("find sort = %v, want _id descending", opts.Sort)
	}

	if len(source.oneFilters) != 2 {
		t.Fatalf("got %d probes, want 2", len(source.oneFilters))
	}
	wantNewer := bson.M{"user_id": int64(7), "_id": bson.M{"$gt": oid(30)}}
	if !reflect.DeepEqual(source.oneFilters[0], wantNewer) {
		t.Errorf("newer probe = %v, want %v", source.oneFilters[0], wantNewer)
	}
	wantOlder := bson.M{"user_id": int64(7), "_id": bson.M{"$lt": oid(28)}}
	if !reflect.DeepEqual(source.oneFilters[1], wantOlder) {
		t.Errorf("older probe = %v, want %v", source.oneFilters[1], wantOlder)
	}
}

func TestDocumentPagerForwardFromToken(t *testing.T) {
	source := &fakeEventSource{
		findDocs:   eventDocs(27, 26, 25),
		oneResults: []*mongo.SingleResult{foundNeighbor(), foundNeighbor()},
	}

	page, err := newEventPager(source).
		WithLimit(3).
		WithToken(oid(28).Hex()).
		GetPage(context.Background(), DirectionForward)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}

	want := bson.M{"user_id": int64(7), "_id": bson.M{"$lt": oid(28)}}
	if !reflect.DeepEqual(source.findFilters[0], want) {
		t.Errorf("find filter = %v, want %v", source.findFilters[0], want)
	}

	if page.PreviousCursor == nil || *page.PreviousCursor != oid(27).Hex() {
		t.Errorf("previous cursor = %v, want %s", page.PreviousCursor, oid(27).Hex())
	}
	if page.NextCursor == nil || *page.NextCursor != oid(25).Hex() {
		t.Errorf("next cursor = %v, want %s", page.NextCursor, oid(25).Hex())
	}
}

func TestDocumentPagerBackwardFromToken(t *testing.T) {
	source := &fakeEventSource{
		findDocs:   eventDocs(28, 27, 26),
		oneResults: []*mongo.SingleResult{foundNeighbor(), foundNeighbor()},
	}

	page, err := newEventPager(source).
		WithLimit(3).
		WithToken(oid(25).Hex()).
		GetPage(context.Background(), DirectionBackward)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}

	// Backward swaps the bound's operator but keeps the sort, so the
	// page is already newest first.
	want := bson.M{"user_id": int64(7), "_id": bson.M{"$gt": oid(25)}}
	if !reflect.DeepEqual(source.findFilters[0], want) {
		t.Errorf("find filter = %v, want %v", source.findFilters[0], want)
	}

	if page.Items[0].Seq != 28 || page.Items[2].Seq != 26 {
		t.Errorf("page spans %d..%d, want 28..26", page.Items[0].Seq, page.Items[2].Seq)
	}
	if page.PreviousCursor == nil || *page.PreviousCursor != oid(28).Hex() {
		t.Errorf("previous cursor = %v, want %s", page.PreviousCursor, oid(28).Hex())
	}
	if page.NextCursor == nil || *page.NextCursor != oid(26).Hex() {
		t.Errorf("next cursor = %v, want %s", page.NextCursor, oid(26).Hex())
	}
}

func TestDocumentPagerPartialPage(t *testing.T) {
	source := &fakeEventSource{
		findDocs:   eventDocs(3, 2, 1),
		oneResults: []*mongo.SingleResult{missingNeighbor()},
	}

	page, err := newEventPager(source).WithLimit(5).GetPage(context.Background(), DirectionForward)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}

	if page.PreviousCursor != nil || page.NextCursor != nil {
		t.Errorf("short page carries cursors: prev=%v next=%v", page.PreviousCursor, page.NextCursor)
	}
	if len(source.oneFilters) != 1 {
		t.Errorf("got %d probes, want 1: a short page never probes past its tail", len(source.oneFilters))
	}
}

func TestDocumentPagerEmpty(t *testing.T) {
	source := &fakeEventSource{}

	page, err := newEventPager(source).GetPage(context.Background(), DirectionForward)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}

	if len(page.Items) != 0 {
		t.Errorf("got %d items, want none", len(page.Items))
	}
	if page.PreviousCursor != nil || page.NextCursor != nil {
		t.Errorf("empty page carries cursors: prev=%v next=%v", page.PreviousCursor, page.NextCursor)
	}
	if len(source.oneFilters) != 0 {
		t.Errorf("empty page ran %d probes", len(source.oneFilters))
	}
}

func TestDocumentPagerRejectsBadToken(t *testing.T) {
	source := &fakeEventSource{}

	_, err := newEventPager(source).WithToken("zzz").GetPage(context.Background(), DirectionForward)
	if !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("got %v, want ErrInvalidCursor", err)
	}
	if len(source.findFilters) != 0 {
		t.Errorf("a rejected token still reached the collection")
	}
}

func TestDocumentPagerRejectsBadLimit(t *testing.T) {
	_, err := newEventPager(&fakeEventSource{}).WithLimit(0).GetPage(context.Background(), DirectionForward)
	if !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("got %v, want ErrInvalidLimit", err)
	}
}

func TestDocumentPagerKeepsFilterIntact(t *testing.T) {
	filter := bson.M{"user_id": int64(7)}
	source := &fakeEventSource{
		findDocs:   eventDocs(9, 8),
		oneResults: []*mongo.SingleResult{foundNeighbor()},
	}

	pager := NewDocumentPager(source, filter, func(e pagedEvent) primitive.ObjectID { return e.ID })
	if _, err := pager.WithLimit(5).WithToken(oid(10).Hex()).GetPage(context.Background(), DirectionForward); err != nil {
		t.Fatalf("get page: %v", err)
	}

	if _, ok := filter["_id"]; ok || len(filter) != 1 {
		t.Errorf("caller's filter was mutated: %v", filter)
	}
}
