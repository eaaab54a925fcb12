package recordsRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookingagent/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMemoryRecordRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecordRepo()
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for i, sid := range []string{"s1", "s2", "s1"} {
		_, err := repo.Create(ctx, models.BookingRecord{
			SessionID: sid,
			EventID:   "evt",
			Title:     "Meeting",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	s1, _ := repo.GetBySessionID(ctx, "s1")
	if len(s1) != 2 {
		t.Fatalf("GetBySessionID(s1) returned %d records, want 2", len(s1))
	}
	if !s1[0].CreatedAt.After(s1[1].CreatedAt) {
		t.Errorf("records not newest first: %v, %v", s1[0].CreatedAt, s1[1].CreatedAt)
	}

	all, _ := repo.List(ctx, 0)
	if len(all) != 3 {
		t.Errorf("List(0) returned %d, want 3", len(all))
	}
	limited, _ := repo.List(ctx, 2)
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d, want 2", len(limited))
	}

	got, err := repo.GetByID(ctx, all[0].ID)
	if err != nil || got.ID != all[0].ID {
		t.Errorf("GetByID = %+v, %v", got, err)
	}

	if err := repo.DeleteByID(ctx, all[0].ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if _, err := repo.GetByID(ctx, all[0].ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("GetByID after delete err = %v, want ErrRecordNotFound", err)
	}
	if err := repo.DeleteByID(ctx, "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("DeleteByID(missing) err = %v, want ErrRecordNotFound", err)
	}
}

func recordDoc(id, session string) bson.D {
	return bson.D{
		{Key: "id", Value: id},
		{Key: "sessionId", Value: session},
		{Key: "eventId", Value: "evt-" + id},
		{Key: "title", Value: "Meeting"},
	}
}

func TestMongoRecordRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns an id", func(mt *mtest.T) {
		repo := &mongoRecordRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Create(context.Background(), models.BookingRecord{SessionID: "s1"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if id == "" {
			t.Error("Create returned an empty id")
		}
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := &mongoRecordRepo{coll: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, recordDoc("r1", "s1")))

		rec, err := repo.GetByID(context.Background(), "r1")
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if rec.ID != "r1" || rec.EventID != "evt-r1" {
			t.Errorf("record = %+v", rec)
		}
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		repo := &mongoRecordRepo{coll: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("err = %v, want ErrRecordNotFound", err)
		}
	})

	mt.Run("list by session", func(mt *mtest.T) {
		repo := &mongoRecordRepo{coll: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, recordDoc("r1", "s1"), recordDoc("r2", "s1")),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)

		recs, err := repo.GetBySessionID(context.Background(), "s1")
		if err != nil {
			t.Fatalf("GetBySessionID: %v", err)
		}
		if len(recs) != 2 || recs[1].ID != "r2" {
			t.Errorf("records = %+v", recs)
		}
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := &mongoRecordRepo{coll: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "acknowledged", Value: true}, {Key: "n", Value: 0}})

		if err := repo.DeleteByID(context.Background(), "nope"); !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("err = %v, want ErrRecordNotFound", err)
		}
	})
}
